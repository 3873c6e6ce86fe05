// Package recipe contains the core domain logic for recipes.
// Recipes are read-mostly: they are seeded by the operators and only their
// rating summary changes through user activity.
package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/domain/shared"
)

// Recipe represents the core recipe entity in our domain.
type Recipe struct {
	shared.AggregateRoot

	id          uuid.UUID
	title       string
	description string
	imageURL    string
	cuisine     string

	// Timing in minutes
	prepTime int
	cookTime int

	servings     int
	calories     *int
	difficulty   Difficulty
	ingredients  []string
	instructions []string

	// Rating summary, maintained from the ratings table
	rating      *float64
	ratingCount int
	popular     bool

	createdAt time.Time
}

// Details carries the optional attributes of a new recipe
type Details struct {
	Description  string
	ImageURL     string
	Cuisine      string
	PrepTime     int
	CookTime     int
	Servings     int
	Calories     *int
	Difficulty   Difficulty
	Ingredients  []string
	Instructions []string
	Popular      bool
}

// Snapshot is the full persisted state of a recipe
type Snapshot struct {
	ID           uuid.UUID
	Title        string
	Description  string
	ImageURL     string
	Cuisine      string
	PrepTime     int
	CookTime     int
	Servings     int
	Calories     *int
	Difficulty   Difficulty
	Ingredients  []string
	Instructions []string
	Rating       *float64
	RatingCount  int
	Popular      bool
	CreatedAt    time.Time
}

// NewRecipe creates a new Recipe with validation
func NewRecipe(title string, details Details) (*Recipe, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if details.PrepTime < 0 || details.CookTime < 0 {
		return nil, ErrNegativeTime
	}
	if details.Servings == 0 {
		details.Servings = DefaultServings
	}
	if details.Servings < 0 {
		return nil, ErrInvalidServings
	}
	if details.Difficulty == "" {
		details.Difficulty = DifficultyMedium
	}
	if !details.Difficulty.IsValid() {
		return nil, ErrInvalidDifficulty
	}

	return &Recipe{
		id:           uuid.New(),
		title:        title,
		description:  details.Description,
		imageURL:     details.ImageURL,
		cuisine:      details.Cuisine,
		prepTime:     details.PrepTime,
		cookTime:     details.CookTime,
		servings:     details.Servings,
		calories:     details.Calories,
		difficulty:   details.Difficulty,
		ingredients:  details.Ingredients,
		instructions: details.Instructions,
		popular:      details.Popular,
		createdAt:    time.Now().UTC(),
	}, nil
}

// Restore rebuilds a recipe from persisted state without validation
func Restore(s Snapshot) *Recipe {
	return &Recipe{
		id:           s.ID,
		title:        s.Title,
		description:  s.Description,
		imageURL:     s.ImageURL,
		cuisine:      s.Cuisine,
		prepTime:     s.PrepTime,
		cookTime:     s.CookTime,
		servings:     s.Servings,
		calories:     s.Calories,
		difficulty:   s.Difficulty,
		ingredients:  s.Ingredients,
		instructions: s.Instructions,
		rating:       s.Rating,
		ratingCount:  s.RatingCount,
		popular:      s.Popular,
		createdAt:    s.CreatedAt,
	}
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() uuid.UUID {
	return r.id
}

// Title returns the recipe's title
func (r *Recipe) Title() string {
	return r.title
}

// Description returns the recipe's description
func (r *Recipe) Description() string {
	return r.description
}

// ImageURL returns the stored image location
func (r *Recipe) ImageURL() string {
	return r.imageURL
}

// Cuisine returns the recipe's cuisine
func (r *Recipe) Cuisine() string {
	return r.cuisine
}

// PrepTime returns the preparation time in minutes
func (r *Recipe) PrepTime() int {
	return r.prepTime
}

// CookTime returns the cooking time in minutes
func (r *Recipe) CookTime() int {
	return r.cookTime
}

// TotalTime returns preparation plus cooking time in minutes
func (r *Recipe) TotalTime() int {
	return r.prepTime + r.cookTime
}

// Servings returns the default number of servings
func (r *Recipe) Servings() int {
	return r.servings
}

// Calories returns the calories per serving, if known
func (r *Recipe) Calories() *int {
	return r.calories
}

// Difficulty returns the recipe's difficulty
func (r *Recipe) Difficulty() Difficulty {
	return r.difficulty
}

// Ingredients returns the recipe's ingredients
func (r *Recipe) Ingredients() []string {
	return r.ingredients
}

// Instructions returns the recipe's instructions
func (r *Recipe) Instructions() []string {
	return r.instructions
}

// Rating returns the average rating, nil when nobody rated the recipe yet
func (r *Recipe) Rating() *float64 {
	return r.rating
}

// RatingCount returns the number of ratings
func (r *Recipe) RatingCount() int {
	return r.ratingCount
}

// IsPopular reports whether the recipe is featured as popular
func (r *Recipe) IsPopular() bool {
	return r.popular
}

// CreatedAt returns the creation timestamp
func (r *Recipe) CreatedAt() time.Time {
	return r.createdAt
}

// UpdateRatingSummary replaces the aggregate rating fields
func (r *Recipe) UpdateRatingSummary(summary RatingSummary) {
	r.ratingCount = summary.Count
	if summary.Count == 0 {
		r.rating = nil
		return
	}
	avg := summary.Average
	r.rating = &avg
}

// MatchesSearch reports whether term occurs in the title, cuisine or
// description, ignoring case. An empty term matches everything.
func (r *Recipe) MatchesSearch(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.title), term) ||
		strings.Contains(strings.ToLower(r.cuisine), term) ||
		strings.Contains(strings.ToLower(r.description), term)
}

func validateTitle(title string) error {
	if len(title) < 3 {
		return ErrTitleTooShort
	}
	if len(title) > 200 {
		return ErrTitleTooLong
	}
	return nil
}
