// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/domain/recipe"
	"github.com/savorly/savorly/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeEscaper escapes LIKE wildcards in user supplied search terms
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Create creates a new recipe
func (r *RecipeRepository) Create(ctx context.Context, rec *recipe.Recipe) error {
	result := r.db.WithContext(ctx).Create(RecipeToModel(rec))
	return translateWriteError(result.Error, "recipe id")
}

// FindByID finds a recipe by ID
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, result.Error
	}

	return ModelToRecipe(&model), nil
}

// FindByIDs finds every recipe whose ID is listed. Unknown IDs are skipped.
func (r *RecipeRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error) {
	if len(ids) == 0 {
		return []*recipe.Recipe{}, nil
	}

	var models []RecipeModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	return toRecipes(models), nil
}

// Search returns recipes newest first whose title, cuisine or description
// contains term, ignoring case
func (r *RecipeRepository) Search(ctx context.Context, term string) ([]*recipe.Recipe, error) {
	query := r.db.WithContext(ctx).Model(&RecipeModel{})

	term = strings.TrimSpace(term)
	if term != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		query = query.Where(
			`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(cuisine) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}

	var models []RecipeModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return toRecipes(models), nil
}

// FindPopular returns up to limit popular recipes, best rated first.
// Unrated recipes sort last.
func (r *RecipeRepository) FindPopular(ctx context.Context, limit int) ([]*recipe.Recipe, error) {
	var models []RecipeModel

	result := r.db.WithContext(ctx).
		Where("is_popular = ?", true).
		Order("rating IS NULL").
		Order("rating DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toRecipes(models), nil
}

// UpdateRatingSummary stores the aggregate rating of a recipe
func (r *RecipeRepository) UpdateRatingSummary(ctx context.Context, id uuid.UUID, summary recipe.RatingSummary) error {
	var rating *float64
	if summary.Count > 0 {
		avg := summary.Average
		rating = &avg
	}

	result := r.db.WithContext(ctx).Model(&RecipeModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating":       rating,
			"rating_count": summary.Count,
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return outbound.ErrNotFound
	}
	return nil
}

func toRecipes(models []RecipeModel) []*recipe.Recipe {
	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}
	return recipes
}

// RatingRepository implements the rating repository interface using GORM
type RatingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert stores the rating, overwriting the user's earlier rating of the same recipe
func (r *RatingRepository) Upsert(ctx context.Context, rating *recipe.Rating) error {
	model := RatingToModel(rating)

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "review", "updated_at"}),
	}).Create(model).Error
}

// Summary aggregates every rating of a recipe. The average is rounded to one decimal.
func (r *RatingRepository) Summary(ctx context.Context, recipeID uuid.UUID) (recipe.RatingSummary, error) {
	var row struct {
		Average *float64
		Count   int
	}

	err := r.db.WithContext(ctx).Model(&RatingModel{}).
		Select("AVG(score) AS average, COUNT(*) AS count").
		Where("recipe_id = ?", recipeID).
		Scan(&row).Error
	if err != nil {
		return recipe.RatingSummary{}, err
	}

	summary := recipe.RatingSummary{Count: row.Count}
	if row.Average != nil {
		summary.Average = math.Round(*row.Average*10) / 10
	}
	return summary, nil
}

var (
	_ outbound.RecipeRepository = (*RecipeRepository)(nil)
	_ outbound.RatingRepository = (*RatingRepository)(nil)
)
