// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/domain/booking"
	"github.com/savorly/savorly/internal/domain/favorite"
	"github.com/savorly/savorly/internal/domain/recipe"
	"github.com/savorly/savorly/internal/domain/user"
)

// TestPassword is the password of every factory-built user
const TestPassword = "cook-secret"

var cuisines = []string{"Italian", "Thai", "Mexican", "Indian", "French", "Japanese"}

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	snapshot recipe.Snapshot
}

// NewRecipeBuilder creates a new recipe builder with fake but valid values
func NewRecipeBuilder() *RecipeBuilder {
	faker := gofakeit.New(time.Now().UnixNano())

	return &RecipeBuilder{snapshot: recipe.Snapshot{
		ID:           uuid.New(),
		Title:        faker.Dessert() + " " + faker.Noun(),
		Description:  faker.Sentence(12),
		ImageURL:     "recipes/" + faker.UUID() + ".jpg",
		Cuisine:      cuisines[faker.Number(0, len(cuisines)-1)],
		PrepTime:     faker.Number(5, 30),
		CookTime:     faker.Number(0, 90),
		Servings:     faker.Number(1, 8),
		Difficulty:   recipe.DifficultyMedium,
		Ingredients:  []string{faker.Fruit(), faker.Vegetable(), faker.Vegetable()},
		Instructions: []string{faker.Sentence(6), faker.Sentence(8)},
		CreatedAt:    faker.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).UTC(),
	}}
}

// WithTitle sets the recipe title
func (rb *RecipeBuilder) WithTitle(title string) *RecipeBuilder {
	rb.snapshot.Title = title
	return rb
}

// WithCuisine sets the recipe cuisine
func (rb *RecipeBuilder) WithCuisine(cuisine string) *RecipeBuilder {
	rb.snapshot.Cuisine = cuisine
	return rb
}

// WithDescription sets the recipe description
func (rb *RecipeBuilder) WithDescription(description string) *RecipeBuilder {
	rb.snapshot.Description = description
	return rb
}

// WithServings sets the default servings
func (rb *RecipeBuilder) WithServings(servings int) *RecipeBuilder {
	rb.snapshot.Servings = servings
	return rb
}

// WithRating sets the rating summary
func (rb *RecipeBuilder) WithRating(average float64, count int) *RecipeBuilder {
	rb.snapshot.Rating = &average
	rb.snapshot.RatingCount = count
	return rb
}

// AsPopular marks the recipe as popular
func (rb *RecipeBuilder) AsPopular() *RecipeBuilder {
	rb.snapshot.Popular = true
	return rb
}

// CreatedAt sets the creation timestamp
func (rb *RecipeBuilder) CreatedAt(t time.Time) *RecipeBuilder {
	rb.snapshot.CreatedAt = t.UTC()
	return rb
}

// Build constructs the recipe
func (rb *RecipeBuilder) Build() *recipe.Recipe {
	return recipe.Restore(rb.snapshot)
}

// NewTestUser creates a user with a fake email and TestPassword
func NewTestUser() *user.User {
	faker := gofakeit.New(time.Now().UnixNano())
	u, err := user.NewUser(faker.Email(), faker.Name(), TestPassword)
	if err != nil {
		panic(err)
	}
	return u
}

// NewTestBooking creates a scheduled dinner booking tomorrow
func NewTestBooking(userID, recipeID uuid.UUID) *booking.Booking {
	b, err := booking.NewBooking(userID, recipeID, booking.DateOf(time.Now()).AddDays(1), booking.MealDinner, 2, "")
	if err != nil {
		panic(err)
	}
	b.Events()
	return b
}

// RestoreBooking creates a booking in the given status
func RestoreBooking(userID, recipeID uuid.UUID, status booking.Status) *booking.Booking {
	now := time.Now().UTC()
	return booking.Restore(booking.Snapshot{
		ID:            uuid.New(),
		UserID:        userID,
		RecipeID:      recipeID,
		ScheduledDate: booking.DateOf(now).AddDays(1),
		MealType:      booking.MealDinner,
		Servings:      2,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

// NewTestFavorite creates a favorite without pending events
func NewTestFavorite(userID, recipeID uuid.UUID) *favorite.Favorite {
	return favorite.Restore(uuid.New(), userID, recipeID, time.Now().UTC())
}
