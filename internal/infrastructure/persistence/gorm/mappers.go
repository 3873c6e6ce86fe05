// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"time"

	"github.com/savorly/savorly/internal/domain/booking"
	"github.com/savorly/savorly/internal/domain/favorite"
	"github.com/savorly/savorly/internal/domain/recipe"
	"github.com/savorly/savorly/internal/domain/user"
)

// UserToModel converts a domain user to a GORM model
func UserToModel(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID(),
		Email:        u.Email(),
		FullName:     u.FullName(),
		PasswordHash: u.PasswordHash(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
		LastLoginAt:  u.LastLoginAt(),
	}
}

// ModelToUser converts a GORM model to a domain user
func ModelToUser(model *UserModel) *user.User {
	return user.Restore(user.Snapshot{
		ID:           model.ID,
		Email:        model.Email,
		FullName:     model.FullName,
		PasswordHash: model.PasswordHash,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
		LastLoginAt:  model.LastLoginAt,
	})
}

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:           r.ID(),
		Title:        r.Title(),
		Description:  r.Description(),
		ImageURL:     r.ImageURL(),
		Cuisine:      r.Cuisine(),
		PrepTime:     r.PrepTime(),
		CookTime:     r.CookTime(),
		Servings:     r.Servings(),
		Calories:     r.Calories(),
		Difficulty:   string(r.Difficulty()),
		Ingredients:  StringSlice(r.Ingredients()),
		Instructions: StringSlice(r.Instructions()),
		Rating:       r.Rating(),
		RatingCount:  r.RatingCount(),
		IsPopular:    r.IsPopular(),
		CreatedAt:    r.CreatedAt(),
	}
}

// ModelToRecipe converts a GORM model to a domain recipe.
// An unknown stored difficulty falls back to Medium.
func ModelToRecipe(model *RecipeModel) *recipe.Recipe {
	difficulty, err := recipe.ParseDifficulty(model.Difficulty)
	if err != nil {
		difficulty = recipe.DifficultyMedium
	}

	return recipe.Restore(recipe.Snapshot{
		ID:           model.ID,
		Title:        model.Title,
		Description:  model.Description,
		ImageURL:     model.ImageURL,
		Cuisine:      model.Cuisine,
		PrepTime:     model.PrepTime,
		CookTime:     model.CookTime,
		Servings:     model.Servings,
		Calories:     model.Calories,
		Difficulty:   difficulty,
		Ingredients:  []string(model.Ingredients),
		Instructions: []string(model.Instructions),
		Rating:       model.Rating,
		RatingCount:  model.RatingCount,
		Popular:      model.IsPopular,
		CreatedAt:    model.CreatedAt,
	})
}

// RatingToModel converts a domain rating to a GORM model
func RatingToModel(r *recipe.Rating) *RatingModel {
	return &RatingModel{
		UserID:    r.UserID,
		RecipeID:  r.RecipeID,
		Score:     r.Score,
		Review:    r.Review,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// BookingToModel converts a domain booking to a GORM model
func BookingToModel(b *booking.Booking) *BookingModel {
	return &BookingModel{
		ID:            b.ID(),
		UserID:        b.UserID(),
		RecipeID:      b.RecipeID(),
		ScheduledDate: b.ScheduledDate().Time(),
		MealType:      string(b.MealType()),
		Servings:      b.Servings(),
		Notes:         b.Notes(),
		Status:        string(b.Status()),
		CreatedAt:     b.CreatedAt(),
		UpdatedAt:     b.UpdatedAt(),
	}
}

// ModelToBooking converts a GORM model to a domain booking
func ModelToBooking(model *BookingModel) *booking.Booking {
	return booking.Restore(booking.Snapshot{
		ID:            model.ID,
		UserID:        model.UserID,
		RecipeID:      model.RecipeID,
		ScheduledDate: dateOf(model.ScheduledDate),
		MealType:      booking.MealType(model.MealType),
		Servings:      model.Servings,
		Notes:         model.Notes,
		Status:        booking.Status(model.Status),
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	})
}

// dateOf reads the calendar date the driver returned. Drivers hand back
// midnight in either UTC or the session zone, so the wall-clock date is kept.
func dateOf(t time.Time) booking.Date {
	return booking.NewDate(t.Year(), t.Month(), t.Day())
}

// FavoriteToModel converts a domain favorite to a GORM model
func FavoriteToModel(f *favorite.Favorite) *FavoriteModel {
	return &FavoriteModel{
		ID:        f.ID(),
		UserID:    f.UserID(),
		RecipeID:  f.RecipeID(),
		CreatedAt: f.CreatedAt(),
	}
}

// ModelToFavorite converts a GORM model to a domain favorite
func ModelToFavorite(model *FavoriteModel) *favorite.Favorite {
	return favorite.Restore(model.ID, model.UserID, model.RecipeID, model.CreatedAt)
}
