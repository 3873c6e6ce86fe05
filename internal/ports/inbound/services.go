// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the use cases the HTTP API exposes
package inbound

import (
	"context"

	"github.com/google/uuid"
)

// RecipeService defines the recipe read use cases and rating
type RecipeService interface {
	// ListRecipes returns recipes newest first, filtered by a case-insensitive
	// match on title, cuisine or description when search is not empty
	ListRecipes(ctx context.Context, search string) ([]RecipeDTO, error)
	ListPopular(ctx context.Context) ([]RecipeDTO, error)
	// GetRecipe returns nil without error when the recipe does not exist
	GetRecipe(ctx context.Context, id uuid.UUID) (*RecipeDTO, error)
	RateRecipe(ctx context.Context, cmd RateRecipeCommand) (*RatingDTO, error)
}

// BookingService defines the meal planning use cases
type BookingService interface {
	ListBookings(ctx context.Context, userID uuid.UUID) ([]BookingDTO, error)
	CreateBooking(ctx context.Context, cmd CreateBookingCommand) (*BookingDTO, error)
	CancelBooking(ctx context.Context, userID, bookingID uuid.UUID) (*BookingDTO, error)
	CompleteBooking(ctx context.Context, userID, bookingID uuid.UUID) (*BookingDTO, error)
}

// FavoriteService defines the favorites use cases. Add and remove are
// idempotent and report the membership that holds afterwards.
type FavoriteService interface {
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]FavoriteDTO, error)
	AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*FavoriteStateDTO, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*FavoriteStateDTO, error)
}

// UserService defines sign-up, sign-in and sign-out
type UserService interface {
	SignUp(ctx context.Context, cmd SignUpCommand) (*AuthResponse, error)
	SignIn(ctx context.Context, cmd SignInCommand) (*AuthResponse, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
}

// RateRecipeCommand for rating a recipe
type RateRecipeCommand struct {
	RecipeID uuid.UUID
	UserID   uuid.UUID
	Score    int
	Review   string
}

// CreateBookingCommand contains data for scheduling a recipe
type CreateBookingCommand struct {
	UserID        uuid.UUID
	RecipeID      uuid.UUID
	ScheduledDate string
	MealType      string
	Servings      int
	Notes         string
}

// SignUpCommand contains user registration data
type SignUpCommand struct {
	Email    string
	Password string
	FullName string
}

// SignInCommand contains user login data
type SignInCommand struct {
	Email    string
	Password string
}
