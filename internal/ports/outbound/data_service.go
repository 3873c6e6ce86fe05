package outbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/ports/inbound"
)

// DataService is the planner's view of the remote data service. Calls that
// act for a user take the session's access token.
type DataService interface {
	SignUp(ctx context.Context, email, password, fullName string) (*inbound.AuthResponse, error)
	SignIn(ctx context.Context, email, password string) (*inbound.AuthResponse, error)
	SignOut(ctx context.Context, token string) error

	ListRecipes(ctx context.Context, search string) ([]inbound.RecipeDTO, error)
	ListPopular(ctx context.Context) ([]inbound.RecipeDTO, error)
	// GetRecipe returns nil without error when the recipe does not exist
	GetRecipe(ctx context.Context, id uuid.UUID) (*inbound.RecipeDTO, error)
	RateRecipe(ctx context.Context, token string, req RateRequest) (*inbound.RatingDTO, error)

	ListBookings(ctx context.Context, token string) ([]inbound.BookingDTO, error)
	CreateBooking(ctx context.Context, token string, req BookingRequest) (*inbound.BookingDTO, error)
	CancelBooking(ctx context.Context, token string, id uuid.UUID) (*inbound.BookingDTO, error)
	CompleteBooking(ctx context.Context, token string, id uuid.UUID) (*inbound.BookingDTO, error)

	ListFavorites(ctx context.Context, token string) ([]inbound.FavoriteDTO, error)
	AddFavorite(ctx context.Context, token string, recipeID uuid.UUID) (*inbound.FavoriteStateDTO, error)
	RemoveFavorite(ctx context.Context, token string, recipeID uuid.UUID) (*inbound.FavoriteStateDTO, error)
}

// BookingRequest is the payload of a new booking
type BookingRequest struct {
	RecipeID      uuid.UUID `json:"recipe_id"`
	ScheduledDate string    `json:"scheduled_date"`
	MealType      string    `json:"meal_type"`
	Servings      int       `json:"servings"`
	Notes         string    `json:"notes,omitempty"`
}

// RateRequest is the payload of a rating
type RateRequest struct {
	RecipeID uuid.UUID `json:"-"`
	Score    int       `json:"score"`
	Review   string    `json:"review,omitempty"`
}

// NotificationKind separates confirmations from failures
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// Notification is a transient user-facing message
type Notification struct {
	Kind    NotificationKind
	Message string
}

// Notifier shows transient messages to the user
type Notifier interface {
	Notify(n Notification)
}
