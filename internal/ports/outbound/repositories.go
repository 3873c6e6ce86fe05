// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/domain/booking"
	"github.com/savorly/savorly/internal/domain/favorite"
	"github.com/savorly/savorly/internal/domain/recipe"
	"github.com/savorly/savorly/internal/domain/shared"
	"github.com/savorly/savorly/internal/domain/user"
)

var (
	// ErrNotFound is returned by repositories when a lookup by key finds nothing
	ErrNotFound = errors.New("record not found")
	// ErrCacheMiss is returned by CacheRepository.Get for absent or expired keys
	ErrCacheMiss = errors.New("cache miss")
	// ErrStaleWrite is returned by a conditional update when the row no
	// longer holds the state it was loaded with
	ErrStaleWrite = errors.New("stale write")
)

// RecipeRepository defines the interface for recipe persistence
type RecipeRepository interface {
	Create(ctx context.Context, recipe *recipe.Recipe) error
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*recipe.Recipe, error)

	// Search returns recipes newest first. An empty term returns all recipes.
	Search(ctx context.Context, term string) ([]*recipe.Recipe, error)
	// FindPopular returns popular recipes by rating, best first
	FindPopular(ctx context.Context, limit int) ([]*recipe.Recipe, error)

	UpdateRatingSummary(ctx context.Context, id uuid.UUID, summary recipe.RatingSummary) error
}

// RatingRepository stores one rating per (user, recipe)
type RatingRepository interface {
	// Upsert inserts the rating or overwrites the user's previous one
	Upsert(ctx context.Context, rating *recipe.Rating) error
	Summary(ctx context.Context, recipeID uuid.UUID) (recipe.RatingSummary, error)
}

// BookingRepository defines the interface for booking persistence.
// Create returns a UNIQUE_CONSTRAINT_VIOLATION AppError when the
// (user, recipe, date, meal type) slot is already taken.
type BookingRepository interface {
	Create(ctx context.Context, booking *booking.Booking) error
	// Update writes the booking only while its stored status is still
	// previous, otherwise it returns ErrStaleWrite
	Update(ctx context.Context, booking *booking.Booking, previous booking.Status) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// FindByUser returns the user's bookings by scheduled date, earliest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*booking.Booking, error)
}

// FavoriteRepository defines the interface for favorite persistence
type FavoriteRepository interface {
	// Add reports whether a new row was written; an existing favorite is kept
	Add(ctx context.Context, favorite *favorite.Favorite) (bool, error)
	// Remove reports whether a row was deleted
	Remove(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	// FindByUser returns the user's favorites newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*favorite.Favorite, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Increment atomically adds one to an integer key, creating it at 1
	Increment(ctx context.Context, key string) (int64, error)
}

// EventPublisher delivers domain events raised by aggregates
type EventPublisher interface {
	Publish(ctx context.Context, events ...shared.DomainEvent)
}

// ImageResolver turns a stored image reference into a URL a client can load
type ImageResolver interface {
	ResolveImageURL(ctx context.Context, ref string) string
}

// TokenPair is an issued access and refresh token
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// TokenClaims are the verified contents of an access token
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// TokenService issues, validates and revokes bearer tokens
type TokenService interface {
	IssueTokens(ctx context.Context, userID uuid.UUID, email string) (*TokenPair, error)
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)
	RevokeToken(ctx context.Context, token string) error
}
