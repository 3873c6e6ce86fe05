// Package favorite models the set relation between users and the recipes they saved.
package favorite

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/domain/shared"
)

var (
	ErrMissingUser   = errors.New("favorite requires a user")
	ErrMissingRecipe = errors.New("favorite requires a recipe")
)

// Favorite marks a recipe as saved by a user. At most one exists per (user, recipe).
type Favorite struct {
	shared.AggregateRoot

	id        uuid.UUID
	userID    uuid.UUID
	recipeID  uuid.UUID
	createdAt time.Time
}

// NewFavorite creates a favorite and raises FavoriteAddedEvent
func NewFavorite(userID, recipeID uuid.UUID) (*Favorite, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if recipeID == uuid.Nil {
		return nil, ErrMissingRecipe
	}

	f := &Favorite{
		id:        uuid.New(),
		userID:    userID,
		recipeID:  recipeID,
		createdAt: time.Now().UTC(),
	}
	f.AddEvent(FavoriteAddedEvent{UserID: userID, RecipeID: recipeID, AddedAt: f.createdAt})
	return f, nil
}

// Restore rebuilds a favorite from storage
func Restore(id, userID, recipeID uuid.UUID, createdAt time.Time) *Favorite {
	return &Favorite{id: id, userID: userID, recipeID: recipeID, createdAt: createdAt}
}

func (f *Favorite) ID() uuid.UUID        { return f.id }
func (f *Favorite) UserID() uuid.UUID    { return f.userID }
func (f *Favorite) RecipeID() uuid.UUID  { return f.recipeID }
func (f *Favorite) CreatedAt() time.Time { return f.createdAt }

// FavoriteAddedEvent is raised when a recipe enters a user's favorites
type FavoriteAddedEvent struct {
	UserID   uuid.UUID
	RecipeID uuid.UUID
	AddedAt  time.Time
}

func (e FavoriteAddedEvent) EventName() string     { return "favorite.added" }
func (e FavoriteAddedEvent) OccurredAt() time.Time { return e.AddedAt }

// FavoriteRemovedEvent is raised when a recipe leaves a user's favorites
type FavoriteRemovedEvent struct {
	UserID    uuid.UUID
	RecipeID  uuid.UUID
	RemovedAt time.Time
}

func (e FavoriteRemovedEvent) EventName() string     { return "favorite.removed" }
func (e FavoriteRemovedEvent) OccurredAt() time.Time { return e.RemovedAt }
