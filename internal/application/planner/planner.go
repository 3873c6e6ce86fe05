// Package planner is the planner's data-access layer. It reads through the
// query cache, runs mutations against the data service, invalidates the
// queries a mutation affects and reports outcomes through the notifier.
package planner

import (
	"sync/atomic"

	"github.com/savorly/savorly/internal/application/querycache"
	"github.com/savorly/savorly/internal/ports/outbound"
	"github.com/savorly/savorly/pkg/errors"
	"go.uber.org/zap"
)

// Query operations used as cache keys
const (
	OpRecipes   = "recipes"
	OpPopular   = "recipes.popular"
	OpRecipe    = "recipe"
	OpBookings  = "bookings"
	OpFavorites = "favorites"
)

// Notification messages
const (
	MsgLoginToBook     = "Must be logged in to book"
	MsgLoginToFavorite = "Must be logged in to favorite"
	MsgLoginToRate     = "Must be logged in to rate"
	MsgBooked          = "Recipe booked successfully!"
	MsgAlreadyBooked   = "You already have this recipe booked for this time!"
	MsgCancelled       = "Booking cancelled"
	MsgCompleted       = "Recipe marked as completed!"
	MsgFavoriteAdded   = "Added to favorites!"
	MsgFavoriteRemoved = "Removed from favorites"
	MsgRated           = "Rating submitted!"
)

// Planner groups the data-access components over one service and cache
type Planner struct {
	Recipes   *Recipes
	Bookings  *Bookings
	Favorites *Favorites
	Auth      *Auth
}

// New wires the components
func New(data outbound.DataService, cache *querycache.Cache, notifier outbound.Notifier, logger *zap.Logger) *Planner {
	b := base{data: data, cache: cache, notifier: notifier, logger: logger}
	return &Planner{
		Recipes:   &Recipes{base: b.named("recipes"), rate: mutation{name: "rating"}},
		Bookings:  newBookings(b.named("bookings")),
		Favorites: &Favorites{base: b.named("favorites"), toggle: mutation{name: "favorite change"}},
		Auth:      &Auth{base: b.named("auth")},
	}
}

type base struct {
	data     outbound.DataService
	cache    *querycache.Cache
	notifier outbound.Notifier
	logger   *zap.Logger
}

func (b base) named(name string) base {
	b.logger = b.logger.Named(name)
	return b
}

func (b base) success(message string) {
	b.notifier.Notify(outbound.Notification{Kind: outbound.NotifySuccess, Message: message})
}

func (b base) failure(message string) {
	b.notifier.Notify(outbound.Notification{Kind: outbound.NotifyError, Message: message})
}

// failed reports err and returns it
func (b base) failed(err error) error {
	b.failure(errorMessage(err))
	return err
}

// errorMessage prefers the AppError's details, which carry the specific
// reason, over its generic message
func errorMessage(err error) string {
	if appErr, ok := errors.As(err); ok {
		if appErr.Details != "" && appErr.Code != errors.CodeExternalServiceError {
			return appErr.Details
		}
		return appErr.Message
	}
	return err.Error()
}

// mutation refuses a second run while one is in flight
type mutation struct {
	name    string
	pending atomic.Bool
}

func (m *mutation) run(fn func() error) error {
	if !m.pending.CompareAndSwap(false, true) {
		return errors.NewMutationPendingError(m.name)
	}
	defer m.pending.Store(false)
	return fn()
}

// Pending reports whether the mutation is in flight
func (m *mutation) Pending() bool {
	return m.pending.Load()
}

func unauthorized(message string) error {
	return errors.NewUnauthorizedError(message)
}
