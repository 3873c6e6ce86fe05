// Package events dispatches domain events in-process
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/savorly/savorly/internal/domain/booking"
	"github.com/savorly/savorly/internal/domain/favorite"
	"github.com/savorly/savorly/internal/domain/recipe"
	"github.com/savorly/savorly/internal/domain/shared"
	"github.com/savorly/savorly/internal/ports/outbound"
	"go.uber.org/zap"
)

// Counter counts dispatched events by name
type Counter interface {
	RecordDomainEvent(name string)
}

// Dispatcher delivers events synchronously to the handlers registered for
// their name. A failing handler is logged and does not stop the others.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	counter  Counter
	log      *zap.Logger
}

// NewDispatcher creates a new event dispatcher. counter may be nil.
func NewDispatcher(counter Counter, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]shared.EventHandler),
		counter:  counter,
		log:      log.Named("events"),
	}
}

// Register registers a handler for an event name
func (d *Dispatcher) Register(event string, handler shared.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], handler)
	d.log.Debug("Registered event handler", zap.String("event", event))
}

// Publish dispatches each event to its handlers
func (d *Dispatcher) Publish(ctx context.Context, events ...shared.DomainEvent) {
	for _, event := range events {
		name := event.EventName()
		if d.counter != nil {
			d.counter.RecordDomainEvent(name)
		}

		d.mu.RLock()
		handlers := d.handlers[name]
		d.mu.RUnlock()

		if len(handlers) == 0 {
			d.log.Debug("No handlers registered for event", zap.String("event", name))
			continue
		}
		for _, handler := range handlers {
			if err := handler(event); err != nil {
				d.log.Error("Failed to handle event",
					zap.String("event", name),
					zap.Error(err),
				)
			}
		}
	}
}

// RegisterAuditHandlers logs every domain event the service raises
func RegisterAuditHandlers(d *Dispatcher, log *zap.Logger) {
	log = log.Named("audit")

	d.Register("booking.created", typed(func(ev booking.BookingCreatedEvent) error {
		log.Info("Booking created",
			zap.String("booking_id", ev.BookingID.String()),
			zap.String("user_id", ev.UserID.String()),
			zap.String("recipe_id", ev.RecipeID.String()),
			zap.String("scheduled_date", ev.ScheduledDate.String()),
			zap.String("meal_type", string(ev.MealType)),
		)
		return nil
	}))
	d.Register("booking.status_changed", typed(func(ev booking.BookingStatusChangedEvent) error {
		log.Info("Booking status changed",
			zap.String("booking_id", ev.BookingID.String()),
			zap.String("from", string(ev.From)),
			zap.String("to", string(ev.To)),
		)
		return nil
	}))
	d.Register("favorite.added", typed(func(ev favorite.FavoriteAddedEvent) error {
		log.Info("Favorite added",
			zap.String("user_id", ev.UserID.String()),
			zap.String("recipe_id", ev.RecipeID.String()),
		)
		return nil
	}))
	d.Register("favorite.removed", typed(func(ev favorite.FavoriteRemovedEvent) error {
		log.Info("Favorite removed",
			zap.String("user_id", ev.UserID.String()),
			zap.String("recipe_id", ev.RecipeID.String()),
		)
		return nil
	}))
	d.Register("recipe.rated", typed(func(ev recipe.RecipeRatedEvent) error {
		log.Info("Recipe rated",
			zap.String("recipe_id", ev.RecipeID.String()),
			zap.String("user_id", ev.UserID.String()),
			zap.Int("score", ev.Score),
		)
		return nil
	}))
}

// typed adapts a handler of one concrete event type
func typed[T shared.DomainEvent](fn func(T) error) shared.EventHandler {
	return func(e shared.DomainEvent) error {
		ev, ok := e.(T)
		if !ok {
			return fmt.Errorf("unexpected payload %T for event %s", e, e.EventName())
		}
		return fn(ev)
	}
}

var _ outbound.EventPublisher = (*Dispatcher)(nil)
