package planner

import (
	"context"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/application/querycache"
	"github.com/savorly/savorly/internal/application/session"
	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/internal/ports/outbound"
	"github.com/savorly/savorly/pkg/errors"
	"go.uber.org/zap"
)

// Bookings reads and changes the signed-in user's meal plan
type Bookings struct {
	base
	create   mutation
	cancel   mutation
	complete mutation
}

func newBookings(b base) *Bookings {
	return &Bookings{
		base:     b,
		create:   mutation{name: "booking"},
		cancel:   mutation{name: "cancellation"},
		complete: mutation{name: "completion"},
	}
}

// List returns the user's bookings, or none without a session
func (b *Bookings) List(ctx context.Context, sess session.Session) ([]inbound.BookingDTO, error) {
	if !sess.IsAuthenticated() {
		return []inbound.BookingDTO{}, nil
	}
	key := querycache.Key{Operation: OpBookings, Params: sess.UserID.String()}
	bookings, _, err := querycache.Get(ctx, b.cache, key, func(ctx context.Context) ([]inbound.BookingDTO, error) {
		return b.data.ListBookings(ctx, sess.AccessToken)
	})
	return bookings, err
}

// Create books a recipe into a meal slot
func (b *Bookings) Create(ctx context.Context, sess session.Session, req outbound.BookingRequest) (*inbound.BookingDTO, error) {
	if !sess.IsAuthenticated() {
		return nil, b.failed(unauthorized(MsgLoginToBook))
	}

	var created *inbound.BookingDTO
	err := b.create.run(func() error {
		dto, err := b.data.CreateBooking(ctx, sess.AccessToken, req)
		if err != nil {
			if errors.Is(err, errors.CodeUniqueViolation) {
				b.failure(MsgAlreadyBooked)
				return err
			}
			b.logger.Warn("Booking failed", zap.String("recipe_id", req.RecipeID.String()), zap.Error(err))
			return b.failed(err)
		}

		created = dto
		b.cache.Invalidate(OpBookings)
		b.success(MsgBooked)
		return nil
	})
	return created, err
}

// Cancel cancels one of the user's bookings
func (b *Bookings) Cancel(ctx context.Context, sess session.Session, id uuid.UUID) error {
	return b.change(ctx, sess, &b.cancel, MsgCancelled, func(ctx context.Context, token string) error {
		_, err := b.data.CancelBooking(ctx, token, id)
		return err
	})
}

// Complete marks one of the user's bookings as cooked
func (b *Bookings) Complete(ctx context.Context, sess session.Session, id uuid.UUID) error {
	return b.change(ctx, sess, &b.complete, MsgCompleted, func(ctx context.Context, token string) error {
		_, err := b.data.CompleteBooking(ctx, token, id)
		return err
	})
}

func (b *Bookings) change(ctx context.Context, sess session.Session, m *mutation, done string, call func(ctx context.Context, token string) error) error {
	if !sess.IsAuthenticated() {
		return b.failed(unauthorized(""))
	}
	return m.run(func() error {
		if err := call(ctx, sess.AccessToken); err != nil {
			return b.failed(err)
		}
		b.cache.Invalidate(OpBookings)
		b.success(done)
		return nil
	})
}

// CreatePending reports whether a booking is being created
func (b *Bookings) CreatePending() bool { return b.create.Pending() }

// CancelPending reports whether a cancellation is in flight
func (b *Bookings) CancelPending() bool { return b.cancel.Pending() }

// CompletePending reports whether a completion is in flight
func (b *Bookings) CompletePending() bool { return b.complete.Pending() }
