// Package booking contains the domain logic for scheduling recipes into meal slots.
package booking

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/domain/shared"
)

const maxNotesLength = 500

// Booking is a user's plan to cook a recipe on a date for a meal slot.
// Status moves from scheduled to completed or cancelled and never back.
type Booking struct {
	shared.AggregateRoot

	id            uuid.UUID
	userID        uuid.UUID
	recipeID      uuid.UUID
	scheduledDate Date
	mealType      MealType
	servings      int
	notes         string
	status        Status
	createdAt     time.Time
	updatedAt     time.Time
}

// Snapshot is the full persisted state of a booking
type Snapshot struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	RecipeID      uuid.UUID
	ScheduledDate Date
	MealType      MealType
	Servings      int
	Notes         string
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBooking creates a scheduled booking with validation
func NewBooking(userID, recipeID uuid.UUID, date Date, meal MealType, servings int, notes string) (*Booking, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if recipeID == uuid.Nil {
		return nil, ErrMissingRecipe
	}
	if date.IsZero() {
		return nil, ErrInvalidDate
	}
	if !meal.IsValid() {
		return nil, ErrInvalidMealType
	}
	if servings < MinServings || servings > MaxServings {
		return nil, ErrInvalidServings
	}
	notes = strings.TrimSpace(notes)
	if len(notes) > maxNotesLength {
		return nil, ErrNotesTooLong
	}

	now := time.Now().UTC()
	b := &Booking{
		id:            uuid.New(),
		userID:        userID,
		recipeID:      recipeID,
		scheduledDate: date,
		mealType:      meal,
		servings:      servings,
		notes:         notes,
		status:        StatusScheduled,
		createdAt:     now,
		updatedAt:     now,
	}

	b.AddEvent(BookingCreatedEvent{
		BookingID:     b.id,
		UserID:        userID,
		RecipeID:      recipeID,
		ScheduledDate: date,
		MealType:      meal,
		CreatedAt:     now,
	})

	return b, nil
}

// Restore rebuilds a booking from persisted state without validation
func Restore(s Snapshot) *Booking {
	return &Booking{
		id:            s.ID,
		userID:        s.UserID,
		recipeID:      s.RecipeID,
		scheduledDate: s.ScheduledDate,
		mealType:      s.MealType,
		servings:      s.Servings,
		notes:         s.Notes,
		status:        s.Status,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
	}
}

// ID returns the booking identifier
func (b *Booking) ID() uuid.UUID {
	return b.id
}

// UserID returns the owner of the booking
func (b *Booking) UserID() uuid.UUID {
	return b.userID
}

// RecipeID returns the booked recipe
func (b *Booking) RecipeID() uuid.UUID {
	return b.recipeID
}

// ScheduledDate returns the planned day
func (b *Booking) ScheduledDate() Date {
	return b.scheduledDate
}

// MealType returns the planned meal slot
func (b *Booking) MealType() MealType {
	return b.mealType
}

// Servings returns the planned number of servings
func (b *Booking) Servings() int {
	return b.servings
}

// Notes returns the free-text notes
func (b *Booking) Notes() string {
	return b.notes
}

// Status returns the lifecycle state
func (b *Booking) Status() Status {
	return b.status
}

// CreatedAt returns the creation timestamp
func (b *Booking) CreatedAt() time.Time {
	return b.createdAt
}

// UpdatedAt returns the last modification timestamp
func (b *Booking) UpdatedAt() time.Time {
	return b.updatedAt
}

// IsOwnedBy reports whether userID owns the booking
func (b *Booking) IsOwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

// Cancel moves a scheduled booking to cancelled. Cancelling an already
// cancelled booking changes nothing and reports false.
func (b *Booking) Cancel() (bool, error) {
	return b.transition(StatusCancelled)
}

// Complete moves a scheduled booking to completed. Completing an already
// completed booking changes nothing and reports false. A cancelled booking
// cannot be completed.
func (b *Booking) Complete() (bool, error) {
	return b.transition(StatusCompleted)
}

func (b *Booking) transition(next Status) (bool, error) {
	if b.status == next {
		return false, nil
	}
	if !b.status.CanTransitionTo(next) {
		return false, &TransitionError{From: b.status, To: next}
	}

	previous := b.status
	b.status = next
	b.updatedAt = time.Now().UTC()

	b.AddEvent(BookingStatusChangedEvent{
		BookingID: b.id,
		UserID:    b.userID,
		From:      previous,
		To:        next,
		ChangedAt: b.updatedAt,
	})

	return true, nil
}
