package booking

import (
	"time"

	"github.com/google/uuid"
)

// BookingCreatedEvent is raised when a recipe is booked into a meal slot
type BookingCreatedEvent struct {
	BookingID     uuid.UUID
	UserID        uuid.UUID
	RecipeID      uuid.UUID
	ScheduledDate Date
	MealType      MealType
	CreatedAt     time.Time
}

func (e BookingCreatedEvent) EventName() string {
	return "booking.created"
}

func (e BookingCreatedEvent) OccurredAt() time.Time {
	return e.CreatedAt
}

// BookingStatusChangedEvent is raised when a booking is completed or cancelled
type BookingStatusChangedEvent struct {
	BookingID uuid.UUID
	UserID    uuid.UUID
	From      Status
	To        Status
	ChangedAt time.Time
}

func (e BookingStatusChangedEvent) EventName() string {
	return "booking.status_changed"
}

func (e BookingStatusChangedEvent) OccurredAt() time.Time {
	return e.ChangedAt
}
