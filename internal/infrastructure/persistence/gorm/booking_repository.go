package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/domain/booking"
	"github.com/savorly/savorly/internal/ports/outbound"
	"gorm.io/gorm"
)

// bookingSlotConstraint names the one-booking-per-slot unique index
const bookingSlotConstraint = "idx_bookings_slot"

// BookingRepository implements the booking repository interface using GORM
type BookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create stores a new booking. A second booking of the same recipe in the
// same meal slot fails with UNIQUE_CONSTRAINT_VIOLATION.
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	result := r.db.WithContext(ctx).Create(BookingToModel(b))
	return translateWriteError(result.Error, bookingSlotConstraint)
}

// Update persists the mutable fields of a booking. The write only applies
// while the stored status is still previous, so two requests that loaded
// the same scheduled booking cannot both move it.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking, previous booking.Status) error {
	result := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("id = ? AND status = ?", b.ID(), string(previous)).
		Updates(map[string]interface{}{
			"status":     string(b.Status()),
			"servings":   b.Servings(),
			"notes":      b.Notes(),
			"updated_at": b.UpdatedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where("id = ?", b.ID()).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return outbound.ErrNotFound
		}
		return outbound.ErrStaleWrite
	}
	return nil
}

// FindByID finds a booking by ID
func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var model BookingModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, outbound.ErrNotFound
		}
		return nil, result.Error
	}

	return ModelToBooking(&model), nil
}

// FindByUser lists a user's bookings, earliest scheduled date first
func (r *BookingRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*booking.Booking, error) {
	var models []BookingModel

	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("scheduled_date ASC").
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	bookings := make([]*booking.Booking, len(models))
	for i := range models {
		bookings[i] = ModelToBooking(&models[i])
	}
	return bookings, nil
}

var _ outbound.BookingRepository = (*BookingRepository)(nil)
