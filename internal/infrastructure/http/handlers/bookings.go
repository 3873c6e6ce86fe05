package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/infrastructure/http/respond"
	"github.com/savorly/savorly/internal/ports/inbound"
)

// CreateBookingRequest represents a new booking
type CreateBookingRequest struct {
	RecipeID      string `json:"recipe_id" validate:"required,uuid"`
	ScheduledDate string `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	MealType      string `json:"meal_type" validate:"required,oneof=breakfast lunch dinner snack"`
	Servings      int    `json:"servings" validate:"required,min=1,max=20"`
	Notes         string `json:"notes,omitempty" validate:"max=500"`
}

// ListBookings handles GET /api/v1/bookings
func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	claims, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	bookings, err := h.bookings.ListBookings(r.Context(), claims.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, bookings)
}

// CreateBooking handles POST /api/v1/bookings
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	claims, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req CreateBookingRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), inbound.CreateBookingCommand{
		UserID:        claims.UserID,
		RecipeID:      uuid.MustParse(req.RecipeID),
		ScheduledDate: req.ScheduledDate,
		MealType:      req.MealType,
		Servings:      req.Servings,
		Notes:         req.Notes,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, booking)
}

// CancelBooking handles POST /api/v1/bookings/{id}/cancel
func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	h.changeBooking(w, r, h.bookings.CancelBooking)
}

// CompleteBooking handles POST /api/v1/bookings/{id}/complete
func (h *Handlers) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	h.changeBooking(w, r, h.bookings.CompleteBooking)
}

func (h *Handlers) changeBooking(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, userID, bookingID uuid.UUID) (*inbound.BookingDTO, error),
) {
	claims, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	booking, err := change(r.Context(), claims.UserID, id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, booking)
}
