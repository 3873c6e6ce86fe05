package view

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/domain/booking"
	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/internal/ports/outbound"
)

// DialogState is the lifecycle of the booking dialog
type DialogState int

const (
	DialogIdle DialogState = iota
	DialogOpen
	DialogSubmitting
)

func (s DialogState) String() string {
	switch s {
	case DialogOpen:
		return "open"
	case DialogSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

const defaultServings = 2

// RecipeRef is the part of a recipe the booking dialog needs
type RecipeRef struct {
	ID       uuid.UUID
	Title    string
	Servings int
}

// RefFromRecipe builds a reference from a catalogue recipe
func RefFromRecipe(r inbound.RecipeDTO) RecipeRef {
	return RecipeRef{ID: r.ID, Title: r.Title, Servings: r.Servings}
}

// RefFromSummary builds a reference from a favorite's recipe projection
func RefFromSummary(r *inbound.RecipeSummaryDTO) RecipeRef {
	return RecipeRef{ID: r.ID, Title: r.Title, Servings: r.Servings}
}

// BookingDialog collects the slot a recipe is booked into
type BookingDialog struct {
	state    DialogState
	recipe   *RecipeRef
	date     string
	mealType booking.MealType
	servings int
	notes    string
}

// Open shows the dialog for recipe with tomorrow's dinner preselected
func (d *BookingDialog) Open(recipe RecipeRef, today time.Time) {
	servings := recipe.Servings
	if servings <= 0 {
		servings = defaultServings
	}
	d.state = DialogOpen
	d.recipe = &recipe
	d.date = booking.DateOf(today).AddDays(1).String()
	d.mealType = booking.DefaultMealType
	d.servings = clampServings(servings)
	d.notes = ""
}

// Close hides the dialog and forgets the recipe
func (d *BookingDialog) Close() {
	*d = BookingDialog{}
}

// SetDate sets the scheduled date, formatted YYYY-MM-DD
func (d *BookingDialog) SetDate(date string) error {
	parsed, err := booking.ParseDate(date)
	if err != nil {
		return err
	}
	d.date = parsed.String()
	return nil
}

// SetMealType sets the meal slot
func (d *BookingDialog) SetMealType(meal string) error {
	m, err := booking.ParseMealType(meal)
	if err != nil {
		return err
	}
	d.mealType = m
	return nil
}

// SetServings sets the servings, clamped to the allowed range, and returns
// the value kept
func (d *BookingDialog) SetServings(n int) int {
	d.servings = clampServings(n)
	return d.servings
}

// SetNotes sets the free-text notes
func (d *BookingDialog) SetNotes(notes string) {
	d.notes = notes
}

// Request is the booking the dialog would submit
func (d *BookingDialog) Request() outbound.BookingRequest {
	req := outbound.BookingRequest{
		ScheduledDate: d.date,
		MealType:      string(d.mealType),
		Servings:      d.servings,
		Notes:         d.notes,
	}
	if d.recipe != nil {
		req.RecipeID = d.recipe.ID
	}
	return req
}

// Confirm submits the booking. The dialog closes on success and stays open
// on failure. Without a recipe it does nothing.
func (d *BookingDialog) Confirm(ctx context.Context, submit func(ctx context.Context, req outbound.BookingRequest) error) error {
	if d.recipe == nil || d.state != DialogOpen {
		return nil
	}
	d.state = DialogSubmitting
	if err := submit(ctx, d.Request()); err != nil {
		d.state = DialogOpen
		return err
	}
	d.Close()
	return nil
}

func (d *BookingDialog) State() DialogState { return d.state }

// Recipe returns the recipe being booked, or nil when the dialog is idle
func (d *BookingDialog) Recipe() *RecipeRef { return d.recipe }

func (d *BookingDialog) Date() string { return d.date }

func (d *BookingDialog) MealType() string { return string(d.mealType) }

func (d *BookingDialog) Servings() int { return d.servings }

func (d *BookingDialog) Notes() string { return d.notes }

func clampServings(n int) int {
	if n < booking.MinServings {
		return booking.MinServings
	}
	if n > booking.MaxServings {
		return booking.MaxServings
	}
	return n
}
