package view

import (
	"time"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/domain/booking"
	"github.com/savorly/savorly/internal/ports/inbound"
)

// BookingGroups splits the bookings sheet into its two sections
type BookingGroups struct {
	Upcoming  []inbound.BookingDTO
	Completed []inbound.BookingDTO
}

// GroupBookings keeps scheduled and completed bookings in their given order
// and drops cancelled ones
func GroupBookings(bookings []inbound.BookingDTO) BookingGroups {
	groups := BookingGroups{
		Upcoming:  []inbound.BookingDTO{},
		Completed: []inbound.BookingDTO{},
	}
	for _, b := range bookings {
		switch booking.Status(b.Status) {
		case booking.StatusScheduled:
			groups.Upcoming = append(groups.Upcoming, b)
		case booking.StatusCompleted:
			groups.Completed = append(groups.Completed, b)
		}
	}
	return groups
}

// DateLabel renders a scheduled date as "Today", "Tomorrow" or "Mon, Jan 2".
// Unparseable dates are returned unchanged.
func DateLabel(date string, today time.Time) string {
	d, err := booking.ParseDate(date)
	if err != nil {
		return date
	}
	current := booking.DateOf(today)
	switch {
	case d.Equal(current):
		return "Today"
	case d.Equal(current.AddDays(1)):
		return "Tomorrow"
	default:
		return d.Time().Format("Mon, Jan 2")
	}
}

var mealEmoji = map[booking.MealType]string{
	booking.MealBreakfast: "🌅",
	booking.MealLunch:     "☀️",
	booking.MealDinner:    "🌙",
	booking.MealSnack:     "🍿",
}

// MealEmoji returns the icon shown next to a meal slot
func MealEmoji(meal string) string {
	return mealEmoji[booking.MealType(meal)]
}

// FavoriteSet is the set of favorited recipe ids
type FavoriteSet map[uuid.UUID]struct{}

// NewFavoriteSet collects the recipe ids of favorites
func NewFavoriteSet(favorites []inbound.FavoriteDTO) FavoriteSet {
	set := make(FavoriteSet, len(favorites))
	for _, f := range favorites {
		set[f.RecipeID] = struct{}{}
	}
	return set
}

// Has reports whether id is a favorite
func (s FavoriteSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}
