package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// BookingTestSuite provides a test suite for the Booking entity
type BookingTestSuite struct {
	suite.Suite
	userID   uuid.UUID
	recipeID uuid.UUID
	date     Date
}

func (suite *BookingTestSuite) SetupTest() {
	suite.userID = uuid.New()
	suite.recipeID = uuid.New()
	suite.date = NewDate(2026, time.March, 14)
}

func (suite *BookingTestSuite) newBooking() *Booking {
	b, err := NewBooking(suite.userID, suite.recipeID, suite.date, MealDinner, 2, "")
	require.NoError(suite.T(), err)
	return b
}

func (suite *BookingTestSuite) TestBookingCreation() {
	suite.Run("ValidBooking_ShouldBeScheduled", func() {
		b, err := NewBooking(suite.userID, suite.recipeID, suite.date, MealLunch, 4, "  extra spicy ")

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), StatusScheduled, b.Status())
		assert.Equal(suite.T(), "extra spicy", b.Notes())
		assert.Equal(suite.T(), "2026-03-14", b.ScheduledDate().String())
		assert.True(suite.T(), b.IsOwnedBy(suite.userID))

		events := b.Events()
		require.Len(suite.T(), events, 1)
		created, ok := events[0].(BookingCreatedEvent)
		require.True(suite.T(), ok)
		assert.Equal(suite.T(), b.ID(), created.BookingID)
	})

	suite.Run("ServingsOutOfRange_ShouldFail", func() {
		for _, servings := range []int{0, 21, -3} {
			_, err := NewBooking(suite.userID, suite.recipeID, suite.date, MealDinner, servings, "")
			assert.ErrorIs(suite.T(), err, ErrInvalidServings)
		}
	})

	suite.Run("ServingsAtBounds_ShouldSucceed", func() {
		for _, servings := range []int{MinServings, MaxServings} {
			_, err := NewBooking(suite.userID, suite.recipeID, suite.date, MealDinner, servings, "")
			assert.NoError(suite.T(), err)
		}
	})

	suite.Run("UnknownMealType_ShouldFail", func() {
		_, err := NewBooking(suite.userID, suite.recipeID, suite.date, MealType("brunch"), 2, "")
		assert.ErrorIs(suite.T(), err, ErrInvalidMealType)
	})

	suite.Run("MissingDate_ShouldFail", func() {
		_, err := NewBooking(suite.userID, suite.recipeID, Date{}, MealDinner, 2, "")
		assert.ErrorIs(suite.T(), err, ErrInvalidDate)
	})

	suite.Run("MissingReferences_ShouldFail", func() {
		_, err := NewBooking(uuid.Nil, suite.recipeID, suite.date, MealDinner, 2, "")
		assert.ErrorIs(suite.T(), err, ErrMissingUser)

		_, err = NewBooking(suite.userID, uuid.Nil, suite.date, MealDinner, 2, "")
		assert.ErrorIs(suite.T(), err, ErrMissingRecipe)
	})
}

func (suite *BookingTestSuite) TestStatusTransitions() {
	suite.Run("ScheduledToCompleted", func() {
		b := suite.newBooking()
		b.Events()

		changed, err := b.Complete()
		require.NoError(suite.T(), err)
		assert.True(suite.T(), changed)
		assert.Equal(suite.T(), StatusCompleted, b.Status())

		events := b.Events()
		require.Len(suite.T(), events, 1)
		assert.Equal(suite.T(), "booking.status_changed", events[0].EventName())
	})

	suite.Run("ScheduledToCancelled", func() {
		b := suite.newBooking()

		changed, err := b.Cancel()
		require.NoError(suite.T(), err)
		assert.True(suite.T(), changed)
		assert.Equal(suite.T(), StatusCancelled, b.Status())
	})

	suite.Run("CancelTwice_IsNoOp", func() {
		b := suite.newBooking()
		_, err := b.Cancel()
		require.NoError(suite.T(), err)
		b.Events()

		changed, err := b.Cancel()
		require.NoError(suite.T(), err)
		assert.False(suite.T(), changed)
		assert.Empty(suite.T(), b.Events())
	})

	suite.Run("CompleteCancelled_IsRejected", func() {
		b := suite.newBooking()
		_, err := b.Cancel()
		require.NoError(suite.T(), err)

		changed, err := b.Complete()
		assert.False(suite.T(), changed)
		assert.ErrorIs(suite.T(), err, ErrInvalidStatusTransition)

		var transitionErr *TransitionError
		require.True(suite.T(), errors.As(err, &transitionErr))
		assert.Equal(suite.T(), StatusCancelled, transitionErr.From)
		assert.Equal(suite.T(), StatusCompleted, transitionErr.To)
		assert.Equal(suite.T(), StatusCancelled, b.Status())
	})

	suite.Run("CancelCompleted_IsRejected", func() {
		b := suite.newBooking()
		_, err := b.Complete()
		require.NoError(suite.T(), err)

		_, err = b.Cancel()
		assert.ErrorIs(suite.T(), err, ErrInvalidStatusTransition)
		assert.Equal(suite.T(), StatusCompleted, b.Status())
	})
}

func TestBookingTestSuite(t *testing.T) {
	suite.Run(t, new(BookingTestSuite))
}

func TestStatusCanTransitionTo(t *testing.T) {
	assert.True(t, StatusScheduled.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusScheduled.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusScheduled.CanTransitionTo(StatusScheduled))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusCancelled.CanTransitionTo(StatusScheduled))
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2026-12-31")
	require.NoError(t, err)
	assert.Equal(t, "2027-01-01", d.AddDays(1).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.Equal(NewDate(2026, time.December, 31)))

	_, err = ParseDate("31/12/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)

	local := time.Date(2026, time.May, 3, 23, 30, 0, 0, time.FixedZone("X", -5*3600))
	assert.Equal(t, "2026-05-03", DateOf(local).String())
	assert.Equal(t, "", Date{}.String())
}

func TestParseMealType(t *testing.T) {
	m, err := ParseMealType(" Breakfast ")
	require.NoError(t, err)
	assert.Equal(t, MealBreakfast, m)

	_, err = ParseMealType("supper")
	assert.ErrorIs(t, err, ErrInvalidMealType)
}
