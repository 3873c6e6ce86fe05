package recipe

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RecipeTestSuite provides a test suite for Recipe entity
type RecipeTestSuite struct {
	suite.Suite
}

// TestRecipeCreation tests recipe creation scenarios
func (suite *RecipeTestSuite) TestRecipeCreation() {
	suite.Run("ValidRecipe_ShouldCreateSuccessfully", func() {
		r, err := NewRecipe("  Pad Thai ", Details{
			Cuisine:    "Thai",
			PrepTime:   15,
			CookTime:   10,
			Servings:   3,
			Difficulty: DifficultyEasy,
		})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "Pad Thai", r.Title())
		assert.NotEqual(suite.T(), uuid.Nil, r.ID())
		assert.Equal(suite.T(), 25, r.TotalTime())
		assert.Nil(suite.T(), r.Rating())
		assert.Zero(suite.T(), r.RatingCount())
		assert.NotZero(suite.T(), r.CreatedAt())
	})

	suite.Run("Defaults_ShouldApply", func() {
		r, err := NewRecipe("Toast", Details{})

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), DefaultServings, r.Servings())
		assert.Equal(suite.T(), DifficultyMedium, r.Difficulty())
	})

	suite.Run("TitleTooShort_ShouldReturnError", func() {
		_, err := NewRecipe("AB", Details{})
		assert.Equal(suite.T(), ErrTitleTooShort, err)
	})

	suite.Run("NegativeTime_ShouldReturnError", func() {
		_, err := NewRecipe("Soup", Details{PrepTime: -1})
		assert.Equal(suite.T(), ErrNegativeTime, err)
	})

	suite.Run("UnknownDifficulty_ShouldReturnError", func() {
		_, err := NewRecipe("Soup", Details{Difficulty: "Extreme"})
		assert.Equal(suite.T(), ErrInvalidDifficulty, err)
	})
}

// TestSearchMatching tests the case-insensitive search predicate
func (suite *RecipeTestSuite) TestSearchMatching() {
	r := Restore(Snapshot{
		ID:          uuid.New(),
		Title:       "Green Curry",
		Cuisine:     "Thai",
		Description: "Coconut milk and basil",
	})

	assert.True(suite.T(), r.MatchesSearch(""))
	assert.True(suite.T(), r.MatchesSearch("thai"))
	assert.True(suite.T(), r.MatchesSearch("CURRY"))
	assert.True(suite.T(), r.MatchesSearch("coconut"))
	assert.False(suite.T(), r.MatchesSearch("taco"))
}

// TestRating tests rating validation and the summary update
func (suite *RecipeTestSuite) TestRating() {
	suite.Run("ScoreOutOfRange_ShouldFail", func() {
		_, err := NewRating(uuid.New(), uuid.New(), 0, "")
		assert.Equal(suite.T(), ErrInvalidRating, err)

		_, err = NewRating(uuid.New(), uuid.New(), 6, "")
		assert.Equal(suite.T(), ErrInvalidRating, err)
	})

	suite.Run("Rate_ShouldUpdateSummaryAndRaiseEvent", func() {
		r, err := NewRecipe("Tacos", Details{})
		require.NoError(suite.T(), err)

		rating, err := NewRating(uuid.New(), r.ID(), 4, "great")
		require.NoError(suite.T(), err)

		r.Rate(rating, RatingSummary{Average: 4.5, Count: 2})

		require.NotNil(suite.T(), r.Rating())
		assert.InDelta(suite.T(), 4.5, *r.Rating(), 0.001)
		assert.Equal(suite.T(), 2, r.RatingCount())

		events := r.Events()
		require.Len(suite.T(), events, 1)
		assert.Equal(suite.T(), "recipe.rated", events[0].EventName())
	})

	suite.Run("EmptySummary_ClearsRating", func() {
		r, err := NewRecipe("Tacos", Details{})
		require.NoError(suite.T(), err)

		r.UpdateRatingSummary(RatingSummary{})
		assert.Nil(suite.T(), r.Rating())
	})
}

func TestRecipeTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeTestSuite))
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("hard")
	require.NoError(t, err)
	assert.Equal(t, DifficultyHard, d)

	_, err = ParseDifficulty("brutal")
	assert.ErrorIs(t, err, ErrInvalidDifficulty)
}
