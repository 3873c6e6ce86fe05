//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/domain/booking"
	"github.com/savorly/savorly/internal/domain/favorite"
	"github.com/savorly/savorly/internal/domain/recipe"
	"github.com/savorly/savorly/internal/domain/user"
	gormrepo "github.com/savorly/savorly/internal/infrastructure/persistence/gorm"
	"github.com/savorly/savorly/internal/ports/outbound"
	"github.com/savorly/savorly/pkg/errors"
	"github.com/savorly/savorly/test/testutils"
	"github.com/stretchr/testify/suite"
)

// RepositoryIntegrationTestSuite runs the gorm repositories against PostgreSQL
// with the schema applied by the SQL migrations
type RepositoryIntegrationTestSuite struct {
	suite.Suite
	ctx       context.Context
	testDB    *testutils.TestDatabase
	dbAssert  *testutils.DatabaseAssertions
	recipes   *gormrepo.RecipeRepository
	ratings   *gormrepo.RatingRepository
	bookings  *gormrepo.BookingRepository
	favorites *gormrepo.FavoriteRepository
	users     *gormrepo.UserRepository
}

func (s *RepositoryIntegrationTestSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("Skipping integration tests in short mode")
	}

	s.ctx = context.Background()
	s.testDB = testutils.SetupTestDatabase(s.T())
	db := s.testDB.GormDB

	s.dbAssert = testutils.NewDatabaseAssertions(s.T(), db)
	s.recipes = gormrepo.NewRecipeRepository(db)
	s.ratings = gormrepo.NewRatingRepository(db)
	s.bookings = gormrepo.NewBookingRepository(db)
	s.favorites = gormrepo.NewFavoriteRepository(db)
	s.users = gormrepo.NewUserRepository(db)
}

func (s *RepositoryIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.testDB.TruncateAllTables())
}

func (s *RepositoryIntegrationTestSuite) createRecipe(b *testutils.RecipeBuilder) *recipe.Recipe {
	r := b.Build()
	s.Require().NoError(s.recipes.Create(s.ctx, r))
	return r
}

func (s *RepositoryIntegrationTestSuite) createUser() *user.User {
	u := testutils.NewTestUser()
	s.Require().NoError(s.users.Create(s.ctx, u))
	return u
}

func recipeIDs(list []*recipe.Recipe) []uuid.UUID {
	out := make([]uuid.UUID, len(list))
	for i, r := range list {
		out[i] = r.ID()
	}
	return out
}

func (s *RepositoryIntegrationTestSuite) TestSearchIsCaseInsensitiveAndNewestFirst() {
	now := time.Now().UTC()
	oldest := s.createRecipe(testutils.NewRecipeBuilder().WithTitle("Carbonara").WithCuisine("Italian").CreatedAt(now.Add(-3 * time.Hour)))
	s.createRecipe(testutils.NewRecipeBuilder().WithTitle("Pad Thai").WithCuisine("Thai").WithDescription("peanuts").CreatedAt(now.Add(-2 * time.Hour)))
	newest := s.createRecipe(testutils.NewRecipeBuilder().WithTitle("Focaccia").WithCuisine("Bakery").WithDescription("Italian flatbread").CreatedAt(now.Add(-time.Hour)))

	italian, err := s.recipes.Search(s.ctx, "ITALIAN")
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{newest.ID(), oldest.ID()}, recipeIDs(italian))

	underscore, err := s.recipes.Search(s.ctx, "_")
	s.Require().NoError(err)
	s.Empty(underscore, "LIKE wildcards are matched literally")

	all, err := s.recipes.Search(s.ctx, "  ")
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *RepositoryIntegrationTestSuite) TestIngredientsRoundTripThroughJSONB() {
	created := s.createRecipe(testutils.NewRecipeBuilder().WithServings(6))

	found, err := s.recipes.FindByID(s.ctx, created.ID())
	s.Require().NoError(err)
	s.Equal(created.Ingredients(), found.Ingredients())
	s.Equal(created.Instructions(), found.Instructions())
	s.Equal(6, found.Servings())

	byIDs, err := s.recipes.FindByIDs(s.ctx, []uuid.UUID{created.ID(), uuid.New()})
	s.Require().NoError(err)
	s.Len(byIDs, 1)
}

func (s *RepositoryIntegrationTestSuite) TestFindPopularSkipsUnratedRecipes() {
	low := s.createRecipe(testutils.NewRecipeBuilder().AsPopular().WithRating(3.5, 2))
	high := s.createRecipe(testutils.NewRecipeBuilder().AsPopular().WithRating(4.8, 12))
	s.createRecipe(testutils.NewRecipeBuilder().AsPopular())
	s.createRecipe(testutils.NewRecipeBuilder().WithRating(5, 3))

	popular, err := s.recipes.FindPopular(s.ctx, recipe.PopularLimit)
	s.Require().NoError(err)
	s.Equal([]uuid.UUID{high.ID(), low.ID()}, recipeIDs(popular))
}

func (s *RepositoryIntegrationTestSuite) TestRatingUpsertKeepsOneRowPerUser() {
	r := s.createRecipe(testutils.NewRecipeBuilder())
	cook := s.createUser()
	guest := s.createUser()

	for _, score := range []int{1, 3, 5} {
		rating, err := recipe.NewRating(cook.ID(), r.ID(), score, "")
		s.Require().NoError(err)
		s.Require().NoError(s.ratings.Upsert(s.ctx, rating))
	}
	other, err := recipe.NewRating(guest.ID(), r.ID(), 2, "too salty")
	s.Require().NoError(err)
	s.Require().NoError(s.ratings.Upsert(s.ctx, other))

	s.dbAssert.RecordCount("ratings", 2, "recipe_id = ?", r.ID())

	summary, err := s.ratings.Summary(s.ctx, r.ID())
	s.Require().NoError(err)
	s.Equal(2, summary.Count)
	s.InDelta(3.5, summary.Average, 0.001)
}

func (s *RepositoryIntegrationTestSuite) TestDuplicateBookingIsUniqueViolation() {
	r := s.createRecipe(testutils.NewRecipeBuilder())
	u := s.createUser()

	s.Require().NoError(s.bookings.Create(s.ctx, testutils.NewTestBooking(u.ID(), r.ID())))

	err := s.bookings.Create(s.ctx, testutils.NewTestBooking(u.ID(), r.ID()))
	testutils.AssertAppError(s.T(), err, errors.CodeUniqueViolation)
	s.dbAssert.RecordCount("bookings", 1, "user_id = ?", u.ID())
}

func (s *RepositoryIntegrationTestSuite) TestBookingDateSurvivesDateColumn() {
	r := s.createRecipe(testutils.NewRecipeBuilder())
	u := s.createUser()
	date, err := booking.ParseDate("2030-02-28")
	s.Require().NoError(err)

	b, err := booking.NewBooking(u.ID(), r.ID(), date, booking.MealBreakfast, 3, "early start")
	s.Require().NoError(err)
	s.Require().NoError(s.bookings.Create(s.ctx, b))

	_, err = b.Cancel()
	s.Require().NoError(err)
	s.Require().NoError(s.bookings.Update(s.ctx, b, booking.StatusScheduled))

	found, err := s.bookings.FindByID(s.ctx, b.ID())
	s.Require().NoError(err)
	s.Equal("2030-02-28", found.ScheduledDate().String())
	s.Equal(booking.StatusCancelled, found.Status())
	s.Equal("early start", found.Notes())
}

func (s *RepositoryIntegrationTestSuite) TestBookingForUnknownUserIsRejected() {
	r := s.createRecipe(testutils.NewRecipeBuilder())

	err := s.bookings.Create(s.ctx, testutils.NewTestBooking(uuid.New(), r.ID()))
	s.Error(err)
	s.dbAssert.RecordCount("bookings", 0, "recipe_id = ?", r.ID())
}

func (s *RepositoryIntegrationTestSuite) TestFavoritesAreIdempotent() {
	r := s.createRecipe(testutils.NewRecipeBuilder())
	u := s.createUser()

	created, err := s.favorites.Add(s.ctx, testutils.NewTestFavorite(u.ID(), r.ID()))
	s.Require().NoError(err)
	s.True(created)

	fav, err := favorite.NewFavorite(u.ID(), r.ID())
	s.Require().NoError(err)
	created, err = s.favorites.Add(s.ctx, fav)
	s.Require().NoError(err)
	s.False(created)
	s.dbAssert.RecordCount("favorites", 1, "user_id = ?", u.ID())

	removed, err := s.favorites.Remove(s.ctx, u.ID(), r.ID())
	s.Require().NoError(err)
	s.True(removed)
	removed, err = s.favorites.Remove(s.ctx, u.ID(), r.ID())
	s.Require().NoError(err)
	s.False(removed)
}

func (s *RepositoryIntegrationTestSuite) TestUserEmailIsUnique() {
	u := s.createUser()

	dup, err := user.NewUser(u.Email(), "Someone Else", testutils.TestPassword)
	s.Require().NoError(err)
	testutils.AssertAppError(s.T(), s.users.Create(s.ctx, dup), errors.CodeUniqueViolation)

	_, err = s.users.FindByID(s.ctx, uuid.New())
	s.ErrorIs(err, outbound.ErrNotFound)
}

func TestRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryIntegrationTestSuite))
}
