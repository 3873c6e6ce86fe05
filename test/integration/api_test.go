//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/pkg/errors"
	"github.com/savorly/savorly/test/testutils"
	"github.com/stretchr/testify/suite"
)

// APIIntegrationTestSuite serves the API over a PostgreSQL database
type APIIntegrationTestSuite struct {
	suite.Suite
	testDB   *testutils.TestDatabase
	api      *testutils.TestAPI
	http     *testutils.HTTPAssertions
	dbAssert *testutils.DatabaseAssertions
}

func (s *APIIntegrationTestSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("Skipping integration tests in short mode")
	}
	s.testDB = testutils.SetupTestDatabase(s.T())
}

func (s *APIIntegrationTestSuite) SetupTest() {
	s.Require().NoError(s.testDB.TruncateAllTables())
	s.api = testutils.StartTestAPIWithDB(s.T(), s.testDB.GormDB)
	s.http = testutils.NewHTTPAssertions(s.T())
	s.dbAssert = testutils.NewDatabaseAssertions(s.T(), s.testDB.GormDB)
}

func (s *APIIntegrationTestSuite) request(method, path, token string, body interface{}) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.api.URL()+path, &buf)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	s.T().Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *APIIntegrationTestSuite) signUp(email string) string {
	resp := s.request(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":     email,
		"password":  "secret-pass",
		"full_name": "Home Cook",
	})
	s.http.StatusCode(resp, http.StatusCreated)
	var auth inbound.AuthResponse
	s.http.SuccessData(resp, &auth)
	return auth.AccessToken
}

func (s *APIIntegrationTestSuite) TestSeededCatalogue() {
	resp := s.request(http.MethodGet, "/api/v1/recipes", "", nil)
	s.http.StatusCode(resp, http.StatusOK)
	s.http.SecurityHeaders(resp)

	var recipes []inbound.RecipeDTO
	s.http.SuccessData(resp, &recipes)
	s.Require().Len(recipes, 8)
	s.Equal("Classic Spaghetti Carbonara", recipes[0].Title)
	s.NotEmpty(recipes[0].Ingredients)

	resp = s.request(http.MethodGet, "/api/v1/recipes?search=carbonara", "", nil)
	var found []inbound.RecipeDTO
	s.http.SuccessData(resp, &found)
	s.Len(found, 1)
}

func (s *APIIntegrationTestSuite) TestBookingConflictOverPostgres() {
	token := s.signUp("planner@example.com")

	resp := s.request(http.MethodGet, "/api/v1/recipes", "", nil)
	var recipes []inbound.RecipeDTO
	s.http.SuccessData(resp, &recipes)
	s.Require().NotEmpty(recipes)

	req := map[string]interface{}{
		"recipe_id":      recipes[0].ID,
		"scheduled_date": "2030-06-01",
		"meal_type":      "dinner",
		"servings":       4,
	}
	s.http.StatusCode(s.request(http.MethodPost, "/api/v1/bookings", token, req), http.StatusCreated)

	details := s.http.ErrorEnvelope(s.request(http.MethodPost, "/api/v1/bookings", token, req), http.StatusConflict, errors.CodeUniqueViolation)
	s.NotEmpty(details.RequestID)
	s.dbAssert.RecordCount("bookings", 1, "recipe_id = ?", recipes[0].ID)
}

func (s *APIIntegrationTestSuite) TestRatingAndFavoritePersist() {
	token := s.signUp("rater@example.com")

	resp := s.request(http.MethodGet, "/api/v1/recipes/popular", "", nil)
	var popular []inbound.RecipeDTO
	s.http.SuccessData(resp, &popular)
	s.Require().NotEmpty(popular)
	target := popular[0]

	resp = s.request(http.MethodPost, "/api/v1/recipes/"+target.ID.String()+"/rating", token, map[string]interface{}{"score": 5})
	s.http.StatusCode(resp, http.StatusOK)
	s.dbAssert.RecordCount("ratings", 1, "recipe_id = ?", target.ID)

	resp = s.request(http.MethodPut, "/api/v1/favorites/"+target.ID.String(), token, nil)
	var state inbound.FavoriteStateDTO
	s.http.SuccessData(resp, &state)
	s.True(state.Favorite)
	s.dbAssert.RecordCount("favorites", 1, "recipe_id = ?", target.ID)
}

func (s *APIIntegrationTestSuite) TestDuplicateSignUp() {
	s.signUp("twice@example.com")

	resp := s.request(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":    "twice@example.com",
		"password": "another-pass",
	})
	s.http.ErrorEnvelope(resp, http.StatusConflict, errors.CodeEmailAlreadyExists)
}

func TestAPIIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(APIIntegrationTestSuite))
}
