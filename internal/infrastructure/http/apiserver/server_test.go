package apiserver_test

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/pkg/errors"
	"github.com/savorly/savorly/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/net/http2"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type APIServerTestSuite struct {
	suite.Suite
	api   *testutils.TestAPI
	token string
}

func (s *APIServerTestSuite) SetupTest() {
	s.api = testutils.StartTestAPI(s.T())

	var auth inbound.AuthResponse
	status := s.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email":     "cook@example.com",
		"password":  "secret-pass",
		"full_name": "Home Cook",
	}, &auth)
	s.Require().Equal(http.StatusCreated, status)
	s.token = auth.AccessToken
}

// do sends a request and decodes the success payload into out. It returns
// the status code; error envelopes are decoded into out when it is an
// *errors.ErrorResponse.
func (s *APIServerTestSuite) do(method, path, token string, body interface{}, out interface{}) int {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, s.api.URL()+path, reader)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	if out == nil {
		return resp.StatusCode
	}
	if errResp, ok := out.(*errors.ErrorResponse); ok {
		s.Require().NoError(json.Unmarshal(raw, errResp), string(raw))
		return resp.StatusCode
	}
	var env envelope
	s.Require().NoError(json.Unmarshal(raw, &env), string(raw))
	s.True(env.Success)
	s.Require().NoError(json.Unmarshal(env.Data, out))
	return resp.StatusCode
}

func (s *APIServerTestSuite) firstRecipe() inbound.RecipeDTO {
	var recipes []inbound.RecipeDTO
	s.Require().Equal(http.StatusOK, s.do(http.MethodGet, "/api/v1/recipes", "", nil, &recipes))
	s.Require().NotEmpty(recipes)
	return recipes[0]
}

func (s *APIServerTestSuite) TestRecipeQueries() {
	var all []inbound.RecipeDTO
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/v1/recipes", "", nil, &all))
	s.Len(all, 8)
	for i := 1; i < len(all); i++ {
		s.False(all[i].CreatedAt.After(all[i-1].CreatedAt), "recipes must be newest first")
	}

	var thai []inbound.RecipeDTO
	s.do(http.MethodGet, "/api/v1/recipes?search=THAI", "", nil, &thai)
	s.Len(thai, 2)

	var popular []inbound.RecipeDTO
	s.do(http.MethodGet, "/api/v1/recipes/popular", "", nil, &popular)
	s.LessOrEqual(len(popular), 4)
	for i := 1; i < len(popular); i++ {
		s.GreaterOrEqual(*popular[i-1].Rating, *popular[i].Rating)
	}

	var one inbound.RecipeDTO
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/v1/recipes/"+all[0].ID.String(), "", nil, &one))
	s.Equal(all[0].Title, one.Title)
}

func (s *APIServerTestSuite) TestMissingRecipeIsNullData() {
	var missing *inbound.RecipeDTO
	status := s.do(http.MethodGet, "/api/v1/recipes/00000000-0000-0000-0000-000000000001", "", nil, &missing)
	s.Equal(http.StatusOK, status)
	s.Nil(missing)
}

func (s *APIServerTestSuite) TestProtectedRoutesRequireToken() {
	var errResp errors.ErrorResponse
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/bookings", "", nil, &errResp))
	s.Equal(errors.CodeUnauthorized, errResp.Error.Code)
	s.NotEmpty(errResp.Error.RequestID)
}

func (s *APIServerTestSuite) TestDuplicateBookingIsAStructuredConflict() {
	r := s.firstRecipe()
	req := map[string]interface{}{
		"recipe_id":      r.ID,
		"scheduled_date": time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		"meal_type":      "dinner",
		"servings":       2,
	}

	var created inbound.BookingDTO
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/api/v1/bookings", s.token, req, &created))
	s.Equal("scheduled", created.Status)
	s.Require().NotNil(created.Recipe)
	s.Equal(r.Title, created.Recipe.Title)

	var errResp errors.ErrorResponse
	s.Equal(http.StatusConflict, s.do(http.MethodPost, "/api/v1/bookings", s.token, req, &errResp))
	s.Equal(errors.CodeUniqueViolation, errResp.Error.Code)
}

func (s *APIServerTestSuite) TestBookingValidation() {
	var errResp errors.ErrorResponse
	status := s.do(http.MethodPost, "/api/v1/bookings", s.token, map[string]interface{}{
		"recipe_id":      s.firstRecipe().ID,
		"scheduled_date": "tomorrow",
		"meal_type":      "brunch",
		"servings":       21,
	}, &errResp)
	s.Equal(http.StatusBadRequest, status)
	s.Equal(errors.CodeValidationFailed, errResp.Error.Code)
	s.Contains(errResp.Error.Details, "scheduled_date")
	s.Contains(errResp.Error.Details, "meal_type")
	s.Contains(errResp.Error.Details, "servings")
}

func (s *APIServerTestSuite) TestBookingLifecycle() {
	r := s.firstRecipe()
	var created inbound.BookingDTO
	s.do(http.MethodPost, "/api/v1/bookings", s.token, map[string]interface{}{
		"recipe_id":      r.ID,
		"scheduled_date": "2030-01-02",
		"meal_type":      "lunch",
		"servings":       3,
	}, &created)

	var cancelled inbound.BookingDTO
	path := "/api/v1/bookings/" + created.ID.String()
	s.Equal(http.StatusOK, s.do(http.MethodPost, path+"/cancel", s.token, nil, &cancelled))
	s.Equal("cancelled", cancelled.Status)

	var again inbound.BookingDTO
	s.Equal(http.StatusOK, s.do(http.MethodPost, path+"/cancel", s.token, nil, &again), "re-cancel is a no-op")

	var errResp errors.ErrorResponse
	s.Equal(http.StatusConflict, s.do(http.MethodPost, path+"/complete", s.token, nil, &errResp))
	s.Equal(errors.CodeInvalidStatusTransition, errResp.Error.Code)

	var list []inbound.BookingDTO
	s.do(http.MethodGet, "/api/v1/bookings", s.token, nil, &list)
	s.Len(list, 1)
}

func (s *APIServerTestSuite) TestOtherUsersBookingIsNotFound() {
	var created inbound.BookingDTO
	s.do(http.MethodPost, "/api/v1/bookings", s.token, map[string]interface{}{
		"recipe_id":      s.firstRecipe().ID,
		"scheduled_date": "2030-01-02",
		"meal_type":      "snack",
		"servings":       1,
	}, &created)

	var other inbound.AuthResponse
	s.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "other@example.com", "password": "secret-pass",
	}, &other)

	var errResp errors.ErrorResponse
	status := s.do(http.MethodPost, "/api/v1/bookings/"+created.ID.String()+"/complete", other.AccessToken, nil, &errResp)
	s.Equal(http.StatusNotFound, status)
	s.Equal(errors.CodeBookingNotFound, errResp.Error.Code)
}

func (s *APIServerTestSuite) TestFavoritesAreIdempotent() {
	r := s.firstRecipe()
	path := "/api/v1/favorites/" + r.ID.String()

	var state inbound.FavoriteStateDTO
	s.Equal(http.StatusOK, s.do(http.MethodPut, path, s.token, nil, &state))
	s.True(state.Favorite)
	s.Equal(http.StatusOK, s.do(http.MethodPut, path, s.token, nil, &state))
	s.True(state.Favorite)

	var favorites []inbound.FavoriteDTO
	s.do(http.MethodGet, "/api/v1/favorites", s.token, nil, &favorites)
	s.Require().Len(favorites, 1)
	s.Require().NotNil(favorites[0].Recipe)
	s.Equal(r.Cuisine, favorites[0].Recipe.Cuisine)

	s.Equal(http.StatusOK, s.do(http.MethodDelete, path, s.token, nil, &state))
	s.False(state.Favorite)
	s.Equal(http.StatusOK, s.do(http.MethodDelete, path, s.token, nil, &state))
	s.False(state.Favorite)
}

func (s *APIServerTestSuite) TestRatingRefreshesCachedRecipe() {
	r := s.firstRecipe()
	path := "/api/v1/recipes/" + r.ID.String()

	var before inbound.RecipeDTO
	s.do(http.MethodGet, path, "", nil, &before)

	var rating inbound.RatingDTO
	s.Equal(http.StatusOK, s.do(http.MethodPost, path+"/rating", s.token, map[string]interface{}{"score": 1}, &rating))
	s.Equal(1, rating.Score)

	// The summary is recomputed from stored ratings and the cached read is dropped
	var after inbound.RecipeDTO
	s.do(http.MethodGet, path, "", nil, &after)
	s.Require().NotNil(after.Rating)
	s.NotEqual(*before.Rating, *after.Rating)
	s.Equal(1.0, *after.Rating)
	s.Equal(1, after.RatingCount)
}

func (s *APIServerTestSuite) TestSignOutRevokesToken() {
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/v1/auth/me", s.token, nil, &inbound.UserDTO{}))
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/api/v1/auth/signout", s.token, nil, &map[string]bool{}))

	var errResp errors.ErrorResponse
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/auth/me", s.token, nil, &errResp))
}

func (s *APIServerTestSuite) TestUnknownRouteUsesErrorEnvelope() {
	var errResp errors.ErrorResponse
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/v1/nope", "", nil, &errResp))
	s.Equal(errors.CodeNotFound, errResp.Error.Code)
}

func (s *APIServerTestSuite) TestOpenAPIJSON() {
	resp, err := http.Get(s.api.URL() + "/api/v1/openapi.json")
	s.Require().NoError(err)
	defer resp.Body.Close()

	var doc map[string]interface{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&doc))
	s.Equal("3.0.3", doc["openapi"])
}

func TestH2CServesHTTP2(t *testing.T) {
	api := testutils.StartTestAPI(t, func(cfg *config.Config) {
		cfg.Server.EnableH2C = true
	})

	client := &http.Client{Transport: &http2.Transport{
		AllowHTTP: true,
		DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, network, addr)
		},
	}}

	resp, err := client.Get(api.URL() + "/api/v1/recipes/popular")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, resp.ProtoMajor)
}

func TestAPIServerSuite(t *testing.T) {
	suite.Run(t, new(APIServerTestSuite))
}
