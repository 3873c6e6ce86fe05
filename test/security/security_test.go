// Package security exercises authentication and input handling of the API
//go:build security
// +build security

package security

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/infrastructure/security"
	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/pkg/errors"
	"github.com/savorly/savorly/test/testutils"
	"github.com/stretchr/testify/suite"
)

// SecurityTestSuite runs attacks against an in-process API server
type SecurityTestSuite struct {
	suite.Suite
	api  *testutils.TestAPI
	http *testutils.HTTPAssertions
	auth inbound.AuthResponse
}

func (suite *SecurityTestSuite) SetupTest() {
	suite.api = testutils.StartTestAPI(suite.T())
	suite.http = testutils.NewHTTPAssertions(suite.T())

	resp := suite.send(http.MethodPost, "/api/v1/auth/signup", "", `{"email":"victim@example.com","password":"secret-pass"}`)
	suite.http.StatusCode(resp, http.StatusCreated)
	suite.http.SuccessData(resp, &suite.auth)
}

func (suite *SecurityTestSuite) send(method, path, token, body string) *http.Response {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, suite.api.URL()+path, reader)
	suite.Require().NoError(err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { resp.Body.Close() })
	return resp
}

// forge signs claims for the victim with the given method and key
func (suite *SecurityTestSuite) forge(method jwt.SigningMethod, key interface{}, mutate func(*security.Claims)) string {
	now := time.Now()
	claims := &security.Claims{
		UserID:    suite.auth.User.ID.String(),
		Email:     suite.auth.User.Email,
		TokenType: security.AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    suite.api.Config.Auth.Issuer,
			Subject:   suite.auth.User.ID.String(),
			Audience:  []string{"savorly-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	if mutate != nil {
		mutate(claims)
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	suite.Require().NoError(err)
	return signed
}

func (suite *SecurityTestSuite) TestProtectedRoutesRejectAnonymousRequests() {
	recipeID := uuid.NewString()
	routes := []struct{ method, path, body string }{
		{http.MethodGet, "/api/v1/auth/me", ""},
		{http.MethodPost, "/api/v1/auth/signout", ""},
		{http.MethodGet, "/api/v1/bookings", ""},
		{http.MethodPost, "/api/v1/bookings", `{}`},
		{http.MethodPost, "/api/v1/bookings/" + uuid.NewString() + "/cancel", ""},
		{http.MethodPost, "/api/v1/bookings/" + uuid.NewString() + "/complete", ""},
		{http.MethodGet, "/api/v1/favorites", ""},
		{http.MethodPut, "/api/v1/favorites/" + recipeID, ""},
		{http.MethodDelete, "/api/v1/favorites/" + recipeID, ""},
		{http.MethodPost, "/api/v1/recipes/" + recipeID + "/rating", `{"score":5}`},
	}

	for _, route := range routes {
		suite.Run(route.method+" "+route.path, func() {
			resp := suite.send(route.method, route.path, "", route.body)
			suite.http.ErrorEnvelope(resp, http.StatusUnauthorized, errors.CodeUnauthorized)
			suite.http.SecurityHeaders(resp)
		})
	}
}

func (suite *SecurityTestSuite) TestForgedTokensAreRejected() {
	tampered := suite.auth.AccessToken[:len(suite.auth.AccessToken)-2] + "xx"

	cases := map[string]string{
		"tampered signature": tampered,
		"wrong secret":       suite.forge(jwt.SigningMethodHS256, []byte("guessed-secret"), nil),
		"alg none":           suite.forge(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, nil),
		"expired": suite.forge(jwt.SigningMethodHS256, []byte("test-secret"), func(c *security.Claims) {
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		}),
		"foreign audience": suite.forge(jwt.SigningMethodHS256, []byte("test-secret"), func(c *security.Claims) {
			c.Audience = []string{"another-api"}
		}),
		"refresh token":  suite.auth.RefreshToken,
		"not a jwt":      "definitely-not-a-token",
		"empty segments": "..",
	}

	for name, token := range cases {
		suite.Run(name, func() {
			resp := suite.send(http.MethodGet, "/api/v1/auth/me", token, "")
			suite.http.ErrorEnvelope(resp, http.StatusUnauthorized, errors.CodeUnauthorized)
		})
	}

	// A correctly signed token still works, so the rejections above are not blanket failures
	valid := suite.forge(jwt.SigningMethodHS256, []byte("test-secret"), nil)
	suite.http.StatusCode(suite.send(http.MethodGet, "/api/v1/auth/me", valid, ""), http.StatusOK)
}

func (suite *SecurityTestSuite) TestSignInDoesNotRevealAccounts() {
	wrongPassword := suite.send(http.MethodPost, "/api/v1/auth/signin", "", `{"email":"victim@example.com","password":"wrong-pass"}`)
	unknownEmail := suite.send(http.MethodPost, "/api/v1/auth/signin", "", `{"email":"nobody@example.com","password":"wrong-pass"}`)

	first := suite.http.ErrorEnvelope(wrongPassword, http.StatusUnauthorized, errors.CodeInvalidCredentials)
	second := suite.http.ErrorEnvelope(unknownEmail, http.StatusUnauthorized, errors.CodeInvalidCredentials)
	suite.Equal(first.Message, second.Message)
}

func (suite *SecurityTestSuite) TestResponsesNeverCarryPasswordHashes() {
	resp := suite.send(http.MethodGet, "/api/v1/auth/me", suite.auth.AccessToken, "")
	suite.http.StatusCode(resp, http.StatusOK)
	body, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	suite.NotContains(strings.ToLower(string(body)), "password")
	suite.NotContains(string(body), "$2a$")
}

func (suite *SecurityTestSuite) TestSearchIsNotInjectable() {
	for _, term := range []string{"' OR '1'='1", "%' --", "\"; DROP TABLE recipes; --", "_"} {
		req, err := http.NewRequest(http.MethodGet, suite.api.URL()+"/api/v1/recipes", nil)
		suite.Require().NoError(err)
		q := req.URL.Query()
		q.Set("search", term)
		req.URL.RawQuery = q.Encode()

		resp, err := http.DefaultClient.Do(req)
		suite.Require().NoError(err)
		var recipes []inbound.RecipeDTO
		suite.http.SuccessData(resp, &recipes)
		resp.Body.Close()
		suite.Empty(recipes, "search %q", term)
	}

	testutils.NewDatabaseAssertions(suite.T(), suite.api.DB).RecordCount("recipes", 8, "")
}

func (suite *SecurityTestSuite) TestMalformedBodiesAreRejected() {
	cases := map[string]string{
		"truncated json": `{"recipe_id":`,
		"wrong types":    `{"recipe_id":42,"servings":"many"}`,
		"unknown recipe": `{"recipe_id":"` + uuid.NewString() + `","scheduled_date":"2030-01-01","meal_type":"dinner","servings":2}`,
	}
	for name, body := range cases {
		suite.Run(name, func() {
			resp := suite.send(http.MethodPost, "/api/v1/bookings", suite.auth.AccessToken, body)
			suite.GreaterOrEqual(resp.StatusCode, 400)
			suite.Less(resp.StatusCode, 500)
		})
	}

	// Form posts are refused before reaching any handler
	req, err := http.NewRequest(http.MethodPost, suite.api.URL()+"/api/v1/auth/signin", bytes.NewBufferString("email=a&password=b"))
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()
	suite.http.ErrorEnvelope(resp, http.StatusBadRequest, errors.CodeBadRequest)
}

func (suite *SecurityTestSuite) TestBookingsAreScopedToTheirOwner() {
	resp := suite.send(http.MethodGet, "/api/v1/recipes", "", "")
	var recipes []inbound.RecipeDTO
	suite.http.SuccessData(resp, &recipes)
	suite.Require().NotEmpty(recipes)

	body, err := json.Marshal(map[string]interface{}{
		"recipe_id":      recipes[0].ID,
		"scheduled_date": "2030-03-01",
		"meal_type":      "lunch",
		"servings":       2,
	})
	suite.Require().NoError(err)
	resp = suite.send(http.MethodPost, "/api/v1/bookings", suite.auth.AccessToken, string(body))
	var created inbound.BookingDTO
	suite.http.SuccessData(resp, &created)

	var attacker inbound.AuthResponse
	resp = suite.send(http.MethodPost, "/api/v1/auth/signup", "", `{"email":"attacker@example.com","password":"secret-pass"}`)
	suite.http.SuccessData(resp, &attacker)

	resp = suite.send(http.MethodPost, "/api/v1/bookings/"+created.ID.String()+"/cancel", attacker.AccessToken, "")
	suite.http.ErrorEnvelope(resp, http.StatusNotFound, errors.CodeBookingNotFound)

	resp = suite.send(http.MethodGet, "/api/v1/bookings", attacker.AccessToken, "")
	var list []inbound.BookingDTO
	suite.http.SuccessData(resp, &list)
	suite.Empty(list)
}

func TestSecurityTestSuite(t *testing.T) {
	suite.Run(t, new(SecurityTestSuite))
}
