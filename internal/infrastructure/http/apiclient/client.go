// Package apiclient talks to the Savorly API on behalf of the planner
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/internal/ports/outbound"
	"github.com/savorly/savorly/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const serviceName = "savorly-api"

// APIClient handles communication with the data service
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAPIClient creates a client for cfg.Client.APIURL. Requests carry the
// caller's trace context.
func NewAPIClient(cfg config.ClientConfig, logger *zap.Logger) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger.Named("api-client"),
	}
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// SignUp creates an account and returns its tokens
func (c *APIClient) SignUp(ctx context.Context, email, password, fullName string) (*inbound.AuthResponse, error) {
	var resp inbound.AuthResponse
	body := authRequest{Email: email, Password: password, FullName: fullName}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signup", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignIn exchanges credentials for tokens
func (c *APIClient) SignIn(ctx context.Context, email, password string) (*inbound.AuthResponse, error) {
	var resp inbound.AuthResponse
	body := authRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signin", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignOut revokes token
func (c *APIClient) SignOut(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/signout", token, nil, nil)
}

// ListRecipes lists recipes matching search, newest first
func (c *APIClient) ListRecipes(ctx context.Context, search string) ([]inbound.RecipeDTO, error) {
	path := "/api/v1/recipes"
	if search != "" {
		path += "?" + url.Values{"search": {search}}.Encode()
	}
	recipes := []inbound.RecipeDTO{}
	if err := c.do(ctx, http.MethodGet, path, "", nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// ListPopular lists the popular recipes
func (c *APIClient) ListPopular(ctx context.Context) ([]inbound.RecipeDTO, error) {
	recipes := []inbound.RecipeDTO{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/recipes/popular", "", nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetRecipe returns nil when the service reports no such recipe
func (c *APIClient) GetRecipe(ctx context.Context, id uuid.UUID) (*inbound.RecipeDTO, error) {
	var recipe *inbound.RecipeDTO
	if err := c.do(ctx, http.MethodGet, "/api/v1/recipes/"+id.String(), "", nil, &recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// RateRecipe stores the user's rating
func (c *APIClient) RateRecipe(ctx context.Context, token string, req outbound.RateRequest) (*inbound.RatingDTO, error) {
	var rating inbound.RatingDTO
	path := "/api/v1/recipes/" + req.RecipeID.String() + "/rating"
	if err := c.do(ctx, http.MethodPost, path, token, req, &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

// ListBookings lists the user's bookings
func (c *APIClient) ListBookings(ctx context.Context, token string) ([]inbound.BookingDTO, error) {
	bookings := []inbound.BookingDTO{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/bookings", token, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBooking schedules a recipe
func (c *APIClient) CreateBooking(ctx context.Context, token string, req outbound.BookingRequest) (*inbound.BookingDTO, error) {
	var booking inbound.BookingDTO
	if err := c.do(ctx, http.MethodPost, "/api/v1/bookings", token, req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// CancelBooking cancels a booking
func (c *APIClient) CancelBooking(ctx context.Context, token string, id uuid.UUID) (*inbound.BookingDTO, error) {
	return c.changeBooking(ctx, token, id, "cancel")
}

// CompleteBooking marks a booking as cooked
func (c *APIClient) CompleteBooking(ctx context.Context, token string, id uuid.UUID) (*inbound.BookingDTO, error) {
	return c.changeBooking(ctx, token, id, "complete")
}

func (c *APIClient) changeBooking(ctx context.Context, token string, id uuid.UUID, action string) (*inbound.BookingDTO, error) {
	var booking inbound.BookingDTO
	path := fmt.Sprintf("/api/v1/bookings/%s/%s", id, action)
	if err := c.do(ctx, http.MethodPost, path, token, nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListFavorites lists the user's favorites
func (c *APIClient) ListFavorites(ctx context.Context, token string) ([]inbound.FavoriteDTO, error) {
	favorites := []inbound.FavoriteDTO{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/favorites", token, nil, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

// AddFavorite saves a recipe
func (c *APIClient) AddFavorite(ctx context.Context, token string, recipeID uuid.UUID) (*inbound.FavoriteStateDTO, error) {
	var state inbound.FavoriteStateDTO
	if err := c.do(ctx, http.MethodPut, "/api/v1/favorites/"+recipeID.String(), token, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// RemoveFavorite drops a saved recipe
func (c *APIClient) RemoveFavorite(ctx context.Context, token string, recipeID uuid.UUID) (*inbound.FavoriteStateDTO, error) {
	var state inbound.FavoriteStateDTO
	if err := c.do(ctx, http.MethodDelete, "/api/v1/favorites/"+recipeID.String(), token, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// do sends one request and decodes the envelope's data into out. Error
// envelopes are turned back into AppErrors with their original code.
func (c *APIClient) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("API request",
		zap.String("method", method),
		zap.String("url", req.URL.String()),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewExternalServiceError(serviceName, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewExternalServiceError(serviceName, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp errors.ErrorResponse
		if err := json.Unmarshal(raw, &errResp); err != nil {
			c.logger.Warn("Undecodable API error response",
				zap.Int("status", resp.StatusCode),
				zap.String("body", string(raw)),
			)
		}
		appErr := errors.FromErrorResponse(errResp, resp.StatusCode)
		c.logger.Debug("API error response",
			zap.Int("status", resp.StatusCode),
			zap.String("code", string(appErr.Code)),
			zap.String("request_id", errResp.Error.RequestID),
		)
		return appErr
	}

	if out == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errors.NewExternalServiceError(serviceName, fmt.Errorf("failed to unmarshal response: %w", err))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.NewExternalServiceError(serviceName, fmt.Errorf("failed to unmarshal data: %w", err))
	}
	return nil
}

var _ outbound.DataService = (*APIClient)(nil)
