// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/infrastructure/http/middleware"
	"github.com/savorly/savorly/internal/infrastructure/http/respond"
	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/internal/ports/outbound"
	"github.com/savorly/savorly/pkg/errors"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Handlers serves the /api/v1 endpoints
type Handlers struct {
	base
	recipes   inbound.RecipeService
	bookings  inbound.BookingService
	favorites inbound.FavoriteService
	users     inbound.UserService
}

// New creates the API handlers
func New(
	recipes inbound.RecipeService,
	bookings inbound.BookingService,
	favorites inbound.FavoriteService,
	users inbound.UserService,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		base:      newBase(logger.Named("handlers")),
		recipes:   recipes,
		bookings:  bookings,
		favorites: favorites,
		users:     users,
	}
}

// Routes registers every endpoint on r. authenticate guards the endpoints
// that act for a user.
func (h *Handlers) Routes(r chi.Router, authenticate func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.SignUp)
		r.Post("/signin", h.SignIn)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/signout", h.SignOut)
			r.Get("/me", h.Me)
		})
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.ListRecipes)
		r.Get("/popular", h.ListPopular)
		r.Get("/{id}", h.GetRecipe)
		r.With(authenticate).Post("/{id}/rating", h.RateRecipe)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", h.ListBookings)
		r.Post("/", h.CreateBooking)
		r.Post("/{id}/cancel", h.CancelBooking)
		r.Post("/{id}/complete", h.CompleteBooking)
	})

	r.Route("/favorites", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", h.ListFavorites)
		r.Put("/{recipeId}", h.AddFavorite)
		r.Delete("/{recipeId}", h.RemoveFavorite)
	})
}

// base carries the validator and logger shared by every handler
type base struct {
	validate *validator.Validate
	logger   *zap.Logger
}

func newBase(logger *zap.Logger) base {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return base{validate: v, logger: logger}
}

// decode reads a JSON body into dst and validates it
func (b base) decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.NewBadRequestError("Request body is required")
		}
		return errors.NewAppError(errors.CodeBadRequest, "Invalid JSON payload", err.Error())
	}

	if err := b.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !stderrors.As(err, &verrs) {
			return errors.NewValidationError(err.Error())
		}
		fields := make([]errors.ValidationError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, errors.ValidationError{
				Field:   fe.Field(),
				Value:   fe.Value(),
				Tag:     fe.Tag(),
				Message: validationMessage(fe),
			})
		}
		return errors.NewValidationErrors(fields)
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	case "uuid":
		return fmt.Sprintf("%s must be a UUID", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func (b base) fail(w http.ResponseWriter, r *http.Request, err error) {
	respond.Error(w, r, b.logger, err)
}

// uuidParam parses a UUID path parameter
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.NewAppError(errors.CodeBadRequest, "Invalid "+name, fmt.Sprintf("%q is not a UUID", raw))
	}
	return id, nil
}

// currentUser returns the authenticated user's claims
func currentUser(r *http.Request) (*outbound.TokenClaims, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return nil, errors.NewUnauthorizedError("")
	}
	return claims, nil
}
