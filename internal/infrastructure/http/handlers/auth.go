package handlers

import (
	"net/http"

	"github.com/savorly/savorly/internal/infrastructure/http/middleware"
	"github.com/savorly/savorly/internal/infrastructure/http/respond"
	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/pkg/errors"
	"go.uber.org/zap"
)

// SignUpRequest represents user registration request
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"full_name" validate:"max=100"`
}

// SignInRequest represents user login request
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignUp handles POST /api/v1/auth/signup
func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	resp, err := h.users.SignUp(r.Context(), inbound.SignUpCommand{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusCreated, resp)
}

// SignIn handles POST /api/v1/auth/signin
func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	resp, err := h.users.SignIn(r.Context(), inbound.SignInCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Info("Sign-in failed", zap.String("email", req.Email), zap.String("code", string(errors.GetCode(err))))
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, resp)
}

// SignOut handles POST /api/v1/auth/signout
func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.TokenFromContext(r.Context())
	if !ok {
		h.fail(w, r, errors.NewUnauthorizedError(""))
		return
	}
	if err := h.users.SignOut(r.Context(), token); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"signed_out": true})
}

// Me handles GET /api/v1/auth/me
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, u)
}
