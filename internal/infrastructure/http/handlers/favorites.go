package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/infrastructure/http/respond"
	"github.com/savorly/savorly/internal/ports/inbound"
)

// ListFavorites handles GET /api/v1/favorites
func (h *Handlers) ListFavorites(w http.ResponseWriter, r *http.Request) {
	claims, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	favorites, err := h.favorites.ListFavorites(r.Context(), claims.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, favorites)
}

// AddFavorite handles PUT /api/v1/favorites/{recipeId}
func (h *Handlers) AddFavorite(w http.ResponseWriter, r *http.Request) {
	h.changeFavorite(w, r, h.favorites.AddFavorite)
}

// RemoveFavorite handles DELETE /api/v1/favorites/{recipeId}
func (h *Handlers) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	h.changeFavorite(w, r, h.favorites.RemoveFavorite)
}

func (h *Handlers) changeFavorite(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, userID, recipeID uuid.UUID) (*inbound.FavoriteStateDTO, error),
) {
	claims, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	recipeID, err := uuidParam(r, "recipeId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	state, err := change(r.Context(), claims.UserID, recipeID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, state)
}
