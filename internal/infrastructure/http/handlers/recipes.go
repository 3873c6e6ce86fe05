package handlers

import (
	"net/http"

	"github.com/savorly/savorly/internal/infrastructure/http/respond"
	"github.com/savorly/savorly/internal/ports/inbound"
)

// RateRequest represents a rating submission
type RateRequest struct {
	Score  int    `json:"score" validate:"required,min=1,max=5"`
	Review string `json:"review,omitempty" validate:"max=2000"`
}

// ListRecipes handles GET /api/v1/recipes?search=
func (h *Handlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.ListRecipes(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, recipes)
}

// ListPopular handles GET /api/v1/recipes/popular
func (h *Handlers) ListPopular(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.recipes.ListPopular(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, recipes)
}

// GetRecipe handles GET /api/v1/recipes/{id}. A missing recipe is a
// successful response with null data.
func (h *Handlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	recipe, err := h.recipes.GetRecipe(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if recipe == nil {
		respond.JSON(w, http.StatusOK, nil)
		return
	}
	respond.JSON(w, http.StatusOK, recipe)
}

// RateRecipe handles POST /api/v1/recipes/{id}/rating
func (h *Handlers) RateRecipe(w http.ResponseWriter, r *http.Request) {
	claims, err := currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	id, err := uuidParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req RateRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	rating, err := h.recipes.RateRecipe(r.Context(), inbound.RateRecipeCommand{
		RecipeID: id,
		UserID:   claims.UserID,
		Score:    req.Score,
		Review:   req.Review,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, rating)
}
