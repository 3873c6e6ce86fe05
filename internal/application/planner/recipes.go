package planner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/application/querycache"
	"github.com/savorly/savorly/internal/application/session"
	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/internal/ports/outbound"
	"go.uber.org/zap"
)

// Recipes reads the recipe catalogue and submits ratings
type Recipes struct {
	base
	rate mutation
}

// NormalizeSearch returns the cache parameter for a search term. The empty
// string means no active search.
func NormalizeSearch(search string) string {
	return strings.ToLower(strings.TrimSpace(search))
}

// List lists recipes matching search, newest first
func (r *Recipes) List(ctx context.Context, search string) ([]inbound.RecipeDTO, error) {
	search = strings.TrimSpace(search)
	key := querycache.Key{Operation: OpRecipes, Params: NormalizeSearch(search)}
	recipes, _, err := querycache.Get(ctx, r.cache, key, func(ctx context.Context) ([]inbound.RecipeDTO, error) {
		return r.data.ListRecipes(ctx, search)
	})
	return recipes, err
}

// Popular lists the popular recipes, best rated first
func (r *Recipes) Popular(ctx context.Context) ([]inbound.RecipeDTO, error) {
	key := querycache.Key{Operation: OpPopular}
	recipes, _, err := querycache.Get(ctx, r.cache, key, r.data.ListPopular)
	return recipes, err
}

// Get returns one recipe, or nil when it does not exist. A nil id disables
// the query.
func (r *Recipes) Get(ctx context.Context, id uuid.UUID) (*inbound.RecipeDTO, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	key := querycache.Key{Operation: OpRecipe, Params: id.String()}
	recipe, _, err := querycache.Get(ctx, r.cache, key, func(ctx context.Context) (*inbound.RecipeDTO, error) {
		return r.data.GetRecipe(ctx, id)
	})
	return recipe, err
}

// Rate submits the user's score for a recipe, replacing an earlier one
func (r *Recipes) Rate(ctx context.Context, sess session.Session, recipeID uuid.UUID, score int, review string) error {
	if !sess.IsAuthenticated() {
		return r.failed(unauthorized(MsgLoginToRate))
	}
	return r.rate.run(func() error {
		_, err := r.data.RateRecipe(ctx, sess.AccessToken, outbound.RateRequest{
			RecipeID: recipeID,
			Score:    score,
			Review:   review,
		})
		if err != nil {
			r.logger.Warn("Rating failed", zap.String("recipe_id", recipeID.String()), zap.Error(err))
			return r.failed(err)
		}

		r.cache.Invalidate(OpRecipes)
		r.cache.Invalidate(OpPopular)
		r.cache.Invalidate(OpRecipe)
		r.success(MsgRated)
		return nil
	})
}

// RatePending reports whether a rating is being submitted
func (r *Recipes) RatePending() bool {
	return r.rate.Pending()
}
