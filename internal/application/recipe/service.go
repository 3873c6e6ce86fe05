// Package recipe provides the application layer for recipe discovery and rating
// This implements the use cases defined in the inbound ports
package recipe

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/domain/recipe"
	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/internal/ports/outbound"
	"github.com/savorly/savorly/pkg/errors"
	"go.uber.org/zap"
)

// generationKey versions every cached recipe read; bumping it orphans them all
const generationKey = "recipes:generation"

// RecipeService implements the recipe use cases
type RecipeService struct {
	recipeRepo outbound.RecipeRepository
	ratingRepo outbound.RatingRepository
	cache      outbound.CacheRepository
	images     outbound.ImageResolver
	events     outbound.EventPublisher
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewRecipeService creates a new recipe service
func NewRecipeService(
	recipeRepo outbound.RecipeRepository,
	ratingRepo outbound.RatingRepository,
	cache outbound.CacheRepository,
	images outbound.ImageResolver,
	events outbound.EventPublisher,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *RecipeService {
	return &RecipeService{
		recipeRepo: recipeRepo,
		ratingRepo: ratingRepo,
		cache:      cache,
		images:     images,
		events:     events,
		cacheTTL:   cacheTTL,
		logger:     logger.Named("recipe-service"),
	}
}

// ListRecipes lists recipes newest first, optionally filtered by a search term
func (s *RecipeService) ListRecipes(ctx context.Context, search string) ([]inbound.RecipeDTO, error) {
	search = strings.TrimSpace(search)
	key := s.cacheKey(ctx, "list", strings.ToLower(search))

	var cached []inbound.RecipeDTO
	if s.getCached(ctx, key, &cached) {
		return cached, nil
	}

	recipes, err := s.recipeRepo.Search(ctx, search)
	if err != nil {
		return nil, errors.NewDatabaseError("search recipes", err)
	}

	dtos := s.toDTOs(ctx, recipes)
	s.setCached(ctx, key, dtos)

	s.logger.Debug("Listed recipes",
		zap.String("search", search),
		zap.Int("count", len(dtos)),
	)
	return dtos, nil
}

// ListPopular lists up to recipe.PopularLimit popular recipes, best rated first
func (s *RecipeService) ListPopular(ctx context.Context) ([]inbound.RecipeDTO, error) {
	key := s.cacheKey(ctx, "popular", "")

	var cached []inbound.RecipeDTO
	if s.getCached(ctx, key, &cached) {
		return cached, nil
	}

	recipes, err := s.recipeRepo.FindPopular(ctx, recipe.PopularLimit)
	if err != nil {
		return nil, errors.NewDatabaseError("find popular recipes", err)
	}

	dtos := s.toDTOs(ctx, recipes)
	s.setCached(ctx, key, dtos)
	return dtos, nil
}

// GetRecipe returns a single recipe, or nil when it does not exist
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*inbound.RecipeDTO, error) {
	key := s.cacheKey(ctx, "id", id.String())

	var cached inbound.RecipeDTO
	if s.getCached(ctx, key, &cached) {
		return &cached, nil
	}

	r, err := s.recipeRepo.FindByID(ctx, id)
	if stderrors.Is(err, outbound.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find recipe", err)
	}

	dto := s.toDTO(ctx, r)
	s.setCached(ctx, key, dto)
	return &dto, nil
}

// RateRecipe stores the user's rating, replacing an earlier one, and
// refreshes the recipe's rating summary
func (s *RecipeService) RateRecipe(ctx context.Context, cmd inbound.RateRecipeCommand) (*inbound.RatingDTO, error) {
	s.logger.Info("Rating recipe",
		zap.String("recipe_id", cmd.RecipeID.String()),
		zap.String("user_id", cmd.UserID.String()),
		zap.Int("score", cmd.Score),
	)

	rating, err := recipe.NewRating(cmd.UserID, cmd.RecipeID, cmd.Score, cmd.Review)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	recipeEntity, err := s.recipeRepo.FindByID(ctx, cmd.RecipeID)
	if stderrors.Is(err, outbound.ErrNotFound) {
		return nil, errors.NewRecipeNotFoundError(cmd.RecipeID.String())
	}
	if err != nil {
		return nil, errors.NewDatabaseError("find recipe", err)
	}

	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		return nil, errors.NewDatabaseError("save rating", err)
	}

	summary, err := s.ratingRepo.Summary(ctx, cmd.RecipeID)
	if err != nil {
		return nil, errors.NewDatabaseError("summarize ratings", err)
	}
	if err := s.recipeRepo.UpdateRatingSummary(ctx, cmd.RecipeID, summary); err != nil {
		return nil, errors.NewDatabaseError("update rating summary", err)
	}

	recipeEntity.Rate(rating, summary)
	s.events.Publish(ctx, recipeEntity.Events()...)
	s.Invalidate(ctx)

	s.logger.Info("Recipe rated",
		zap.String("recipe_id", cmd.RecipeID.String()),
		zap.Float64("average", summary.Average),
		zap.Int("count", summary.Count),
	)

	return &inbound.RatingDTO{
		RecipeID:  rating.RecipeID,
		UserID:    rating.UserID,
		Score:     rating.Score,
		Review:    rating.Review,
		UpdatedAt: rating.UpdatedAt,
	}, nil
}

// Invalidate drops every cached recipe read
func (s *RecipeService) Invalidate(ctx context.Context) {
	if _, err := s.cache.Increment(ctx, generationKey); err != nil {
		s.logger.Warn("Failed to invalidate recipe cache", zap.Error(err))
	}
}

func (s *RecipeService) cacheKey(ctx context.Context, kind, param string) string {
	generation := "0"
	if raw, err := s.cache.Get(ctx, generationKey); err == nil {
		if n, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
			generation = strconv.FormatInt(n, 10)
		}
	}
	return fmt.Sprintf("recipes:v%s:%s:%s", generation, kind, param)
}

func (s *RecipeService) getCached(ctx context.Context, key string, dest interface{}) bool {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !stderrors.Is(err, outbound.ErrCacheMiss) {
			s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("Discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *RecipeService) setCached(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *RecipeService) toDTOs(ctx context.Context, recipes []*recipe.Recipe) []inbound.RecipeDTO {
	dtos := make([]inbound.RecipeDTO, 0, len(recipes))
	for _, r := range recipes {
		dtos = append(dtos, s.toDTO(ctx, r))
	}
	return dtos
}

func (s *RecipeService) toDTO(ctx context.Context, r *recipe.Recipe) inbound.RecipeDTO {
	return ToDTO(r, s.images.ResolveImageURL(ctx, r.ImageURL()))
}

// ToDTO converts a recipe entity with an already resolved image URL
func ToDTO(r *recipe.Recipe, imageURL string) inbound.RecipeDTO {
	ingredients := r.Ingredients()
	if ingredients == nil {
		ingredients = []string{}
	}
	instructions := r.Instructions()
	if instructions == nil {
		instructions = []string{}
	}

	return inbound.RecipeDTO{
		ID:           r.ID(),
		Title:        r.Title(),
		Description:  r.Description(),
		ImageURL:     imageURL,
		Cuisine:      r.Cuisine(),
		PrepTime:     r.PrepTime(),
		CookTime:     r.CookTime(),
		Servings:     r.Servings(),
		Calories:     r.Calories(),
		Difficulty:   string(r.Difficulty()),
		Ingredients:  ingredients,
		Instructions: instructions,
		Rating:       r.Rating(),
		RatingCount:  r.RatingCount(),
		IsPopular:    r.IsPopular(),
		CreatedAt:    r.CreatedAt(),
	}
}

// Summary builds the projection joined onto bookings and favorites
func Summary(r *recipe.Recipe, imageURL string, withDetails bool) *inbound.RecipeSummaryDTO {
	summary := &inbound.RecipeSummaryDTO{
		ID:       r.ID(),
		Title:    r.Title(),
		ImageURL: imageURL,
		PrepTime: r.PrepTime(),
		CookTime: r.CookTime(),
	}
	if withDetails {
		summary.Servings = r.Servings()
		summary.Rating = r.Rating()
		summary.Cuisine = r.Cuisine()
	}
	return summary
}

// Verify interface compliance
var _ inbound.RecipeService = (*RecipeService)(nil)
