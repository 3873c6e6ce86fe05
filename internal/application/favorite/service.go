// Package favorite provides the application layer for saved recipes
package favorite

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	recipeapp "github.com/savorly/savorly/internal/application/recipe"
	"github.com/savorly/savorly/internal/domain/favorite"
	"github.com/savorly/savorly/internal/domain/recipe"
	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/internal/ports/outbound"
	"github.com/savorly/savorly/pkg/errors"
	"go.uber.org/zap"
)

// FavoriteService implements the favorite use cases
type FavoriteService struct {
	favoriteRepo outbound.FavoriteRepository
	recipeRepo   outbound.RecipeRepository
	images       outbound.ImageResolver
	events       outbound.EventPublisher
	logger       *zap.Logger
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(
	favoriteRepo outbound.FavoriteRepository,
	recipeRepo outbound.RecipeRepository,
	images outbound.ImageResolver,
	events outbound.EventPublisher,
	logger *zap.Logger,
) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		recipeRepo:   recipeRepo,
		images:       images,
		events:       events,
		logger:       logger.Named("favorite-service"),
	}
}

// ListFavorites returns the user's favorites, newest first
func (s *FavoriteService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]inbound.FavoriteDTO, error) {
	favorites, err := s.favoriteRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("list favorites", err)
	}

	ids := make([]uuid.UUID, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.RecipeID())
	}
	byID := make(map[uuid.UUID]*recipe.Recipe, len(ids))
	if len(ids) > 0 {
		recipes, err := s.recipeRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, errors.NewDatabaseError("find favorite recipes", err)
		}
		for _, r := range recipes {
			byID[r.ID()] = r
		}
	}

	dtos := make([]inbound.FavoriteDTO, 0, len(favorites))
	for _, f := range favorites {
		dto := inbound.FavoriteDTO{
			ID:        f.ID(),
			UserID:    f.UserID(),
			RecipeID:  f.RecipeID(),
			CreatedAt: f.CreatedAt(),
		}
		if r, ok := byID[f.RecipeID()]; ok {
			dto.Recipe = recipeapp.Summary(r, s.images.ResolveImageURL(ctx, r.ImageURL()), true)
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}

// AddFavorite saves a recipe for the user. Adding an existing favorite succeeds.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*inbound.FavoriteStateDTO, error) {
	if _, err := s.recipeRepo.FindByID(ctx, recipeID); err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewRecipeNotFoundError(recipeID.String())
		}
		return nil, errors.NewDatabaseError("find recipe", err)
	}

	f, err := favorite.NewFavorite(userID, recipeID)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	created, err := s.favoriteRepo.Add(ctx, f)
	if err != nil {
		return nil, errors.NewDatabaseError("add favorite", err)
	}
	if created {
		s.events.Publish(ctx, f.Events()...)
		s.logger.Info("Favorite added",
			zap.String("user_id", userID.String()),
			zap.String("recipe_id", recipeID.String()),
		)
	}

	return &inbound.FavoriteStateDTO{RecipeID: recipeID, Favorite: true}, nil
}

// RemoveFavorite removes a saved recipe. Removing a missing favorite succeeds.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*inbound.FavoriteStateDTO, error) {
	removed, err := s.favoriteRepo.Remove(ctx, userID, recipeID)
	if err != nil {
		return nil, errors.NewDatabaseError("remove favorite", err)
	}
	if removed {
		s.events.Publish(ctx, favorite.FavoriteRemovedEvent{
			UserID:    userID,
			RecipeID:  recipeID,
			RemovedAt: time.Now().UTC(),
		})
		s.logger.Info("Favorite removed",
			zap.String("user_id", userID.String()),
			zap.String("recipe_id", recipeID.String()),
		)
	}

	return &inbound.FavoriteStateDTO{RecipeID: recipeID, Favorite: false}, nil
}

var _ inbound.FavoriteService = (*FavoriteService)(nil)
