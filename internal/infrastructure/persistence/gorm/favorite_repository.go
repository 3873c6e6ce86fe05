package gorm

import (
	"context"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/domain/favorite"
	"github.com/savorly/savorly/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository implements the favorite repository interface using GORM
type FavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add inserts the favorite unless the user already saved the recipe.
// It reports whether a row was created.
func (r *FavoriteRepository) Add(ctx context.Context, f *favorite.Favorite) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
			DoNothing: true,
		}).
		Create(FavoriteToModel(f))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Remove deletes the favorite and reports whether one existed
func (r *FavoriteRepository) Remove(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&FavoriteModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindByUser lists a user's favorites, newest first
func (r *FavoriteRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*favorite.Favorite, error) {
	var models []FavoriteModel

	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	favorites := make([]*favorite.Favorite, len(models))
	for i := range models {
		favorites[i] = ModelToFavorite(&models[i])
	}
	return favorites, nil
}

var _ outbound.FavoriteRepository = (*FavoriteRepository)(nil)
