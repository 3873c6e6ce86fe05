package planner

import (
	"context"

	"github.com/google/uuid"
	"github.com/savorly/savorly/internal/application/querycache"
	"github.com/savorly/savorly/internal/application/session"
	"github.com/savorly/savorly/internal/ports/inbound"
)

// Favorites reads and toggles the signed-in user's saved recipes
type Favorites struct {
	base
	toggle mutation
}

// List returns the user's favorites, or none without a session
func (f *Favorites) List(ctx context.Context, sess session.Session) ([]inbound.FavoriteDTO, error) {
	favorites, _, err := f.ListEntry(ctx, sess)
	return favorites, err
}

// ListEntry is List plus the cache entry the result came from. The entry's
// revision changes only when a new result was loaded.
func (f *Favorites) ListEntry(ctx context.Context, sess session.Session) ([]inbound.FavoriteDTO, querycache.Entry, error) {
	if !sess.IsAuthenticated() {
		return []inbound.FavoriteDTO{}, querycache.Entry{}, nil
	}
	key := querycache.Key{Operation: OpFavorites, Params: sess.UserID.String()}
	return querycache.Get(ctx, f.cache, key, func(ctx context.Context) ([]inbound.FavoriteDTO, error) {
		return f.data.ListFavorites(ctx, sess.AccessToken)
	})
}

// Toggle removes the recipe when isFavorite is true and adds it otherwise.
// The notification follows the membership the service reports afterwards.
func (f *Favorites) Toggle(ctx context.Context, sess session.Session, recipeID uuid.UUID, isFavorite bool) (bool, error) {
	if !sess.IsAuthenticated() {
		return isFavorite, f.failed(unauthorized(MsgLoginToFavorite))
	}

	result := isFavorite
	err := f.toggle.run(func() error {
		var (
			state *inbound.FavoriteStateDTO
			err   error
		)
		if isFavorite {
			state, err = f.data.RemoveFavorite(ctx, sess.AccessToken, recipeID)
		} else {
			state, err = f.data.AddFavorite(ctx, sess.AccessToken, recipeID)
		}
		if err != nil {
			return f.failed(err)
		}

		result = state.Favorite
		f.cache.Invalidate(OpFavorites)
		if state.Favorite {
			f.success(MsgFavoriteAdded)
		} else {
			f.success(MsgFavoriteRemoved)
		}
		return nil
	})
	return result, err
}

// TogglePending reports whether a favorite change is in flight
func (f *Favorites) TogglePending() bool {
	return f.toggle.Pending()
}
