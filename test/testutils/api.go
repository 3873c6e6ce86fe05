package testutils

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/savorly/savorly/internal/application/booking"
	"github.com/savorly/savorly/internal/application/favorite"
	"github.com/savorly/savorly/internal/application/recipe"
	"github.com/savorly/savorly/internal/application/user"
	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/savorly/savorly/internal/infrastructure/events"
	"github.com/savorly/savorly/internal/infrastructure/http/apiserver"
	"github.com/savorly/savorly/internal/infrastructure/http/handlers"
	"github.com/savorly/savorly/internal/infrastructure/http/middleware"
	gormrepo "github.com/savorly/savorly/internal/infrastructure/persistence/gorm"
	"github.com/savorly/savorly/internal/infrastructure/persistence/memory"
	"github.com/savorly/savorly/internal/infrastructure/persistence/sqlite"
	"github.com/savorly/savorly/internal/infrastructure/security"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// TestAPI is a running API server over a seeded database
type TestAPI struct {
	Server *httptest.Server
	DB     *gorm.DB
	Auth   *security.AuthService
	Config *config.Config
}

// URL returns the server's base URL
func (a *TestAPI) URL() string {
	return a.Server.URL
}

// StartTestAPI wires the full API stack over a seeded in-memory SQLite
// database and serves it until the test ends
func StartTestAPI(t testing.TB, opts ...func(*config.Config)) *TestAPI {
	t.Helper()

	db, err := sqlite.SetupDatabase(":memory:", nil)
	require.NoError(t, err)
	return StartTestAPIWithDB(t, db, opts...)
}

// StartTestAPIWithDB seeds db and serves the API stack on top of it. opts
// adjust the configuration before anything is wired.
func StartTestAPIWithDB(t testing.TB, db *gorm.DB, opts ...func(*config.Config)) *TestAPI {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Server.EnableCompression = false
	for _, opt := range opts {
		opt(cfg)
	}

	log := zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))

	require.NoError(t, sqlite.SeedDatabase(context.Background(), db))

	cache := memory.NewCacheRepository(time.Minute)
	t.Cleanup(func() { _ = cache.Close() })

	auth, err := security.NewAuthService(cfg.Auth, cache, log)
	require.NoError(t, err)

	dispatcher := events.NewDispatcher(nil, log)
	images := PassthroughImages{}
	recipes := gormrepo.NewRecipeRepository(db)

	h := handlers.New(
		recipe.NewRecipeService(recipes, gormrepo.NewRatingRepository(db), cache, images, dispatcher, cfg.Cache.TTL, log),
		booking.NewBookingService(gormrepo.NewBookingRepository(db), recipes, images, dispatcher, log),
		favorite.NewFavoriteService(gormrepo.NewFavoriteRepository(db), recipes, images, dispatcher, log),
		user.NewUserService(gormrepo.NewUserRepository(db), auth, log),
		log,
	)
	srv := apiserver.NewAPIServer(cfg, log, h, middleware.New(cfg, log, nil), nil, auth)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &TestAPI{Server: ts, DB: db, Auth: auth, Config: cfg}
}
