package container

import (
	"context"
	"fmt"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/savorly/savorly/internal/application/booking"
	"github.com/savorly/savorly/internal/application/favorite"
	"github.com/savorly/savorly/internal/application/recipe"
	"github.com/savorly/savorly/internal/application/user"
	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/savorly/savorly/internal/infrastructure/events"
	"github.com/savorly/savorly/internal/infrastructure/http/apiserver"
	"github.com/savorly/savorly/internal/infrastructure/http/handlers"
	"github.com/savorly/savorly/internal/infrastructure/http/middleware"
	"github.com/savorly/savorly/internal/infrastructure/http/opsserver"
	"github.com/savorly/savorly/internal/infrastructure/monitoring"
	gormrepo "github.com/savorly/savorly/internal/infrastructure/persistence/gorm"
	"github.com/savorly/savorly/internal/infrastructure/persistence/memory"
	"github.com/savorly/savorly/internal/infrastructure/persistence/migrations"
	"github.com/savorly/savorly/internal/infrastructure/persistence/postgres"
	"github.com/savorly/savorly/internal/infrastructure/persistence/redis"
	"github.com/savorly/savorly/internal/infrastructure/persistence/sqlite"
	"github.com/savorly/savorly/internal/infrastructure/security"
	"github.com/savorly/savorly/internal/infrastructure/storage"
	"github.com/savorly/savorly/internal/ports/inbound"
	"github.com/savorly/savorly/internal/ports/outbound"
	"github.com/savorly/savorly/pkg/healthcheck"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// APIModule wires the JSON API server and its ops server
func APIModule(configPath string) fx.Option {
	return fx.Options(
		ConfigModule(configPath),
		LoggerModule(os.Stdout),
		TracingModule("savorly-api"),
		MetricsModule,
		DatabaseModule,
		CacheModule,
		RepositoryModule,
		ServiceModule,
		HTTPModule,
		fx.Invoke(RegisterHealthChecks, WatchLogLevel, RegisterAPILifecycle),
	)
}

// MetricsModule provides the Prometheus collector, or nil when metrics are disabled
var MetricsModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *monitoring.MetricsCollector {
		if !cfg.Monitoring.EnableMetrics {
			return nil
		}
		return monitoring.NewMetricsCollector(log)
	},
)

// DatabaseModule provides the gorm connection for the configured driver
var DatabaseModule = fx.Provide(NewDatabase)

// NewDatabase opens SQLite or PostgreSQL, applies the schema and seeds the
// recipe catalogue when it is empty
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector) (*gorm.DB, error) {
	dbCfg := cfg.Database
	var db *gorm.DB

	switch dbCfg.Driver {
	case "postgres":
		if dbCfg.AutoMigrate {
			if err := migrations.Apply(cfg.GetDSN(), dbCfg.Database, log); err != nil {
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		cm, err := postgres.NewConnectionManager(cfg, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return cm.Close() }})
		db = cm.GetDB()
	default:
		var err error
		db, err = sqlite.SetupDatabase(dbCfg.Path, gormrepo.NewLogger(log, dbCfg.LogLevel, dbCfg.SlowQueryThreshold))
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}})
		log.Info("Connected to SQLite database", zap.String("path", dbCfg.Path))
	}

	if dbCfg.Seed {
		if err := sqlite.SeedDatabase(context.Background(), db); err != nil {
			log.Warn("Failed to seed database", zap.Error(err))
		}
	}

	if metrics != nil {
		if sqlDB, err := db.DB(); err == nil {
			metrics.RegisterDB("primary", sqlDB)
		}
	}
	return db, nil
}

// CacheBackend is the server cache and, when Redis backs it, the client
// used for health checks
type CacheBackend struct {
	Repository outbound.CacheRepository
	Redis      goredis.UniversalClient
}

// CacheModule provides the server cache selected by cache.driver
var CacheModule = fx.Provide(
	NewCacheBackend,
	func(b CacheBackend) outbound.CacheRepository { return b.Repository },
)

// NewCacheBackend connects the configured cache and instruments it
func NewCacheBackend(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector) (CacheBackend, error) {
	if cfg.Cache.Driver == "redis" {
		client, err := redis.NewClient(context.Background(), cfg.Redis, log)
		if err != nil {
			return CacheBackend{}, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return client.Close() }})
		return CacheBackend{
			Repository: monitoring.InstrumentCache(redis.NewCacheRepository(client, "savorly", log), metrics),
			Redis:      client,
		}, nil
	}

	log.Info("Using in-memory cache")
	cache := memory.NewCacheRepository(time.Minute)
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return cache.Close() }})
	return CacheBackend{Repository: monitoring.InstrumentCache(cache, metrics)}, nil
}

// RepositoryModule provides the gorm repositories
var RepositoryModule = fx.Provide(
	fx.Annotate(gormrepo.NewRecipeRepository, fx.As(new(outbound.RecipeRepository))),
	fx.Annotate(gormrepo.NewRatingRepository, fx.As(new(outbound.RatingRepository))),
	fx.Annotate(gormrepo.NewBookingRepository, fx.As(new(outbound.BookingRepository))),
	fx.Annotate(gormrepo.NewFavoriteRepository, fx.As(new(outbound.FavoriteRepository))),
	fx.Annotate(gormrepo.NewUserRepository, fx.As(new(outbound.UserRepository))),
)

// ServiceModule provides the application services and what they publish to
var ServiceModule = fx.Provide(
	NewEventDispatcher,
	func(d *events.Dispatcher) outbound.EventPublisher { return d },
	storage.NewImageResolver,
	func(cfg *config.Config, cache outbound.CacheRepository, log *zap.Logger) (*security.AuthService, error) {
		return security.NewAuthService(cfg.Auth, cache, log)
	},
	func(a *security.AuthService) outbound.TokenService { return a },

	func(
		recipes outbound.RecipeRepository,
		ratings outbound.RatingRepository,
		cache outbound.CacheRepository,
		images outbound.ImageResolver,
		publisher outbound.EventPublisher,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.RecipeService {
		return recipe.NewRecipeService(recipes, ratings, cache, images, publisher, cfg.Cache.TTL, log)
	},
	fx.Annotate(booking.NewBookingService, fx.As(new(inbound.BookingService))),
	fx.Annotate(favorite.NewFavoriteService, fx.As(new(inbound.FavoriteService))),
	fx.Annotate(user.NewUserService, fx.As(new(inbound.UserService))),
)

// NewEventDispatcher creates the dispatcher with the audit handlers attached
func NewEventDispatcher(metrics *monitoring.MetricsCollector, log *zap.Logger) *events.Dispatcher {
	var counter events.Counter
	if metrics != nil {
		counter = metrics
	}
	d := events.NewDispatcher(counter, log)
	events.RegisterAuditHandlers(d, log)
	return d
}

// HTTPModule provides the API server, the ops server and their middleware
var HTTPModule = fx.Provide(
	handlers.New,
	middleware.New,
	NewRateLimiter,
	apiserver.NewAPIServer,
	func(cfg *config.Config, log *zap.Logger) *healthcheck.HealthCheck {
		return healthcheck.New(cfg.App.Version, log)
	},
	opsserver.New,
)

// NewRateLimiter returns nil when rate limiting is disabled
func NewRateLimiter(cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector) *middleware.RateLimiter {
	if !cfg.RateLimit.Enable {
		return nil
	}
	var onReject func()
	if metrics != nil {
		onReject = metrics.RecordRateLimited
	}
	return middleware.NewRateLimiter(cfg.RateLimit, onReject, log)
}

// RegisterHealthChecks registers the database and, when used, Redis
func RegisterHealthChecks(health *healthcheck.HealthCheck, db *gorm.DB, cache CacheBackend) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	health.Register("database", healthcheck.NewDatabaseChecker(sqlDB))
	if cache.Redis != nil {
		health.Register("redis", healthcheck.NewRedisChecker(cache.Redis))
	}
	return nil
}

// RegisterAPILifecycle starts both servers and shuts them down in order
func RegisterAPILifecycle(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	api *apiserver.APIServer,
	ops *opsserver.Server,
) {
	serve := func(name string, start func() error) {
		go func() {
			if err := start(); err != nil {
				log.Error("Server stopped unexpectedly", zap.String("server", name), zap.Error(err))
				_ = shutdowner.Shutdown(fx.ExitCode(1))
			}
		}()
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("Starting Savorly API",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database", cfg.Database.Driver),
				zap.String("cache", cfg.Cache.Driver),
			)
			serve("api", api.Start)
			serve("ops", ops.Start)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Savorly API")
			if err := api.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown API server", zap.Error(err))
			}
			if err := ops.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown ops server", zap.Error(err))
			}
			_ = log.Sync()
			return nil
		},
	})
}
