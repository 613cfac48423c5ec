// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"
	"os"
	"time"

	appingredient "github.com/alchemorsel/pantry/internal/application/ingredient"
	apprecipe "github.com/alchemorsel/pantry/internal/application/recipe"
	"github.com/alchemorsel/pantry/internal/application/suggestion"
	"github.com/alchemorsel/pantry/internal/infrastructure/ai"
	"github.com/alchemorsel/pantry/internal/infrastructure/cache"
	"github.com/alchemorsel/pantry/internal/infrastructure/config"
	"github.com/alchemorsel/pantry/internal/infrastructure/http/apiserver"
	"github.com/alchemorsel/pantry/internal/infrastructure/monitoring"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/blob"
	gormrepo "github.com/alchemorsel/pantry/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/postgres"
	redisrepo "github.com/alchemorsel/pantry/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/pantry/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/pantry/internal/ports/inbound"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
	"github.com/alchemorsel/pantry/pkg/healthcheck"
	"github.com/alchemorsel/pantry/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	DatabaseModule,
	RecipeStoreModule,
	CacheModule,
	CompletionModule,
	ServiceModule,
	HTTPModule,
	fx.Invoke(RegisterHealthChecks, RegisterLifecycleHooks),
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load(os.Getenv("PANTRY_CONFIG"))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MonitoringModule provides metrics, tracing and the health registry
var MonitoringModule = fx.Provide(
	func(log *zap.Logger) *monitoring.MetricsCollector {
		return monitoring.NewMetricsCollector(prometheus.NewRegistry(), log)
	},
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		tp, err := monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			Insecure:       cfg.Monitoring.OTLPInsecure,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: tp.Shutdown})
		return tp, nil
	},
	func(cfg *config.Config, log *zap.Logger) *healthcheck.HealthCheck {
		return healthcheck.New(cfg.App.Version, log)
	},
)

// DatabaseModule provides the ingredient repository for the configured driver
var DatabaseModule = fx.Provide(NewIngredientRepository)

// NewIngredientRepository opens the configured database and returns the
// repository together with its health checker
func NewIngredientRepository(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (outbound.IngredientRepository, *healthcheck.DatabaseChecker, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.SetupDatabase(cfg.Database.SQLitePath, gormrepo.NewLogger(log, cfg.App.LogLevel))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}})

		log.Info("Connected to SQLite database", zap.String("path", cfg.Database.SQLitePath))
		return gormrepo.NewIngredientRepository(db),
			healthcheck.NewDatabaseChecker(gormrepo.Ping(db), gormrepo.PoolStats(db)), nil

	case "postgres":
		if err := migrate(cfg, log); err != nil {
			return nil, nil, err
		}
		cm, err := postgres.NewConnectionManager(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { return cm.Close() }})

		return gormrepo.NewIngredientRepository(cm.DB()),
			healthcheck.NewDatabaseChecker(cm.HealthCheck, gormrepo.PoolStats(cm.DB())), nil

	case "pgx":
		if err := migrate(cfg, log); err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(context.Background(), cfg)
		if err != nil {
			return nil, nil, err
		}
		lc.Append(fx.Hook{OnStop: func(ctx context.Context) error {
			pool.Close()
			return nil
		}})

		log.Info("Connected to PostgreSQL via pgx pool", zap.String("host", cfg.Database.Host))
		return postgres.NewIngredientRepository(pool),
			healthcheck.NewDatabaseChecker(pool.Ping, postgres.PoolStats(pool)), nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func migrate(cfg *config.Config, log *zap.Logger) error {
	if !cfg.Database.AutoMigrate {
		return nil
	}

	db, err := migrations.Open(cfg.GetDSN())
	if err != nil {
		return err
	}
	m, err := migrations.New(db, cfg.Database.Database, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer m.Close()

	return m.Up()
}

// RecipeStoreModule provides the recipe blob store
var RecipeStoreModule = fx.Provide(NewRecipeStore)

// NewRecipeStore builds the configured blob backend wrapped with metrics.
// The file backend is watched for external edits when enabled.
func NewRecipeStore(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector) (outbound.RecipeBlobStore, error) {
	switch cfg.Recipes.Backend {
	case "s3":
		store, err := blob.NewS3Store(blob.S3Config{
			Region:          cfg.AWS.Region,
			Endpoint:        cfg.AWS.Endpoint,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			SessionToken:    cfg.AWS.SessionToken,
			Bucket:          cfg.AWS.S3Bucket,
			Key:             cfg.Recipes.S3Key,
			PathStyle:       cfg.AWS.S3PathStyle,
		}, log)
		if err != nil {
			return nil, err
		}
		return blob.Instrument(store, metrics, "s3"), nil

	default:
		store := blob.NewFileStore(cfg.Recipes.Path, os.FileMode(cfg.Recipes.FileMode), log)
		if cfg.Recipes.Watch {
			watcher, err := blob.NewWatcher(store, nil, log)
			if err != nil {
				return nil, err
			}
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error { return watcher.Start() },
				OnStop:  func(ctx context.Context) error { return watcher.Stop() },
			})
		}
		return blob.Instrument(store, metrics, "file"), nil
	}
}

// CacheModule provides the optional suggestion cache
var CacheModule = fx.Provide(NewSuggestionCache)

// SuggestionCache is the result of NewSuggestionCache. Repo is nil when
// caching is disabled; Redis is nil unless a Redis tier is configured.
type SuggestionCache struct {
	fx.Out

	Repo  outbound.CacheRepository
	Redis redis.UniversalClient
}

// NewSuggestionCache builds an in-memory cache, tiered over Redis when
// redis.enabled is set
func NewSuggestionCache(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector) (SuggestionCache, error) {
	if !cfg.AI.EnableCache {
		return SuggestionCache{}, nil
	}

	local := memory.NewCacheRepository(time.Minute)
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { return local.Close() }})

	if !cfg.Redis.Enabled {
		return SuggestionCache{Repo: cache.Instrument(local, metrics)}, nil
	}

	client, err := redisrepo.NewClient(context.Background(), cfg.Redis)
	if err != nil {
		return SuggestionCache{}, err
	}
	lc.Append(fx.Hook{OnStop: func(ctx context.Context) error { return client.Close() }})

	remote := redisrepo.NewCacheRepository(client, cfg.App.Name, log)
	tiered := cache.NewTieredCache(local, remote, time.Minute, log)
	return SuggestionCache{Repo: cache.Instrument(tiered, metrics), Redis: client}, nil
}

// CompletionModule provides the text-completion client
var CompletionModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector) (outbound.CompletionClient, error) {
		client, err := ai.NewCompletionClient(cfg.AI, log)
		if err != nil {
			return nil, err
		}
		return ai.Instrument(client, metrics), nil
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	appingredient.NewIngredientService,
	apprecipe.NewRecipeService,
	func(
		cfg *config.Config,
		ingredients inbound.IngredientService,
		recipes inbound.RecipeService,
		client outbound.CompletionClient,
		suggestionCache outbound.CacheRepository,
		tracing *monitoring.TracingProvider,
		log *zap.Logger,
	) inbound.SuggestionService {
		return suggestion.NewSuggestionService(ingredients, recipes, client, suggestion.Options{
			Cache:    suggestionCache,
			CacheTTL: cfg.AI.CacheTTL,
			Tracer:   tracing.Tracer(),
		}, log)
	},
)

// HTTPModule provides the API and admin servers
var HTTPModule = fx.Provide(
	func(
		cfg *config.Config,
		log *zap.Logger,
		metrics *monitoring.MetricsCollector,
		tracing *monitoring.TracingProvider,
		ingredients inbound.IngredientService,
		recipes inbound.RecipeService,
		suggestions inbound.SuggestionService,
	) *apiserver.APIServer {
		return apiserver.NewAPIServer(cfg, log, metrics, tracing.TracerProvider(), apiserver.Services{
			Ingredients: ingredients,
			Recipes:     recipes,
			Suggestions: suggestions,
		})
	},
	apiserver.NewAdminServer,
)

// HealthDeps are the checkers registered on the readiness probe
type HealthDeps struct {
	fx.In

	Health   *healthcheck.HealthCheck
	Config   *config.Config
	Database *healthcheck.DatabaseChecker
	Store    outbound.RecipeBlobStore
	Redis    redis.UniversalClient
}

// RegisterHealthChecks wires every dependency into the readiness probe
func RegisterHealthChecks(deps HealthDeps) {
	deps.Health.Register("database", deps.Database)
	deps.Health.Register("recipe_store", healthcheck.NewRecipeStoreChecker(deps.Store))
	if deps.Redis != nil {
		deps.Health.Register("cache", healthcheck.NewRedisChecker(deps.Redis))
	}
	if deps.Config.AI.Provider == "ollama" {
		deps.Health.Register("ollama", healthcheck.NewUpstreamChecker(
			deps.Config.AI.OllamaHost+"/api/tags", 5*time.Second))
	}
}

// RegisterLifecycleHooks starts both servers and stops them gracefully
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	api *apiserver.APIServer,
	admin *apiserver.AdminServer,
) {
	serve := func(name string, start func() error) {
		go func() {
			if err := start(); err != nil {
				log.Error("Server stopped unexpectedly", zap.String("server", name), zap.Error(err))
				_ = shutdowner.Shutdown()
			}
		}()
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting pantry service",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database_driver", cfg.Database.Driver),
				zap.String("recipe_backend", cfg.Recipes.Backend),
				zap.String("ai_provider", cfg.AI.Provider),
			)
			serve("api", api.Start)
			serve("admin", admin.Start)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down pantry service")

			if err := api.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown API server", zap.Error(err))
			}
			if err := admin.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown admin server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
