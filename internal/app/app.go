package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	nethttp "net/http"

	"github.com/sm8ta/webike_review_microservice/internal/adapter/handler/http"
	"github.com/sm8ta/webike_review_microservice/internal/adapter/logger"
	"github.com/sm8ta/webike_review_microservice/internal/adapter/memory"
	"github.com/sm8ta/webike_review_microservice/internal/adapter/postgres"
	"github.com/sm8ta/webike_review_microservice/internal/adapter/prometheus"
	"github.com/sm8ta/webike_review_microservice/internal/adapter/rabbitmq"
	"github.com/sm8ta/webike_review_microservice/internal/adapter/redis"
	"github.com/sm8ta/webike_review_microservice/internal/adapter/textgen"
	"github.com/sm8ta/webike_review_microservice/internal/adapter/token"
	"github.com/sm8ta/webike_review_microservice/internal/config"
	"github.com/sm8ta/webike_review_microservice/internal/core/ports"
	"github.com/sm8ta/webike_review_microservice/internal/core/services"
	"github.com/sm8ta/webike_review_microservice/internal/core/tenant"

	"github.com/go-playground/validator/v10"
	redisClient "github.com/redis/go-redis/v9"
)

type App struct {
	Config      *config.Container
	Logger      ports.LoggerPort
	DB          *sql.DB
	RedisClient *redisClient.Client
	Publisher   *rabbitmq.Publisher
	Registry    *tenant.Registry
	HTTPRouter  *http.Router

	server *nethttp.Server
}

func New(ctx context.Context, cfg *config.Container) (*App, error) {
	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app":   cfg.App.Name,
		"env":   cfg.App.Env,
		"store": cfg.Store.Backend,
	})

	a := &App{
		Config: cfg,
		Logger: loggerAdapter,
	}

	// Record stores
	stores, err := a.openStores(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	// Set cache
	cache, redisConn, err := NewCache(ctx, cfg)
	if err != nil {
		a.close()
		return nil, err
	}
	a.RedisClient = redisConn

	// Notifications
	var notifier ports.Notifier = memory.NewNotifier(loggerAdapter)
	if cfg.AMQP.URL != "" {
		publisher, err := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, loggerAdapter)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		a.Publisher = publisher
		notifier = publisher
	}

	// Text generation
	var generator ports.TextGenerator
	if cfg.AI.Enabled() {
		generator = textgen.NewClient(cfg.AI.URL, cfg.AI.APIKey, cfg.AI.Model, textgen.Parameters{
			MaxLength:         cfg.AI.MaxLength,
			NumBeams:          cfg.AI.NumBeams,
			NoRepeatNgramSize: cfg.AI.NoRepeatNgramSize,
			EarlyStopping:     true,
		}, cfg.AI.Timeout, loggerAdapter)
	}

	// Observability
	metrics := prometheus.NewPrometheusAdapter()

	registry := tenant.NewRegistry(tenant.Deps{
		Stores:    stores,
		Tokens:    token.NewJWTTokenService(cfg.Token.Secret, cfg.Token.Duration, loggerAdapter),
		Notifier:  notifier,
		Cache:     cache,
		Generator: generator,
		Logger:    loggerAdapter,
		Validate:  validator.New(),
		AuthOptions: []services.AuthOption{
			services.WithAdminEmails(cfg.App.AdminEmails),
		},
	})

	// Init HTTP router
	router, err := http.NewRouter(cfg.HTTP, cfg.Tenant, registry, loggerAdapter, metrics)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}

	a.Registry = registry
	a.HTTPRouter = router
	a.server = &nethttp.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: router.Engine(),
	}
	return a, nil
}

// NewStoreFactory returns the per-tenant store constructor for the
// configured backend. Used by the server and the maintenance commands.
func NewStoreFactory(ctx context.Context, cfg *config.Container, logger ports.LoggerPort) (tenant.StoreFactory, *sql.DB, error) {
	if cfg.Store.Backend != config.StorePostgres {
		return func(ctx context.Context, tenantID string) (ports.RecordStore, error) {
			return memory.NewStore(), nil
		}, nil, nil
	}

	// Connect DB
	db, err := sql.Open("postgres", cfg.DB.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Migrate DB
	if err := postgres.Migrate(db, cfg.DB.Migrations); err != nil {
		db.Close()
		return nil, nil, err
	}
	logger.Info("Database migrated", map[string]interface{}{
		"dir": cfg.DB.Migrations,
	})

	return func(ctx context.Context, tenantID string) (ports.RecordStore, error) {
		return postgres.NewDocumentRepository(db, tenantID), nil
	}, db, nil
}

// NewCache returns the redis cache when an address is configured and the
// in-process one otherwise. The client is nil for the in-process cache.
func NewCache(ctx context.Context, cfg *config.Container) (ports.CachePort, *redisClient.Client, error) {
	if cfg.Redis.Address == "" {
		return memory.NewCache(), nil, nil
	}

	redisConn := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisConn.Ping(ctx).Result(); err != nil {
		redisConn.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return redis.NewRedisAdapter(redisConn), redisConn, nil
}

func (a *App) openStores(ctx context.Context) (tenant.StoreFactory, error) {
	stores, db, err := NewStoreFactory(ctx, a.Config, a.Logger)
	if err != nil {
		return nil, err
	}
	a.DB = db
	return stores, nil
}

// Run starts the HTTP server in the background.
func (a *App) Run() {
	a.Logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": a.server.Addr,
	})

	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			a.Logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()
}

// Stop drains the HTTP server and closes every connection.
func (a *App) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down gracefully...", nil)

	var shutdownErr error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			a.Logger.Error("HTTP server shutdown error", map[string]interface{}{
				"error": err.Error(),
			})
			shutdownErr = err
		}
	}

	a.close()

	a.Logger.Info("Application stopped successfully", nil)
	return shutdownErr
}

func (a *App) close() {
	// Close database
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error("Database close error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Close Redis
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Logger.Error("Redis close error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Close RabbitMQ
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			a.Logger.Error("RabbitMQ close error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}
