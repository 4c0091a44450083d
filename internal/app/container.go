package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"poslito/internal/broadcast"
	"poslito/internal/config"
	"poslito/internal/gateway/accounts"
	"poslito/internal/geo"
	"poslito/internal/http/handlers"
	"poslito/internal/http/middleware/ratelimit"
	"poslito/internal/http/pprofserver"
	"poslito/internal/http/router"
	"poslito/internal/logx"
	"poslito/internal/matching"
	"poslito/internal/notify"
	"poslito/internal/repository"
	"poslito/internal/service/courier"
	"poslito/internal/service/delivery"
)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error)
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(
	fn func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds and returns the API service container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds and returns the notification worker container
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds and returns the API service container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds and returns the notification worker container
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		config.Load,
		NewLogger,
		NewMetrics,
	)
}

func registerDb(
	container *dig.Container,
	dbConnect func(context.Context, string, int, time.Duration) (*pgxpool.Pool, error),
) error {
	providerDB := func(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
		pool, err := dbConnect(ctx, cfg.DB.DSN(), 10, time.Second)
		if err != nil {
			return nil, err
		}
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return pool, nil
	}
	return provideAll(container, providerDB, connectRedis)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewCourierRepo,
		repository.NewDeliveryRepo,
		repository.NewRouteRepo,
		func(client *redis.Client, cfg *config.Config) *repository.PositionStore {
			return repository.NewPositionStore(client, cfg.Redis.PositionTTL)
		},
		newDistanceProvider,
		newPublisher,
		func(provider geo.DistanceProvider, cfg *config.Config, logger logx.Logger, m *Metrics) *matching.Engine {
			return matching.NewEngine(provider, 3*time.Second, cfg.Matching.Limit, logger, m.MatchingDegraded)
		},
		func(
			repo *repository.DeliveryRepo,
			routes *repository.RouteRepo,
			provider geo.DistanceProvider,
			publisher notify.Publisher,
			logger logx.Logger,
			m *Metrics,
		) *delivery.Service {
			return delivery.NewService(repo, routes, provider, publisher, 5*time.Second, logger, m.Transitions, m.Conflicts)
		},
		func(
			repo *repository.CourierRepo,
			deliveries *repository.DeliveryRepo,
			positions *repository.PositionStore,
			engine *matching.Engine,
			logger logx.Logger,
		) *courier.Service {
			return courier.NewService(repo, deliveries, positions, engine, 3*time.Second, logger)
		},
		func(cfg *config.Config, couriers *repository.CourierRepo) *accounts.Gateway {
			return accounts.NewGateway([]byte(cfg.Auth.JWTSecret), couriers)
		},
	)
}

func newDistanceProvider(cfg *config.Config, logger logx.Logger, m *Metrics) (geo.DistanceProvider, error) {
	var base geo.DistanceProvider = geo.Disabled{}
	if cfg.Maps.APIKey != "" {
		google, err := geo.NewGoogleProvider(cfg.Maps.APIKey, 5*time.Second)
		if err != nil {
			return nil, err
		}
		base = google
	} else {
		logger.Warn("distance provider disabled: no maps api key configured")
	}
	return geo.NewRetryingProvider(base, logger, m.ProviderRetries, geo.RetryConfig{
		MaxAttempts: 4,
		BaseDelay:   150 * time.Millisecond,
		MaxDelay:    200 * time.Millisecond,
	}), nil
}

func newPublisher(cfg *config.Config, logger logx.Logger) (notify.Publisher, error) {
	kp, err := notify.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	if err != nil {
		return nil, err
	}
	if kp == nil {
		logger.Warn("event publishing disabled: no kafka brokers configured")
		return notify.Nop{}, nil
	}
	return kp, nil
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	routerProvider := func(
		logger logx.Logger,
		base *handlers.Handlers,
		deliveries *handlers.DeliveryHandler,
		couriers *handlers.CourierHandler,
		routes *handlers.RouteHandler,
		ws *broadcast.Handler,
		gateway *accounts.Gateway,
		limiter *ratelimit.Middleware,
	) http.Handler {
		return router.New(router.Deps{
			Logger:       logger,
			Base:         base,
			Deliveries:   deliveries,
			Couriers:     couriers,
			Routes:       routes,
			Broadcast:    ws,
			Resolver:     gateway,
			MatchLimiter: limiter.Handler(),
		})
	}
	broadcastProvider := func(
		deliveries *repository.DeliveryRepo,
		positions *repository.PositionStore,
		gateway *accounts.Gateway,
		logger logx.Logger,
		m *Metrics,
	) *broadcast.Handler {
		return broadcast.NewHandler(broadcast.NewHub(), deliveries, positions, gateway, logger, m.BroadcastMessages)
	}
	pprofProvider := func(cfg *config.Config) *pprofServer {
		return &pprofServer{
			srv: &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Pprof.Port),
				Handler:           pprofserver.Handler(pprofserver.Config{User: cfg.Pprof.User, Pass: cfg.Pprof.Pass}),
				ReadHeaderTimeout: 5 * time.Second,
			},
		}
	}
	return provideAll(container,
		handlers.New,
		handlers.NewDeliveryUsecase,
		handlers.NewDeliveryHandler,
		handlers.NewCourierUsecase,
		handlers.NewCourierHandler,
		handlers.NewRouteHandler,
		broadcastProvider,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		routerProvider,
		serverProvider,
		pprofProvider,
	)
}
