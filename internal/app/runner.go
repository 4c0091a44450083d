package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"
	"golang.org/x/sync/errgroup"

	"poslito/internal/logx"
)

// pprofServer wraps the debug listener so dig can tell it apart from the API
// server.
type pprofServer struct {
	srv *http.Server
}

// MustRun starts the API and debug servers using the provided DI container
func MustRun(container *dig.Container) {
	if err := run(container); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			log.Println("shutdown requested, exiting")
			return
		case errors.Is(err, context.DeadlineExceeded):
			log.Println("startup aborted: startup timeout exceeded")
			return
		default:
			log.Fatalf("run error: %v", err)
		}
	}
}

func run(container *dig.Container) error {
	return container.Invoke(func(
		ctx context.Context,
		server *http.Server,
		debug *pprofServer,
		pool *pgxpool.Pool,
		cache *redis.Client,
		logger logx.Logger,
	) error {
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			logger.Info("poslito api listening", logx.String("addr", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			if err := debug.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info("shutting down poslito api")
			gracefulShutdown(server, logger, 15*time.Second)
			gracefulShutdown(debug.srv, logger, time.Second)
			return gctx.Err()
		})

		err := g.Wait()
		closeResources(pool, cache, logger)
		return err
	})
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(pool *pgxpool.Pool, cache *redis.Client, logger logx.Logger) {
	if cache != nil {
		if err := cache.Close(); err != nil {
			logger.Warn("redis close error", logx.Err(err))
		}
	}
	if pool != nil {
		pool.Close()
	}
	_ = logger.Sync()
}
