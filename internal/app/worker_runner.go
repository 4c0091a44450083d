package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/dig"

	"poslito/internal/logx"
	"poslito/internal/transport/kafka"
)

// WorkerRunner runs the notification worker
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun consumes delivery events until the context is cancelled
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(ctx context.Context, logger logx.Logger, consumer *kafka.Consumer) error {
	if consumer == nil {
		return fmt.Errorf("kafka consumer is nil: worker requires KAFKA_BROKERS")
	}
	defer closeWorker(logger, consumer)

	logger.Info("poslito notification worker started")
	return consumer.Run(ctx)
}

func closeWorker(logger logx.Logger, consumer *kafka.Consumer) {
	if err := consumer.Close(); err != nil {
		logger.Error("kafka close error", logx.Err(err))
	}
	_ = logger.Sync()
}
