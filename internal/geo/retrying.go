package geo

import (
	"context"
	"errors"
	"time"

	"poslito/internal/apperr"
	"poslito/internal/domain"
	"poslito/internal/logx"
)

type counter interface {
	Inc()
}

// RetryConfig describes the retry behaviour of RetryingProvider.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingProvider decorates a DistanceProvider with bounded retries on
// transient upstream failures. Invalid-place errors are never retried.
type RetryingProvider struct {
	next    DistanceProvider
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingProvider wraps next with retry behaviour. Returns nil if next is nil.
func NewRetryingProvider(next DistanceProvider, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingProvider {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &RetryingProvider{next: next, logger: logger, retries: retries, cfg: cfg}
}

// DistanceAndDuration retries the wrapped call on transient failures.
func (p *RetryingProvider) DistanceAndDuration(ctx context.Context, originPlaceID, destPlaceID string) (DistanceDuration, error) {
	var out DistanceDuration
	err := p.retry(ctx, "DistanceAndDuration", func() error {
		var err error
		out, err = p.next.DistanceAndDuration(ctx, originPlaceID, destPlaceID)
		return err
	})
	return out, err
}

// DistanceFromPoint retries the wrapped call on transient failures.
func (p *RetryingProvider) DistanceFromPoint(ctx context.Context, point domain.Coordinates, destPlaceID string) (int64, error) {
	var out int64
	err := p.retry(ctx, "DistanceFromPoint", func() error {
		var err error
		out, err = p.next.DistanceFromPoint(ctx, point, destPlaceID)
		return err
	})
	return out, err
}

// Route retries the wrapped call on transient failures.
func (p *RetryingProvider) Route(ctx context.Context, originPlaceID, destPlaceID string) (RoutePath, error) {
	var out RoutePath
	err := p.retry(ctx, "Route", func() error {
		var err error
		out, err = p.next.Route(ctx, originPlaceID, destPlaceID)
		return err
	})
	return out, err
}

func (p *RetryingProvider) retry(ctx context.Context, method string, call func() error) error {
	var lastErr error
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		err := call()
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == p.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(p.cfg.BaseDelay, p.cfg.MaxDelay, attempt)
		if p.retries != nil {
			p.retries.Inc()
		}
		p.logger.Warn("distance provider retry",
			logx.String("method", method),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return lastErr
}

// isRetryable: only transient upstream failures are worth another attempt.
func isRetryable(err error) bool {
	return errors.Is(err, apperr.Unavailable)
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

var _ DistanceProvider = (*RetryingProvider)(nil)
