package cleanup

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vaultguard/internal/ratelimit/metrics"
)

// CleanupResult contains the results of a cleanup run.
type CleanupResult struct {
	ClientsEvicted int           // idle clients and expired blocks dropped
	LocksPurged    int           // elapsed account locks dropped
	Duration       time.Duration // time taken for cleanup run
}

// RequestLimiter evicts idle rate limit windows.
type RequestLimiter interface {
	Sweep(ctx context.Context) (int, error)
}

// Lockout drops elapsed account locks.
type Lockout interface {
	Purge(ctx context.Context) (int, error)
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service periodically evicts abuse-control state that no longer affects decisions.
type Service struct {
	limiter  RequestLimiter
	lockout  Lockout
	logger   *slog.Logger
	interval time.Duration
	metrics  *metrics.Metrics
}

func New(limiter RequestLimiter, lockout Lockout, opts ...Option) *Service {
	service := &Service{
		limiter:  limiter,
		lockout:  lockout,
		logger:   slog.Default(),
		interval: time.Minute,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			res, err := s.RunOnce(ctx)
			if err != nil {
				s.logger.Error("ratelimit_cleanup_failed", "error", err)
				continue
			}
			s.logger.Info("ratelimit_cleanup_completed",
				"clients_evicted", res.ClientsEvicted,
				"locks_purged", res.LocksPurged,
				"duration_ms", res.Duration.Milliseconds(),
			)

		case <-ctx.Done():
			s.logger.Info("ratelimit cleanup worker stopping", "reason", ctx.Err())
			return ctx.Err()
		}
	}
}

// RunOnce executes a single cleanup run. Both sweeps run even if the first fails.
func (s *Service) RunOnce(ctx context.Context) (*CleanupResult, error) {
	start := time.Now()
	res := &CleanupResult{}

	var errs []error
	if s.limiter != nil {
		evicted, err := s.limiter.Sweep(ctx)
		if err != nil {
			errs = append(errs, err)
		}
		res.ClientsEvicted = evicted
	}
	if s.lockout != nil {
		purged, err := s.lockout.Purge(ctx)
		if err != nil {
			errs = append(errs, err)
		}
		res.LocksPurged = purged
	}
	res.Duration = time.Since(start)

	err := errors.Join(errs...)
	if s.metrics != nil {
		status := "success"
		if err != nil {
			status = "error"
		}
		s.metrics.IncrementCleanupRuns(status)
		s.metrics.ObserveCleanupDuration(res.Duration.Seconds())
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}
