// Package requestlimit is the per-client sliding window rate limiter.
//
// Each client (fingerprint of source address and User-Agent) gets one sliding window
// per normalized endpoint. When a window is full the request is throttled and the client
// is blocked on every endpoint for the policy's block duration.
//
// Usage:
//
//	svc, _ := requestlimit.New(window.NewInMemoryStore())
//	result, _ := svc.CheckRequest(ctx, remoteAddr, userAgent, r.URL.Path)
//	if !result.Allowed {
//	    // 429 with Retry-After: result.RetryAfter
//	}
package requestlimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"vaultguard/internal/ratelimit/config"
	"vaultguard/internal/ratelimit/metrics"
	"vaultguard/internal/ratelimit/models"
	dErrors "vaultguard/pkg/domain-errors"
	"vaultguard/pkg/platform/audit"
	"vaultguard/pkg/platform/middleware/requesttime"
)

// WindowStore holds sliding windows and block entries. Check must evaluate and record
// one request atomically per client.
type WindowStore interface {
	Check(ctx context.Context, clientID, endpoint string, policy models.Policy, now time.Time) (*models.Decision, error)
	GetBlock(ctx context.Context, clientID string, now time.Time) (*models.BlockEntry, error)
	ResetClient(ctx context.Context, clientID string) (bool, error)
	ResetAll(ctx context.Context) error
	Unblock(ctx context.Context, clientID string, now time.Time) (bool, error)
	Sweep(ctx context.Context, now time.Time) (int, error)
	Snapshot(ctx context.Context, now time.Time) ([]models.ClientStats, error)
}

// Service enforces per-client request limits. Safe for concurrent use.
type Service struct {
	windows        WindowStore
	auditPublisher audit.Emitter
	auditor        *audit.Logger
	logger         *slog.Logger
	config         *config.Config
	metrics        *metrics.Metrics
}

// Option configures a Service instance.
type Option func(*Service)

// WithLogger sets the structured logger for audit and debug logging.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithAuditPublisher sets the audit event publisher for security logging.
func WithAuditPublisher(publisher audit.Emitter) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithConfig overrides the default policy table.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

// WithMetrics sets the metrics recorder for observability.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New creates a rate limiting service over the given window store.
func New(windows WindowStore, opts ...Option) (*Service, error) {
	if windows == nil {
		return nil, errors.New("window store is required")
	}

	svc := &Service{
		windows: windows,
		config:  config.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.config == nil {
		return nil, errors.New("rate limit config is required")
	}
	svc.auditor = audit.NewLogger(svc.logger, svc.auditPublisher)

	return svc, nil
}

// Check evaluates one request from clientID to path at the request time.
func (s *Service) Check(ctx context.Context, clientID, path string) (*models.Decision, error) {
	if clientID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "client id is required")
	}
	endpoint := models.NormalizeEndpoint(path)
	policy := s.config.Policies.PolicyFor(endpoint)
	now := requesttime.Now(ctx)

	decision, err := s.windows.Check(ctx, clientID, endpoint, policy, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}

	if s.metrics != nil {
		s.metrics.RecordDecision(string(decision.Outcome))
	}

	switch decision.Outcome {
	case models.OutcomeThrottled:
		s.auditor.Record(ctx, audit.EventRateLimitBlocked, "", false,
			fmt.Sprintf("client %s blocked for %s after %d requests to %s", clientID, policy.BlockDuration, policy.MaxRequests, endpoint))
		if s.logger != nil {
			s.logger.WarnContext(ctx, "rate_limit_blocked",
				"client_id", clientID,
				"endpoint", endpoint,
				"limit", policy.MaxRequests,
				"window_seconds", int(policy.Window.Seconds()),
				"block_seconds", int(policy.BlockDuration.Seconds()),
			)
		}
	case models.OutcomeBlocked:
		if s.logger != nil {
			s.logger.DebugContext(ctx, "rate_limit_rejected",
				"client_id", clientID,
				"endpoint", endpoint,
				"unblock_at", decision.ResetAt,
			)
		}
	}

	return decision, nil
}

// CheckRequest fingerprints the caller and evaluates the request. It is the boundary
// used by the HTTP middleware.
func (s *Service) CheckRequest(ctx context.Context, sourceAddress, userAgent, path string) (*models.RateLimitResult, error) {
	clientID := models.Fingerprint(sourceAddress, userAgent)
	decision, err := s.Check(ctx, clientID, path)
	if err != nil {
		return nil, err
	}

	result := &models.RateLimitResult{
		Allowed:   decision.Allowed(),
		Reason:    decision.Outcome,
		ClientID:  clientID,
		Endpoint:  models.NormalizeEndpoint(path),
		Limit:     decision.Limit,
		Remaining: decision.Remaining,
		ResetAt:   decision.ResetAt,
	}
	if !result.Allowed {
		result.RetryAfter = models.CeilSeconds(decision.RetryAfter)
	}
	return result, nil
}

// IsBlocked reports the client's active block, if any.
func (s *Service) IsBlocked(ctx context.Context, clientID string) (*models.BlockEntry, error) {
	entry, err := s.windows.GetBlock(ctx, clientID, requesttime.Now(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get block entry")
	}
	return entry, nil
}

// ResetClient forgets every window and block of one client. It reports whether the
// client was tracked.
func (s *Service) ResetClient(ctx context.Context, clientID string) (bool, error) {
	if clientID == "" {
		return false, dErrors.New(dErrors.CodeInvalidInput, "client id is required")
	}
	found, err := s.windows.ResetClient(ctx, clientID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset client")
	}
	s.recordAdmin(ctx, "reset_client", "reset client "+clientID)
	return found, nil
}

// ResetAll forgets every client.
func (s *Service) ResetAll(ctx context.Context) error {
	if err := s.windows.ResetAll(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset rate limiter")
	}
	s.recordAdmin(ctx, "reset_all", "reset all clients")
	return nil
}

// Unblock lifts a client's block and keeps its windows. It reports whether a block was active.
func (s *Service) Unblock(ctx context.Context, clientID string) (bool, error) {
	if clientID == "" {
		return false, dErrors.New(dErrors.CodeInvalidInput, "client id is required")
	}
	removed, err := s.windows.Unblock(ctx, clientID, requesttime.Now(ctx))
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to unblock client")
	}
	s.recordAdmin(ctx, "unblock", "unblocked client "+clientID)
	return removed, nil
}

// Stats returns per-client state and the policy table.
func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
	now := requesttime.Now(ctx)
	clients, err := s.windows.Snapshot(ctx, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to collect rate limit stats")
	}

	stats := &models.Stats{
		TotalClients: len(clients),
		Clients:      clients,
		Policies:     s.config.Policies.View(),
	}
	for _, c := range clients {
		if c.BlockedUntil != nil {
			stats.BlockedClients++
		}
	}
	return stats, nil
}

// Sweep evicts idle clients and expired blocks. Used by the cleanup worker.
func (s *Service) Sweep(ctx context.Context) (int, error) {
	now := requesttime.Now(ctx)
	evicted, err := s.windows.Sweep(ctx, now)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sweep rate limit windows")
	}
	if s.metrics != nil {
		s.metrics.AddCleanupEvicted("clients", evicted)
		if clients, err := s.windows.Snapshot(ctx, now); err == nil {
			s.metrics.SetTrackedClients(len(clients))
		}
	}
	return evicted, nil
}

func (s *Service) recordAdmin(ctx context.Context, action, detail string) {
	if s.metrics != nil {
		s.metrics.RecordAdminAction(action)
	}
	s.auditor.Record(ctx, audit.EventRateLimitReset, "", true, detail)
}
