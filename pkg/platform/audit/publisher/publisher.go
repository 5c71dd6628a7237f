package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	dErrors "vaultguard/pkg/domain-errors"
	audit "vaultguard/pkg/platform/audit"
	"vaultguard/pkg/platform/circuit"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store  audit.Store
	events chan audit.Event
	wg     sync.WaitGroup
	logger  *slog.Logger
	async   bool
	breaker *circuit.Breaker
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer enables async processing with the specified buffer size.
// Events are queued and persisted in a background goroutine.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan audit.Event, size)
			p.async = true
		}
	}
}

// WithPublisherLogger sets a logger for async error reporting.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithBreaker guards the store. While the breaker is open, events that fail to
// persist are written to the logger in full so they can be recovered from logs.
func WithBreaker(b *circuit.Breaker) PublisherOption {
	return func(p *Publisher) {
		p.breaker = b
	}
}

func NewPublisher(store audit.Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.processEvents()
	}
	return p
}

// processEvents runs in a goroutine and persists events from the channel.
func (p *Publisher) processEvents() {
	defer p.wg.Done()
	for event := range p.events {
		if err := p.persist(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("failed to persist audit event",
				"error", err,
				"action", event.Action,
				"account_id", event.AccountID,
			)
		}
	}
}

func (p *Publisher) persist(ctx context.Context, event audit.Event) error {
	err := p.store.Append(ctx, event)
	if p.breaker == nil {
		return err
	}

	state, transition := p.breaker.Record(err)
	if p.logger != nil {
		switch transition {
		case circuit.Opened:
			p.logger.Error("audit store circuit opened", "breaker", p.breaker.Name(), "error", err)
		case circuit.Closed:
			p.logger.Info("audit store circuit closed", "breaker", p.breaker.Name())
		}
		if err != nil && state == circuit.StateOpen {
			p.logger.Warn("audit event logged in place of store",
				"log_type", "audit_fallback",
				"action", event.Action,
				"account_id", event.AccountID,
				"success", event.Success,
				"detail", event.Detail,
				"ip", event.IP,
				"device", event.Device,
				"request_id", event.RequestID,
				"timestamp", event.Timestamp,
			)
		}
	}
	return err
}

// Close shuts down the async publisher and waits for pending events to drain.
func (p *Publisher) Close() {
	if p.async && p.events != nil {
		close(p.events)
		p.wg.Wait()
	}
}

func (p *Publisher) Emit(ctx context.Context, base audit.Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	if p.async {
		select {
		case p.events <- base:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
			if p.logger != nil {
				p.logger.Warn("audit buffer full, event dropped",
					"action", base.Action,
					"account_id", base.AccountID,
				)
			}
			return dErrors.New(dErrors.CodeInternal, "audit buffer full")
		}
	}
	return p.persist(ctx, base)
}

func (p *Publisher) List(ctx context.Context, accountID string) ([]audit.Event, error) {
	return p.store.ListByAccount(ctx, accountID)
}

func (p *Publisher) Recent(ctx context.Context, limit int) ([]audit.Event, error) {
	return p.store.ListRecent(ctx, limit)
}
