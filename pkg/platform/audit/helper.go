package audit

import (
	"context"
	"log/slog"

	"vaultguard/pkg/requestcontext"
)

// Emitter is the interface for audit event emission.
// Satisfied by publisher.Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Logger writes an audit record to the structured log and, when an emitter is set,
// to the audit store. Emission failures are logged and never returned.
type Logger struct {
	textLogger *slog.Logger
	emitter    Emitter
}

// NewLogger creates an audit logger. Either argument may be nil.
func NewLogger(textLogger *slog.Logger, emitter Emitter) *Logger {
	return &Logger{
		textLogger: textLogger,
		emitter:    emitter,
	}
}

// Record logs event for accountID and enriches it with request id, client IP and
// device label from ctx.
func (l *Logger) Record(ctx context.Context, event AuditEvent, accountID string, success bool, detail string) {
	if l == nil {
		return
	}
	e := Event{
		Action:    string(event),
		AccountID: accountID,
		Success:   success,
		Detail:    detail,
		IP:        requestcontext.ClientIP(ctx),
		Device:    requestcontext.Device(ctx),
		RequestID: requestcontext.RequestID(ctx),
	}

	if l.textLogger != nil {
		l.textLogger.InfoContext(ctx, string(event),
			"event", string(event),
			"log_type", "audit",
			"category", string(event.Category()),
			"account_id", accountID,
			"success", success,
			"detail", detail,
			"request_id", e.RequestID,
		)
	}

	if l.emitter == nil {
		return
	}
	if err := l.emitter.Emit(ctx, e); err != nil && l.textLogger != nil {
		l.textLogger.ErrorContext(ctx, "failed to emit audit event",
			"error", err,
			"event", string(event),
		)
	}
}
