// Package tracer wraps span creation for vault cipher operations so the service
// does not depend on OpenTelemetry directly.
//
// Implementations:
//   - NoopTracer: tests
//   - OTelTracer: global OpenTelemetry provider
package tracer

import (
	"context"
	"time"
)

// Span is an active trace span. End must be called exactly once.
type Span interface {
	// End completes the span. A non-nil err marks it failed.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute is a key-value pair attached to a span. Secrets and key material
// never go into attributes.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanEncrypt = "vault.encrypt"
	SpanDecrypt = "vault.decrypt"
	SpanList    = "vault.list"
)

// Attribute keys.
const (
	AttrEntryID    = "vault.entry_id"
	AttrUserID     = "vault.user_id"
	AttrEntryCount = "vault.entry_count"
	AttrPoolSize   = "vault.kdf_workers"
)

// Event names.
const (
	EventSlotAcquired = "kdf.slot_acquired"
)
