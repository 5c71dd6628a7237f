// Package requestcontext carries per-request values (request id, client metadata,
// authenticated account) through context.Context.
package requestcontext

import "context"

type (
	contextKeyRequestID struct{}
	contextKeyClientIP  struct{}
	contextKeyUserAgent struct{}
	contextKeyAccountID struct{}
	contextKeyDevice    struct{}
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID{}, requestID)
}

func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyRequestID{}).(string)
	return v
}

// WithClientMetadata stores the resolved client address and raw User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, contextKeyClientIP{}, clientIP)
	return context.WithValue(ctx, contextKeyUserAgent{}, userAgent)
}

func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyClientIP{}).(string)
	return v
}

func UserAgent(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyUserAgent{}).(string)
	return v
}

// WithDevice stores a short human-readable device label ("Chrome on macOS").
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, contextKeyDevice{}, device)
}

func Device(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyDevice{}).(string)
	return v
}

// WithAccountID stores the authenticated account id set by the auth middleware.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, contextKeyAccountID{}, accountID)
}

func AccountID(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyAccountID{}).(string)
	return v
}
