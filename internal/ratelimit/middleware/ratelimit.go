package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"vaultguard/internal/ratelimit/models"
	"vaultguard/pkg/platform/httputil"
	"vaultguard/pkg/requestcontext"
)

type RateLimiter interface {
	CheckRequest(ctx context.Context, sourceAddress, userAgent, path string) (*models.RateLimitResult, error)
}

type Middleware struct {
	limiter RateLimiter
	logger  *slog.Logger
}

func New(limiter RateLimiter, logger *slog.Logger) *Middleware {
	return &Middleware{
		limiter: limiter,
		logger:  logger,
	}
}

// RateLimit checks every request against the client's sliding window for its endpoint.
// Limiter errors fail open: the request is logged and served.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		addr := clientAddress(r)

		result, err := m.limiter.CheckRequest(ctx, addr, r.UserAgent(), r.URL.Path)
		if err != nil {
			if m.logger != nil {
				m.logger.ErrorContext(ctx, "failed to check rate limit",
					"error", err,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
			}
			next.ServeHTTP(w, r)
			return
		}

		addRateLimitHeaders(w, result)

		if !result.Allowed {
			writeRateLimitExceeded(w, result)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientAddress prefers the address resolved by the metadata middleware and falls back
// to the connection's remote host.
func clientAddress(r *http.Request) string {
	if ip := requestcontext.ClientIP(r.Context()); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// addRateLimitHeaders adds X-RateLimit-* headers to the response.
func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	message := "Too many requests. Please try again later."
	if result.Reason == models.OutcomeBlocked {
		message = "Client temporarily blocked after exceeding the rate limit."
	}
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    message,
		Reason:     result.Reason,
		Limit:      result.Limit,
		RetryAfter: result.RetryAfter,
	})
}
