package device

import (
	"net/http"

	"vaultguard/pkg/requestcontext"
)

// Device labels the caller's device from its User-Agent for audit records.
// It must run after the metadata middleware.
func Device(labelFn func(userAgent string) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if labelFn != nil {
				if ua := requestcontext.UserAgent(ctx); ua != "" {
					ctx = requestcontext.WithDevice(ctx, labelFn(ua))
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
