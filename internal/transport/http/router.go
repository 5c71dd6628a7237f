package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vaultguard/internal/auth/device"
	authhandler "vaultguard/internal/auth/handler"
	"vaultguard/internal/platform/health"
	rlhandler "vaultguard/internal/ratelimit/handler"
	vaulthandler "vaultguard/internal/vault/handler"
	"vaultguard/pkg/platform/middleware/admin"
	"vaultguard/pkg/platform/middleware/auth"
	devicemw "vaultguard/pkg/platform/middleware/device"
	"vaultguard/pkg/platform/middleware/metadata"
	"vaultguard/pkg/platform/middleware/request"
	"vaultguard/pkg/platform/middleware/requesttime"
)

const (
	// MaxBodyBytes caps every request body.
	MaxBodyBytes = 1 << 20

	// RequestTimeout bounds API handlers. PBKDF2 derivations queue behind the
	// cipher pool, so this leaves room for a saturated pool.
	RequestTimeout = 30 * time.Second
)

// Dependencies are the handlers and middleware the router mounts. Handlers are
// built at the composition root so the router only decides placement and order.
type Dependencies struct {
	Auth           *authhandler.Handler
	Vault          *vaulthandler.Handler
	RateLimitAdmin *rlhandler.Handler
	Health         *health.Handler

	// RateLimit guards every /api route. Nil disables request limiting.
	RateLimit      func(http.Handler) http.Handler
	JWTValidator   auth.JWTValidator
	Metadata       *metadata.Middleware
	RequestMetrics *request.Metrics
	MetricsHandler http.Handler

	// AdminToken protects /admin. An empty token leaves the routes mounted but
	// rejects every call.
	AdminToken      string
	StrictTransport bool
	Logger          *slog.Logger
}

// NewRouter wires all endpoints with the middleware stack.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(logger))
	r.Use(request.SecurityHeaders(deps.StrictTransport))
	r.Use(request.BodyLimit(MaxBodyBytes))
	if deps.Metadata != nil {
		r.Use(deps.Metadata.Handler)
	}
	r.Use(devicemw.Device(device.Label))
	r.Use(requesttime.Middleware)
	r.Use(request.Latency(deps.RequestMetrics))

	if deps.Health != nil {
		deps.Health.Register(r)
	}
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(request.Timeout(RequestTimeout))
		api.Use(request.ContentTypeJSON)
		if deps.RateLimit != nil {
			api.Use(deps.RateLimit)
		}

		if deps.Auth != nil {
			deps.Auth.Register(api)
		}

		api.Group(func(protected chi.Router) {
			protected.Use(auth.RequireAuth(deps.JWTValidator, logger))
			if deps.Auth != nil {
				deps.Auth.RegisterProtected(protected)
			}
			if deps.Vault != nil {
				deps.Vault.Register(protected)
			}
		})
	})

	if deps.RateLimitAdmin != nil {
		r.Group(func(operator chi.Router) {
			operator.Use(request.ContentTypeJSON)
			operator.Use(admin.RequireAdminToken(deps.AdminToken, logger))
			deps.RateLimitAdmin.RegisterAdmin(operator)
		})
	}

	return r
}
