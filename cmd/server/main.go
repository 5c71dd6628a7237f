package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	authhandler "vaultguard/internal/auth/handler"
	authmetrics "vaultguard/internal/auth/metrics"
	authservice "vaultguard/internal/auth/service"
	jwttoken "vaultguard/internal/jwt_token"
	"vaultguard/internal/platform/config"
	"vaultguard/internal/platform/database"
	"vaultguard/internal/platform/health"
	"vaultguard/internal/platform/logger"
	"vaultguard/internal/platform/metrics"
	rladmin "vaultguard/internal/ratelimit/admin"
	rlconfig "vaultguard/internal/ratelimit/config"
	rlhandler "vaultguard/internal/ratelimit/handler"
	rlmetrics "vaultguard/internal/ratelimit/metrics"
	rlmiddleware "vaultguard/internal/ratelimit/middleware"
	"vaultguard/internal/ratelimit/service/authlockout"
	"vaultguard/internal/ratelimit/service/requestlimit"
	"vaultguard/internal/ratelimit/store/window"
	"vaultguard/internal/ratelimit/workers/cleanup"
	httptransport "vaultguard/internal/transport/http"
	vaulthandler "vaultguard/internal/vault/handler"
	"vaultguard/internal/vault/keysource"
	vaultmetrics "vaultguard/internal/vault/metrics"
	vaultservice "vaultguard/internal/vault/service"
	"vaultguard/internal/vault/tracer"
	"vaultguard/pkg/crypto/envelope"
	"vaultguard/pkg/platform/audit/publisher"
	"vaultguard/pkg/platform/circuit"
	"vaultguard/pkg/platform/middleware/metadata"
	"vaultguard/pkg/platform/middleware/request"
	"vaultguard/pkg/secrets"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg config.Server, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing vaultguard",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"version", version,
		"kdf_workers", cfg.KDFWorkers,
	)

	pool, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close() //nolint:errcheck // process is exiting
	}
	st := newStores(pool, log)

	reg := metrics.NewRegistry(version, cfg.Environment)

	auditPublisher := publisher.NewPublisher(st.audit,
		publisher.WithAsyncBuffer(cfg.AuditBuffer),
		publisher.WithPublisherLogger(log),
		publisher.WithBreaker(circuit.New("audit-store")),
	)
	defer auditPublisher.Close()

	// Abuse control
	rlMetrics := rlmetrics.NewWithRegisterer(reg)
	limitCfg := rlconfig.DefaultConfig()
	limitCfg.Lockout.Threshold = cfg.LockoutThreshold
	limitCfg.Lockout.Duration = cfg.LockoutDuration
	limitCfg.CleanupInterval = cfg.CleanupInterval

	limiter, err := requestlimit.New(window.NewInMemoryStore(),
		requestlimit.WithLogger(log),
		requestlimit.WithAuditPublisher(auditPublisher),
		requestlimit.WithConfig(limitCfg),
		requestlimit.WithMetrics(rlMetrics),
	)
	if err != nil {
		return fmt.Errorf("init request limiter: %w", err)
	}
	lockout, err := authlockout.New(st.lockouts,
		authlockout.WithLogger(log),
		authlockout.WithAuditPublisher(auditPublisher),
		authlockout.WithConfig(limitCfg.Lockout),
		authlockout.WithMetrics(rlMetrics),
	)
	if err != nil {
		return fmt.Errorf("init account lockout: %w", err)
	}
	operator, err := rladmin.New(limiter, lockout, rladmin.WithLogger(log))
	if err != nil {
		return fmt.Errorf("init rate limit admin: %w", err)
	}

	// Accounts
	jwt := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)
	jwt.SetEnv(cfg.Environment)
	auth, err := authservice.New(st.accounts, lockout, secrets.NewHasher(cfg.BcryptCost), jwt,
		authservice.WithLogger(log),
		authservice.WithAuditPublisher(auditPublisher),
		authservice.WithMetrics(authmetrics.NewWithRegisterer(reg)),
	)
	if err != nil {
		return fmt.Errorf("init auth service: %w", err)
	}

	// Vault
	keys, err := keysource.NewHMAC(cfg.VaultMasterKey)
	if err != nil {
		return fmt.Errorf("init vault key source: %w", err)
	}
	vault, err := vaultservice.New(st.entries, keys, envelope.NewPool(cfg.KDFWorkers),
		vaultservice.WithLogger(log),
		vaultservice.WithAuditPublisher(auditPublisher),
		vaultservice.WithMetrics(vaultmetrics.NewWithRegisterer(reg)),
		vaultservice.WithTracer(tracer.NewOTel()),
	)
	if err != nil {
		return fmt.Errorf("init vault service: %w", err)
	}

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("database", pool.Health)
	}

	proxies, invalid := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if len(invalid) > 0 {
		log.Warn("ignoring invalid trusted proxies", "entries", invalid)
	}
	if cfg.AdminAPIToken == "" {
		log.Warn("ADMIN_API_TOKEN not set, admin endpoints will reject every request")
	}

	router := httptransport.NewRouter(httptransport.Dependencies{
		Auth:            authhandler.New(auth, log),
		Vault:           vaulthandler.New(vault, log),
		RateLimitAdmin:  rlhandler.New(operator, log),
		Health:          healthHandler,
		RateLimit:       rlmiddleware.New(limiter, log).RateLimit,
		JWTValidator:    jwttoken.NewJWTServiceAdapter(jwt),
		Metadata:        metadata.NewMiddleware(&metadata.Config{TrustedProxies: proxies}),
		RequestMetrics:  request.NewMetrics(reg),
		MetricsHandler:  reg.Handler(),
		AdminToken:      cfg.AdminAPIToken,
		StrictTransport: !cfg.IsDevelopment(),
		Logger:          log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      httptransport.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sweeper := cleanup.New(limiter, lockout,
		cleanup.WithLogger(log),
		cleanup.WithInterval(limitCfg.CleanupInterval),
		cleanup.WithMetrics(rlMetrics),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := sweeper.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
