// Package keepsakeservice assembles and runs the HTTP service: config,
// store, media storage, billing, health checking and graceful shutdown.
package keepsakeservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/keepsakehq/keepsake/server/internal/api"
	"github.com/keepsakehq/keepsake/server/internal/auth"
	"github.com/keepsakehq/keepsake/server/internal/billing"
	"github.com/keepsakehq/keepsake/server/internal/config"
	"github.com/keepsakehq/keepsake/server/internal/health"
	"github.com/keepsakehq/keepsake/server/internal/logger"
	"github.com/keepsakehq/keepsake/server/internal/mediastore"
	medialocal "github.com/keepsakehq/keepsake/server/internal/mediastore/local"
	medias3 "github.com/keepsakehq/keepsake/server/internal/mediastore/s3"
	"github.com/keepsakehq/keepsake/server/internal/store"
	"github.com/keepsakehq/keepsake/server/internal/store/sqlstore"
)

// Run starts the keepsake service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("keepsake-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("media_driver", cfg.MediaDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Keepsake service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	st, media, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}

	authorizer, err := newAuthorizer(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to configure authorizer")
		return err
	}

	var billingSvc *billing.Service
	if cfg.StripeSecretKey != "" {
		billingSvc = billing.New(st, billing.Options{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			PriceID:       cfg.StripePriceID,
			SuccessURL:    cfg.BillingSuccessURL,
			CancelURL:     cfg.BillingCancelURL,
		})
	} else {
		log.Warn().Msg("Stripe not configured; billing endpoints disabled")
	}

	router := api.NewRouter(api.Deps{
		Store:      st,
		Media:      media,
		Authorizer: authorizer,
		Billing:    billingSvc,
	})

	// Start health checkers and bind service health
	svcHealth := startHealthCheckers(ctx, cfg, log, st)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initDependencies constructs the store and media backends per configuration.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, mediastore.MediaStore, error) {
	var (
		st  *sqlstore.SQLStore
		err error
	)
	switch cfg.DBDriver {
	case sqlstore.DriverPostgres:
		db, oerr := sqlstore.OpenPostgres(cfg.PostgresDSN)
		if oerr != nil {
			log.Error().Err(oerr).Msg("Postgres unavailable")
			return nil, nil, oerr
		}
		st, err = sqlstore.New(db, sqlstore.DriverPostgres)
	case sqlstore.DriverSQLite:
		db, oerr := sqlstore.OpenSQLite(cfg.SQLitePath)
		if oerr != nil {
			log.Error().Err(oerr).Msg("SQLite unavailable")
			return nil, nil, oerr
		}
		st, err = sqlstore.New(db, sqlstore.DriverSQLite)
	default:
		return nil, nil, fmt.Errorf("unsupported DB driver: %s", cfg.DBDriver)
	}
	if err != nil {
		return nil, nil, err
	}
	if err := st.Bootstrap(ctx); err != nil {
		log.Error().Err(err).Msg("Schema bootstrap failed")
		return nil, nil, err
	}

	var media mediastore.MediaStore
	switch cfg.MediaDriver {
	case "local":
		media, err = medialocal.NewLocalMediaStore(cfg.MediaPath)
	case "s3":
		media, err = medias3.NewS3MediaStore(ctx, medias3.Options{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
	default:
		err = fmt.Errorf("unsupported media driver: %s", cfg.MediaDriver)
	}
	if err != nil {
		log.Error().Err(err).Msg("Media storage unavailable")
		return nil, nil, err
	}
	return st, media, nil
}

// newAuthorizer picks the dev token in dev mode and the static token table in
// production.
func newAuthorizer(cfg *config.Config) (auth.Authorizer, error) {
	if cfg.IsDevMode() {
		return auth.NewDevAuthorizer(), nil
	}
	return auth.NewStaticAuthorizer(cfg.APITokens)
}

// startHealthCheckers starts component checkers and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, interval)
	api.BindServiceHealth(svcHealth.IsHealthy)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
