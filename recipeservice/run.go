package recipeservice

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/api"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/auth"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/cache"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/config"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/factory"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/health"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/listing"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/logger"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/pagination"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/services"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/store"
)

// Run starts the recipe service HTTP server and blocks until shutdown or error.
func Run() error {
	cfg, err := config.New()
	if err != nil {
		l := logger.New("recipe-service", "info")
		l.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	log := logger.New("recipe-service", cfg.LogLevel)

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	return RunWithConfig(ctx, cfg, log)
}

// RunWithConfig serves until ctx is cancelled or the HTTP server fails.
func RunWithConfig(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("cache_driver", cfg.CacheDriver).
		Int("http_port", cfg.HTTPPort).
		Msg("Recipe service starting")

	st, c, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeDependencies(cfg, log, st, c)

	authorizer, err := auth.New(cfg.AuthMode, cfg.AuthTokens)
	if err != nil {
		log.Error().Err(err).Msg("Invalid auth configuration")
		return err
	}

	// Start health checkers; readiness follows the store only, the cache is best-effort
	svcHealth := startHealthCheckers(ctx, cfg, log, st, c)

	coordinator := listing.New(pagination.NewEngine(st.Recipes()), st, c, log, listing.Options{
		TTL:          cfg.CacheTTL,
		StoreTimeout: cfg.StoreTimeout,
		CacheTimeout: cfg.CacheTimeout,
		ProbeTimeout: cfg.HealthProbeTimeout(),
	})
	router := api.NewRouter(api.RouterDeps{
		Recipes:    services.NewRecipeService(st, coordinator, log, cfg.StoreTimeout),
		Authorizer: authorizer,
		Health:     coordinator,
		Ready:      svcHealth.IsHealthy,
		Log:        log,
	})

	// Block startup until the store reports healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	ln, err := net.Listen("tcp", cfg.GetHTTPAddr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GetHTTPAddr(), err)
	}
	server := newHTTPServer(ctx, router)
	errCh := serveHTTP(server, ln, log)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initDependencies builds the store and cache. A store failure is fatal.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, cache.Cache, error) {
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, nil, err
	}
	c, err := factory.NewCache(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Cache adapter unavailable")
		_ = st.Close(context.Background())
		return nil, nil, err
	}
	return st, c, nil
}

func closeDependencies(cfg *config.Config, log zerolog.Logger, st store.Store, c cache.Cache) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := st.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("store close failed")
	}
	if err := c.Close(); err != nil {
		log.Warn().Err(err).Msg("cache close failed")
	}
}

// startHealthCheckers starts the component checkers and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store, c cache.Cache) *health.ServiceHealthChecker {
	probeTimeout := cfg.HealthProbeTimeout()
	interval := cfg.HealthInterval()

	storeChecker := health.NewPingChecker("store", st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	if cfg.CacheDriver != config.CacheNone {
		cacheChecker := health.NewPingChecker("cache", health.PingFunc(c.Ping), log, probeTimeout)
		go cacheChecker.Start(ctx, interval)
	}

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, healthEvalInterval(interval))
	return svcHealth
}

// healthEvalInterval lets the aggregator notice the first probe quickly.
func healthEvalInterval(interval time.Duration) time.Duration {
	if interval > time.Second {
		return time.Second
	}
	return interval
}

// newHTTPServer keeps ctx values for requests but not its cancellation:
// in-flight requests are drained by Shutdown, not aborted by the signal.
func newHTTPServer(ctx context.Context, handler http.Handler) *http.Server {
	base := context.WithoutCancel(ctx)
	return &http.Server{
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}
}

func serveHTTP(server *http.Server, ln net.Listener, log zerolog.Logger) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("HTTP server starting")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: store not healthy within %d seconds", timeoutSeconds)
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
