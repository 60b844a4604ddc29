package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/docker/go-units"
	"golang.org/x/sync/errgroup"

	"github.com/pam-ai/pamgate/internal/adapter/classifier"
	"github.com/pam-ai/pamgate/internal/adapter/cost"
	"github.com/pam-ai/pamgate/internal/adapter/health"
	"github.com/pam-ai/pamgate/internal/adapter/metrics"
	"github.com/pam-ai/pamgate/internal/adapter/registry"
	"github.com/pam-ai/pamgate/internal/adapter/routing"
	"github.com/pam-ai/pamgate/internal/adapter/safety"
	"github.com/pam-ai/pamgate/internal/adapter/security"
	"github.com/pam-ai/pamgate/internal/adapter/stats"
	"github.com/pam-ai/pamgate/internal/adapter/validator"
	"github.com/pam-ai/pamgate/internal/app/handlers"
	"github.com/pam-ai/pamgate/internal/app/middleware"
	"github.com/pam-ai/pamgate/internal/config"
	"github.com/pam-ai/pamgate/internal/core/ports"
	"github.com/pam-ai/pamgate/internal/logger"
	"github.com/pam-ai/pamgate/internal/router"
)

// Application wires the gate, the router and the HTTP surface together
type Application struct {
	config      atomic.Pointer[config.Config]
	loader      *config.Loader
	server      *http.Server
	logger      logger.StyledLogger
	routes      *router.RouteRegistry
	registry    *registry.ModelRegistry
	router      *routing.Router
	gate        *safety.Gate
	rateLimiter *security.RateLimiter
	sizeLimiter *security.SizeLimiter
	startTime   time.Time
	reloadMu    sync.Mutex
}

// New loads configuration from the default search paths
func New(startTime time.Time, log logger.StyledLogger) (*Application, error) {
	return NewWithLoader(config.NewLoader(), startTime, log)
}

func NewWithLoader(loader *config.Loader, startTime time.Time, log logger.StyledLogger) (*Application, error) {
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Filename != "" {
		log.Info("Loaded configuration", "file", cfg.Filename)
	}

	catalog, err := registry.LoadCatalog(cfg.Models.CatalogFile)
	if err != nil {
		return nil, err
	}

	a := &Application{
		loader:    loader,
		logger:    log,
		startTime: startTime,
	}
	a.config.Store(cfg)

	var recorder ports.DecisionRecorder = ports.NoopRecorder{}
	var rejections security.RejectionRecorder
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		prom := metrics.NewPrometheusRecorder()
		recorder = prom
		rejections = prom
		metricsHandler = prom.Handler()
	}

	a.registry, err = registry.NewModelRegistry(registry.Config{
		Tracker: health.NewTracker(trackerConfiguration(cfg)),
		Source:  a.chainSource,
		Catalog: catalog,
		Chain:   chainConfiguration(cfg),
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create model registry: %w", err)
	}

	a.router, err = routing.NewRouter(routing.Dependencies{
		Registry:   a.registry,
		Classifier: classifier.NewComplexityClassifier(),
		Estimator:  cost.NewEstimator(),
		Collector:  stats.NewPerformanceCollector(cfg.Routing.HistorySize),
		Recorder:   recorder,
	}, routingConfiguration(cfg), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create model router: %w", err)
	}

	a.gate, err = safety.NewGate(safety.GateDependencies{
		Validator: a.buildValidator(cfg),
		Recorder:  recorder,
	}, gateConfiguration(cfg), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create safety gate: %w", err)
	}

	a.rateLimiter = security.NewRateLimiter(cfg.Server.RateLimits, rejections, log)
	a.sizeLimiter = security.NewSizeLimiter(cfg.Server.RequestLimits, rejections, log)

	a.routes = router.NewRouteRegistry(log)
	handlers.NewApplication(handlers.Dependencies{
		Gate:        a.gate,
		Router:      a.router,
		Registry:    a.registry,
		Metrics:     metricsHandler,
		Reload:      a.Reload,
		MetricsPath: cfg.Metrics.Path,
		StartTime:   startTime,
	}, log).RegisterRoutes(a.routes)

	requestMiddleware := middleware.RequestID
	if cfg.Server.RequestLogging {
		requestMiddleware = middleware.EnhancedLoggingMiddleware(log)
	}

	mux := http.NewServeMux()
	a.routes.WireUp(mux,
		[]router.Middleware{requestMiddleware, a.rateLimiter.Middleware},
		[]router.Middleware{a.sizeLimiter.Middleware},
	)

	a.server = &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Info("Request limits",
		"max_body", units.HumanSize(float64(cfg.Server.RequestLimits.MaxBodySize)),
		"max_header", units.HumanSize(float64(cfg.Server.RequestLimits.MaxHeaderSize)),
		"per_ip_rpm", cfg.Server.RateLimits.PerIPRequestsPerMinute)

	return a, nil
}

// buildValidator returns nil when stage 2 cannot run, the gate then stays
// regex only rather than refusing to start
func (a *Application) buildValidator(cfg *config.Config) ports.SafetyValidator {
	if !cfg.Safety.ValidatorEnabled {
		a.logger.Info("Safety validator disabled, running regex only")
		return nil
	}

	apiKey := cfg.Safety.APIKey()
	if apiKey == "" {
		a.logger.Warn("No API key for safety validator, running regex only", "variable", cfg.Safety.APIKeyEnv)
		return nil
	}

	v, err := validator.New(context.Background(), validatorConfiguration(cfg, apiKey), a.logger)
	if err != nil {
		a.logger.Warn("Failed to create safety validator, running regex only", "provider", cfg.Safety.Provider, "error", err)
		return nil
	}

	a.logger.Info("Safety validator ready", "provider", v.Name())
	return v
}

func (a *Application) chainSource() (registry.ChainConfig, error) {
	return chainConfiguration(a.config.Load()), nil
}

func (a *Application) Config() *config.Config {
	return a.config.Load()
}

// Reload re-reads configuration and pushes it into every component. The
// validator provider and server settings need a restart.
func (a *Application) Reload() error {
	cfg, err := a.loader.Load()
	if err != nil {
		return err
	}
	return a.apply(cfg)
}

func (a *Application) apply(cfg *config.Config) error {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	if err := a.gate.UpdateConfig(gateConfiguration(cfg)); err != nil {
		return fmt.Errorf("failed to apply safety config: %w", err)
	}

	a.config.Store(cfg)
	if err := a.registry.Reload(); err != nil {
		return err
	}
	a.router.UpdateConfig(routingConfiguration(cfg))

	a.logger.InfoWithModel("Configuration reloaded, primary", a.registry.GetPrimary().ID.String())
	return nil
}

func (a *Application) onConfigChange(cfg *config.Config, err error) {
	if err != nil {
		a.logger.Error("Failed to re-read config file", "error", err)
		return
	}
	if err := a.apply(cfg); err != nil {
		a.logger.Error("Failed to apply config change", "error", err)
	}
}

// Run listens on the configured address until ctx is cancelled
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve blocks until ctx is cancelled or the server fails, then shuts down
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	if a.loader.Watch(a.onConfigChange) {
		a.logger.Info("Watching configuration for changes", "file", a.Config().Filename)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("pamgate started", "bind", ln.Addr().String())
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown()
	})

	return g.Wait()
}

func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config().Server.ShutdownTimeout)
	defer cancel()

	a.rateLimiter.Stop()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}
	a.logger.Info("HTTP server stopped")
	return nil
}
