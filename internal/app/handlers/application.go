package handlers

import (
	"net/http"
	"time"

	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/core/ports"
	"github.com/pam-ai/pamgate/internal/logger"
	"github.com/pam-ai/pamgate/internal/router"
)

// Dependencies are the decision components the HTTP surface exposes. Reload
// and Metrics are optional.
type Dependencies struct {
	Gate     ports.SafetyGate
	Router   ports.ModelRouter
	Registry ports.ModelRegistry
	Metrics  http.Handler
	Reload   func() error
	Clock    func() time.Time

	MetricsPath string
	StartTime   time.Time
}

// Application holds everything the HTTP handlers need. It owns no lifecycle,
// the server is started by the app package.
type Application struct {
	gate     ports.SafetyGate
	router   ports.ModelRouter
	registry ports.ModelRegistry
	metrics  http.Handler
	reload   func() error
	clock    func() time.Time
	logger   logger.StyledLogger

	metricsPath string
	startTime   time.Time
}

func NewApplication(deps Dependencies, log logger.StyledLogger) *Application {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.MetricsPath == "" {
		deps.MetricsPath = constants.DefaultMetricPath
	}
	return &Application{
		gate:        deps.Gate,
		router:      deps.Router,
		registry:    deps.Registry,
		metrics:     deps.Metrics,
		reload:      deps.Reload,
		clock:       deps.Clock,
		logger:      log,
		metricsPath: deps.MetricsPath,
		startTime:   deps.StartTime,
	}
}

// RegisterRoutes sets up the complete HTTP routing table. Routes that take
// caller message text are guarded so they sit behind the size limiter.
func (a *Application) RegisterRoutes(routes *router.RouteRegistry) {
	routes.RegisterGuarded(constants.PathAdmit, a.admitHandler, "Safety check then model selection", http.MethodPost)
	routes.RegisterGuarded(constants.PathSafetyCheck, a.safetyCheckHandler, "Two stage prompt injection check", http.MethodPost)
	routes.RegisterGuarded(constants.PathRouteSelect, a.routeSelectHandler, "Adaptive model selection", http.MethodPost)
	routes.RegisterGuarded(constants.PathRouteOutcome, a.routeOutcomeHandler, "Report a model call outcome", http.MethodPost)

	routes.RegisterWithMethod(constants.DefaultHealthCheckEndpoint, a.healthHandler, "Health check endpoint", http.MethodGet)
	routes.RegisterWithMethod(constants.PathModelStatus, a.modelsStatusHandler, "Model health and chain", http.MethodGet)
	routes.RegisterWithMethod(constants.PathSafetyStatus, a.safetyStatusHandler, "Safety validator circuit", http.MethodGet)
	routes.RegisterWithMethod(constants.PathModelStats, a.modelStatsHandler, "Model performance statistics", http.MethodGet)
	routes.RegisterWithMethod(constants.PathProcessStats, a.processStatsHandler, "Process status", http.MethodGet)
	routes.RegisterWithMethod(constants.PathVersion, a.versionHandler, "Version information", http.MethodGet)

	if a.reload != nil {
		routes.RegisterWithMethod(constants.PathReloadConfig, a.reloadHandler, "Re-read configuration", http.MethodPost)
	}
	if a.metrics != nil {
		routes.RegisterWithMethod(a.metricsPath, a.metrics.ServeHTTP, "Prometheus metrics", http.MethodGet)
	}
}
