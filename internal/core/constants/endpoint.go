package constants

const (
	DefaultHealthCheckEndpoint = "/internal/health"
	DefaultPamPathPrefix       = "/pam/"

	PathAdmit         = "/pam/admit"
	PathSafetyCheck   = "/pam/safety/check"
	PathRouteSelect   = "/pam/route/select"
	PathRouteOutcome  = "/pam/route/outcome"
	PathModelStats    = "/internal/stats/models"
	PathModelStatus   = "/internal/status/models"
	PathSafetyStatus  = "/internal/status/safety"
	PathProcessStats  = "/internal/process"
	PathReloadConfig  = "/internal/reload"
	PathVersion       = "/version"
	DefaultMetricPath = "/metrics"
)

// reasons attached to requests turned away by the limiters
const (
	RejectionRateLimit  = "rate_limit"
	RejectionBodySize   = "body_size"
	RejectionHeaderSize = "header_size"
)
