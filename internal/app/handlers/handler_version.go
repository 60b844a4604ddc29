package handlers

import (
	"net/http"
	"runtime"

	"github.com/pam-ai/pamgate/internal/core/constants"
	"github.com/pam-ai/pamgate/internal/version"
)

type VersionResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Build       BuildInfo         `json:"build"`
	Endpoints   map[string]string `json:"endpoints"`
}

type BuildInfo struct {
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func (a *Application) versionHandler(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, VersionResponse{
		Name:        version.Name,
		Version:     version.Version,
		Description: version.Description,
		Build: BuildInfo{
			Commit:    version.Commit,
			Date:      version.Date,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		},
		Endpoints: map[string]string{
			"admit":   constants.PathAdmit,
			"safety":  constants.PathSafetyCheck,
			"select":  constants.PathRouteSelect,
			"outcome": constants.PathRouteOutcome,
			"health":  constants.DefaultHealthCheckEndpoint,
			"metrics": a.metricsPath,
		},
	})
}
