package handlers

import (
	"net/http"

	"github.com/pam-ai/pamgate/internal/core/constants"
)

var responseJSON = []byte(`{"status":"healthy"}`)

// healthHandler only reports liveness, the gate fails open so a dead
// validator never makes the process unhealthy
func (a *Application) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(responseJSON)
}

func (a *Application) reloadHandler(w http.ResponseWriter, r *http.Request) {
	if err := a.reload(); err != nil {
		a.logger.Error("Configuration reload failed", "error", err)
		a.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "reloaded",
		"primary": a.registry.GetPrimary().ID,
	})
}
