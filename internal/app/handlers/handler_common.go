package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/pam-ai/pamgate/internal/core/constants"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorResponse struct {
	Error string `json:"error"`
}

func (a *Application) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("Failed to encode response", "error", err)
	}
}

func (a *Application) writeError(w http.ResponseWriter, status int, message string) {
	a.writeJSON(w, status, errorResponse{Error: message})
}

// decodeBody reads a JSON request body into v, reporting the status the
// caller should answer with when it fails
func decodeBody(r *http.Request, v any) (int, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return http.StatusBadRequest, fmt.Errorf("unable to read request body: %w", err)
	}
	if len(body) == 0 {
		return http.StatusBadRequest, errors.New("request body is empty")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err)
	}
	return http.StatusOK, nil
}
