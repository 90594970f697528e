package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

// apiError is the JSON body every non-2xx response carries.
type apiError struct {
	Path             string            `json:"path"`
	Timestamp        int64             `json:"timestamp"`
	Message          string            `json:"message"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, &apiError{
		Path:      r.URL.Path,
		Timestamp: time.Now().UnixMilli(),
		Message:   message,
	})
}

func writeValidationError(w http.ResponseWriter, r *http.Request, validationErrors map[string]string) {
	writeJSON(w, http.StatusBadRequest, &apiError{
		Path:             r.URL.Path,
		Timestamp:        time.Now().UnixMilli(),
		Message:          "Validation Failure",
		ValidationErrors: validationErrors,
	})
}
