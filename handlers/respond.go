package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/medregistry/search-gateway/failure"
	"github.com/medregistry/search-gateway/logging"
)

// errorEnvelope is the uniform boundary error shape. Every failure renders
// into this structure; only status, error, message and fieldErrors vary, so
// clients need exactly one error-handling path.
type errorEnvelope struct {
	Timestamp     time.Time                `json:"timestamp"`
	Status        int                      `json:"status"`
	Error         string                   `json:"error"`
	Message       string                   `json:"message"`
	Path          string                   `json:"path"`
	CorrelationID string                   `json:"correlationId"`
	FieldErrors   []failure.FieldViolation `json:"fieldErrors,omitempty"`
}

// respondWithJSON writes a JSON response.
func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Debug("Failed to write response", "error", err)
	}
}

// respondWithFailure classifies a failure once and renders the error
// envelope. Unclassified failures get a generic message; the correlation id
// is the support handle either way.
func respondWithFailure(w http.ResponseWriter, r *http.Request, f *failure.ServiceFailure) {
	c := failure.Classify(f)

	message := f.Message
	if f.Kind == failure.KindUnclassified {
		message = "An unexpected error occurred. Quote the correlation id when reporting it."
	}

	respondWithJSON(w, c.Status, errorEnvelope{
		Timestamp:     time.Now().UTC(),
		Status:        c.Status,
		Error:         c.Category,
		Message:       message,
		Path:          r.URL.Path,
		CorrelationID: c.CorrelationID,
		FieldErrors:   f.Fields,
	})
}
