// Package http provides the JSON response helpers shared by all handlers.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"financer/internal/models"
)

// RespondJSON writes data as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("failed to encode JSON response")
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// RespondError writes a JSON error response.
func RespondError(w http.ResponseWriter, status int, message string) {
	logrus.WithField("status", status).Warn(message)
	RespondJSON(w, status, errorBody{Error: message})
}

// RespondFromErr maps an error to the right status: validation failures are
// the client's fault (400), everything else is ours (500).
func RespondFromErr(w http.ResponseWriter, err error) {
	if models.IsInvalidInput(err) {
		RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	RespondError(w, http.StatusInternalServerError, err.Error())
}

// DecodeJSON parses a request body into dst, rejecting unknown fields so
// client typos surface as 400s instead of silently zeroed fields.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
