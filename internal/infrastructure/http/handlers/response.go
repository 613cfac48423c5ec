// Package handlers implements the JSON endpoints of the pantry API
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/alchemorsel/pantry/pkg/errors"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const msgInvalidJSON = "Invalid JSON payload"

// Response is the envelope of every write endpoint
type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps err onto a status. Client errors keep their message;
// anything else is logged and answered with fallback.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, fallback string) {
	status := http.StatusInternalServerError
	message := fallback

	if appErr, ok := errors.As(err); ok {
		status = appErr.StatusCode()
		if status < http.StatusInternalServerError {
			message = appErr.Message
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Error(fallback,
			zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	writeJSON(w, status, Response{Message: message})
}

// decode reads a JSON body into dst. A body that is not declared as JSON,
// or is empty, leaves dst at its zero value so field validation reports
// what is missing.
func decode(r *http.Request, dst interface{}) error {
	if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && err != io.EOF {
		return errors.NewBadRequestError(msgInvalidJSON).WithCause(err)
	}
	return nil
}

// Index answers the root route
func Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello World"))
}
