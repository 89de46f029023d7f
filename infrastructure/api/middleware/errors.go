package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/archmapio/archmap/internal/database"
)

// ErrorResponse is the JSON body of an error reply.
type ErrorResponse struct {
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError writes a JSON error response with a status derived from the
// error type.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status := http.StatusInternalServerError
	if errors.Is(err, database.ErrNotFound) {
		status = http.StatusNotFound
	}

	requestID := middleware.GetReqID(r.Context())

	if logger != nil {
		logger.Error("request error",
			"request_id", requestID,
			"status", status,
			"error", err.Error(),
			"path", r.URL.Path,
		)
	}

	WriteJSON(w, status, ErrorResponse{
		Status:    http.StatusText(status),
		Detail:    err.Error(),
		RequestID: requestID,
	})
}

// WriteBadRequest writes a 400 response with a message.
func WriteBadRequest(w http.ResponseWriter, r *http.Request, detail string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Status:    http.StatusText(http.StatusBadRequest),
		Detail:    detail,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
