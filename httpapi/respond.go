package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"

	"github.com/logitrack/logitrack/store"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps a service error onto the response: validation failures
// are client errors with per-field detail, a missing row is 404, and
// anything else from the store is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message": "validation failed",
			"errors":  verrs,
		})
	case errors.Is(err, store.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "resource not found")
	default:
		s.log.Error("request failed", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}
