package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/oaklinehq/scheduler/internal/scheduling"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the scheduling error taxonomy onto HTTP status codes.
// Anything unrecognized is an internal error and gets logged without leaking
// detail to the client.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		notFound    *scheduling.NotFoundError
		validation  *scheduling.ValidationError
		conflict    *scheduling.ConflictError
		forbidden   *scheduling.ForbiddenError
		unsupported *scheduling.UnsupportedValueError
	)
	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: notFound.Error()})
	case errors.As(err, &unsupported):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: unsupported.Error()})
	case errors.As(err, &validation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: validation.Error()})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: conflict.Error()})
	case errors.As(err, &forbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: forbidden.Error()})
	default:
		logger.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
