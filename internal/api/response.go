package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"crop_service/internal/domain/model"
	"crop_service/internal/infrastructure/weather"
)

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func writeError(w http.ResponseWriter, status int, code, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": errorBody{Code: code, Message: message, RequestID: requestID},
	})
}

// mapError translates service errors into an HTTP status and error code.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrRegionRequired),
		errors.Is(err, model.ErrInvalidCropName):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, model.ErrEmptyScoreSet):
		return http.StatusBadGateway, "empty_score_set"
	case errors.Is(err, model.ErrInvalidProbabilities),
		errors.Is(err, model.ErrDuplicateCrop):
		return http.StatusBadGateway, "invalid_classifier_output"
	case errors.Is(err, weather.ErrAPIKeyMissing):
		return http.StatusServiceUnavailable, "weather_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status, code := mapError(err)
	reqID := requestIDFromContext(r.Context())
	level := slog.LevelWarn
	if status >= 500 {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "http operation failed",
		"operation", operation,
		"outcome", "failure",
		"status_code", status,
		"error_code", code,
		"request_id", reqID,
		"error", err.Error(),
	)
	writeError(w, status, code, err.Error(), reqID)
}
