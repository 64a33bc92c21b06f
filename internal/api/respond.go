package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"phonestore/internal/errors"
)

type ErrorResponse struct {
	Error   string                    `json:"error"`
	Message string                    `json:"message"`
	Details []errors.ValidationDetail `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// WriteError maps the error taxonomy onto HTTP statuses. Anything outside the
// taxonomy is an internal error and its detail stays out of the response.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if ve, ok := errors.IsValidationError(err); ok {
		WriteJSON(w, logger, http.StatusBadRequest, ErrorResponse{
			Error:   "VALIDATION_ERROR",
			Message: ve.Message,
			Details: ve.Details,
		})
		return
	}
	if _, ok := errors.IsNotFoundError(err); ok {
		WriteJSON(w, logger, http.StatusNotFound, ErrorResponse{Error: "NOT_FOUND", Message: err.Error()})
		return
	}
	if _, ok := errors.IsInsufficientStockError(err); ok {
		WriteJSON(w, logger, http.StatusBadRequest, ErrorResponse{Error: "INSUFFICIENT_STOCK", Message: err.Error()})
		return
	}
	if _, ok := errors.IsConflictError(err); ok {
		WriteJSON(w, logger, http.StatusConflict, ErrorResponse{Error: "CONFLICT", Message: err.Error()})
		return
	}
	if _, ok := errors.IsInvalidStateTransitionError(err); ok {
		WriteJSON(w, logger, http.StatusConflict, ErrorResponse{Error: "INVALID_STATE_TRANSITION", Message: err.Error()})
		return
	}
	if _, ok := errors.IsUnauthorizedError(err); ok {
		WriteJSON(w, logger, http.StatusUnauthorized, ErrorResponse{Error: "UNAUTHORIZED", Message: err.Error()})
		return
	}
	if _, ok := errors.IsForbiddenError(err); ok {
		WriteJSON(w, logger, http.StatusForbidden, ErrorResponse{Error: "FORBIDDEN", Message: err.Error()})
		return
	}
	if _, ok := errors.IsDeadlockError(err); ok {
		WriteJSON(w, logger, http.StatusConflict, ErrorResponse{Error: "DEADLOCK", Message: err.Error()})
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	WriteJSON(w, logger, http.StatusInternalServerError, ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: "an unexpected error occurred",
	})
}
