package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/taskhive-inc/taskhive/pkg/apperrors"
)

// writeServiceError maps a service error to its HTTP status and writes
// the failure envelope. Anything outside the error taxonomy is a 500 and
// gets logged; taxonomy errors are expected outcomes and are not.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, apperrors.ErrForbidden),
		errors.Is(err, apperrors.ErrRoleMismatch):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("Unhandled service error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
