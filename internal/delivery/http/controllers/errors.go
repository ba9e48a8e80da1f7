package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "marathonhub/internal/delivery/http/helpers"
	"marathonhub/internal/delivery/http/middleware"
	"marathonhub/internal/domain"
)

// reason strips the sentinel prefix from a wrapped domain error, leaving the detail for the client.
func reason(err, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}

// writeServiceError maps a service error to the HTTP status and error code of the API.
// notFound is the message used when the target entity does not exist.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, reason(err, domain.ErrInvalidInput))
	case errors.Is(err, domain.ErrConflict):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeConflict, reason(err, domain.ErrConflict))
	case errors.Is(err, domain.ErrUserNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, notFound)
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
	}
}

// callerID returns the authenticated user id, writing 401 when there is none.
func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
	}
	return id, ok
}
