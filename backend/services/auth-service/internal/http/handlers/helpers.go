package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"water360/backend/libs/httpx"
	"water360/backend/services/auth-service/internal/service"
)

func writeServiceError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	var (
		verr   *service.ValidationError
		locked *service.LockedError
	)
	switch {
	case errors.As(err, &verr):
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error": verr.Message,
			"field": verr.Field,
		})
	case errors.As(err, &locked):
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(locked.RetryAfter.Seconds()))))
		httpx.WriteError(w, http.StatusTooManyRequests, "too many failed login attempts")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrUserExists):
		httpx.WriteError(w, http.StatusConflict, "username or email already registered")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "user not found")
	default:
		logger.Error("request failed", zap.String("op", op), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "failed to "+op)
	}
}
