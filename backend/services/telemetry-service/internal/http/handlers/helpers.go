package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"water360/backend/libs/httpx"
	"water360/backend/services/telemetry-service/internal/metric"
	"water360/backend/services/telemetry-service/internal/service"
)

type listResponse struct {
	Count int         `json:"count"`
	Data  interface{} `json:"data"`
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, metric.ErrInvalidMetric):
		httpx.WriteError(w, http.StatusBadRequest, "invalid metric")
	case errors.As(err, &verr):
		httpx.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error": verr.Message,
			"field": verr.Field,
		})
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "reading not found")
	default:
		logger.Error("request failed", zap.String("op", op), zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, "failed to "+op)
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// queryList collects a multi-valued parameter given either repeated or comma separated.
// queryValue returns the first non-blank value among keys.
func queryValue(q url.Values, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			return v
		}
	}
	return ""
}

func queryList(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
