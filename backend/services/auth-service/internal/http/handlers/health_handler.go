package handlers

import (
	"context"
	"net/http"
	"time"

	"water360/backend/libs/httpx"
)

// NewHealthHandler returns GET /health handler. Each check is named in the
// response; a failing check turns the status to 503.
func NewHealthHandler(checks map[string]func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unavailable"
				body[name] = "down"
				continue
			}
			body[name] = "up"
		}
		httpx.WriteJSON(w, status, body)
	}
}
