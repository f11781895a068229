package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"water360/backend/libs/httpx"
	"water360/backend/services/api-gateway/internal/clients"
)

const telemetryUpstream = "telemetry service"

// DataHandlers forwards /api/data/* to telemetry-service.
type DataHandlers struct {
	client *clients.TelemetryClient
	logger *zap.Logger
}

// NewDataHandlers returns handler struct.
func NewDataHandlers(client *clients.TelemetryClient, logger *zap.Logger) *DataHandlers {
	return &DataHandlers{client: client, logger: logger}
}

// Proxy handles every method under /api/data/.
func (h *DataHandlers) Proxy(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}
	resp, err := h.client.Forward(r.Context(), r.Method, chi.URLParam(r, "*"), r.URL.RawQuery, body, forwardHeaders(r))
	if err != nil {
		writeProxyError(w, h.logger, telemetryUpstream, err)
		return
	}
	writeUpstream(w, resp)
}
