package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"water360/backend/libs/httpx"
	"water360/backend/libs/identity"
	"water360/backend/services/api-gateway/internal/clients"
)

// passthroughHeaders are copied from upstream replies to the client.
var passthroughHeaders = []string{"Retry-After", "Allow"}

func writeUpstream(w http.ResponseWriter, resp *clients.Response) {
	for _, h := range passthroughHeaders {
		if v := resp.Header.Get(h); v != "" {
			w.Header().Set(h, v)
		}
	}
	httpx.WriteRaw(w, resp.Status, resp.Body)
}

func writeProxyError(w http.ResponseWriter, logger *zap.Logger, upstream string, err error) {
	if errors.Is(err, clients.ErrUnavailable) {
		logger.Warn("upstream circuit open", zap.String("upstream", upstream))
		httpx.WriteError(w, http.StatusServiceUnavailable, upstream+" temporarily unavailable")
		return
	}
	logger.Error("proxy failed", zap.String("upstream", upstream), zap.Error(err))
	httpx.WriteError(w, http.StatusBadGateway, upstream+" unavailable")
}

// readBody reads at most httpx.MaxBodyBytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	return io.ReadAll(http.MaxBytesReader(w, r.Body, httpx.MaxBodyBytes))
}

// forwardHeaders carries the request id and, when present, the verified caller.
func forwardHeaders(r *http.Request) map[string]string {
	headers := map[string]string{
		middleware.RequestIDHeader: middleware.GetReqID(r.Context()),
	}
	if caller, ok := identity.CallerFrom(r.Context()); ok {
		for k, v := range caller.Headers() {
			headers[k] = v
		}
	}
	return headers
}
