package clients

import (
	"context"
	"strings"
)

// TelemetryClient forwards dashboard calls to telemetry-service.
type TelemetryClient struct {
	base *BaseClient
}

// NewTelemetryClient returns client.
func NewTelemetryClient(base *BaseClient) *TelemetryClient {
	return &TelemetryClient{base: base}
}

// Forward sends method and body to /data/<path> with the original query string.
func (c *TelemetryClient) Forward(ctx context.Context, method, path, rawQuery string, body []byte, headers map[string]string) (*Response, error) {
	return c.base.Do(ctx, Request{
		Method:   method,
		Path:     "/data/" + strings.TrimLeft(path, "/"),
		RawQuery: rawQuery,
		Body:     body,
		Headers:  headers,
	})
}
