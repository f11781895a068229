package clients

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"water360/backend/libs/metrics"
)

// maxResponseBytes caps upstream bodies read into memory.
const maxResponseBytes = 4 << 20

// ErrUnavailable is returned while an upstream's breaker is open.
var ErrUnavailable = errors.New("upstream unavailable")

// HTTPDoer defines http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Request describes one upstream call.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Body     []byte
	Headers  map[string]string
}

// Response is a fully read upstream reply.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// statusError marks a 5xx reply so the breaker counts it as a failure.
type statusError struct {
	resp *Response
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream returned %d", e.resp.Status)
}

// BreakerSettings controls when an upstream is cut off.
type BreakerSettings struct {
	Failures uint32
	Timeout  time.Duration
}

// BaseClient executes upstream requests behind a circuit breaker.
type BaseClient struct {
	name    string
	baseURL string
	client  HTTPDoer
	breaker *gobreaker.CircuitBreaker[*Response]
	logger  *zap.Logger
}

// NewBaseClient builds client with base URL. name labels metrics and logs.
func NewBaseClient(name, baseURL string, client HTTPDoer, settings BreakerSettings, logger *zap.Logger) *BaseClient {
	if settings.Failures == 0 {
		settings.Failures = 5
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}

	metrics.BreakerState.WithLabelValues(name).Set(0)
	breaker := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.Failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("upstream", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.BreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &BaseClient{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		breaker: breaker,
		logger:  logger,
	}
}

func (c *BaseClient) buildURL(path, rawQuery string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	return u
}

// Do executes req. Upstream 4xx and 5xx replies are returned as responses, not
// errors; transport failures and an open breaker are errors.
func (c *BaseClient) Do(ctx context.Context, req Request) (*Response, error) {
	resp, err := c.breaker.Execute(func() (*Response, error) {
		resp, err := c.roundTrip(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp.Status >= http.StatusInternalServerError {
			return resp, &statusError{resp: resp}
		}
		return resp, nil
	})

	var serr *statusError
	switch {
	case err == nil:
		metrics.UpstreamRequests.WithLabelValues(c.name, "success").Inc()
		return resp, nil
	case errors.As(err, &serr):
		metrics.UpstreamRequests.WithLabelValues(c.name, "server_error").Inc()
		return serr.resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.UpstreamRequests.WithLabelValues(c.name, "rejected").Inc()
		return nil, fmt.Errorf("%s: %w", c.name, ErrUnavailable)
	default:
		metrics.UpstreamRequests.WithLabelValues(c.name, "error").Inc()
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}
}

func (c *BaseClient) roundTrip(ctx context.Context, r Request) (*Response, error) {
	var reader io.Reader
	if len(r.Body) > 0 {
		reader = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, c.buildURL(r.Path, r.RawQuery), reader)
	if err != nil {
		return nil, err
	}
	for k, v := range r.Headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}
	if len(r.Body) > 0 && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// NewDefaultHTTPClient returns *http.Client with timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
