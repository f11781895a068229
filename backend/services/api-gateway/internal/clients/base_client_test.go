package clients

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestDoForwardsRequest(t *testing.T) {
	var (
		gotPath, gotQuery, gotRole, gotBody, gotType string
	)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		gotRole = r.Header.Get("X-User-Role")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer upstream.Close()

	client := NewTelemetryClient(NewBaseClient("telemetry", upstream.URL+"/", upstream.Client(), BreakerSettings{}, zap.NewNop()))
	resp, err := client.Forward(context.Background(), http.MethodPost, "readings", "a=1&b=2", []byte(`{"x":1}`),
		map[string]string{"X-User-Role": "admin", "X-Empty": ""})
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if resp.Status != http.StatusCreated || string(resp.Body) != `{"id":1}` {
		t.Fatalf("unexpected response %d %s", resp.Status, resp.Body)
	}
	if gotPath != "/data/readings" || gotQuery != "a=1&b=2" {
		t.Fatalf("unexpected target %s?%s", gotPath, gotQuery)
	}
	if gotRole != "admin" || gotBody != `{"x":1}` || gotType != "application/json" {
		t.Fatalf("unexpected forwarded request role=%q body=%q type=%q", gotRole, gotBody, gotType)
	}
}

func TestDoReturnsClientErrorsAsResponses(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer upstream.Close()

	base := NewBaseClient("auth", upstream.URL, upstream.Client(), BreakerSettings{Failures: 1}, zap.NewNop())
	for i := 0; i < 3; i++ {
		resp, err := base.Do(context.Background(), Request{Method: http.MethodGet, Path: "/auth/me"})
		if err != nil {
			t.Fatalf("call %d: 4xx must not trip the breaker: %v", i, err)
		}
		if resp.Status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.Status)
		}
	}
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer upstream.Close()

	base := NewBaseClient("flaky", upstream.URL, upstream.Client(), BreakerSettings{Failures: 2, Timeout: time.Minute}, zap.NewNop())
	for i := 0; i < 2; i++ {
		resp, err := base.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
		if err != nil {
			t.Fatalf("call %d: expected 5xx response, got error %v", i, err)
		}
		if resp.Status != http.StatusInternalServerError {
			t.Fatalf("expected 500 passthrough, got %d", resp.Status)
		}
	}

	if _, err := base.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable once open, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected open breaker to skip upstream, got %d calls", got)
	}
}

func TestTransportErrorIsReturned(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	base := NewBaseClient("down", url, NewDefaultHTTPClient(time.Second), BreakerSettings{}, zap.NewNop())
	_, err := base.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x"})
	if err == nil || errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected transport error, got %v", err)
	}
}
