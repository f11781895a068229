package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Location string `json:"location"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"location":"uk"}`))
	if err := DecodeJSON(req, &dst); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dst.Location != "uk" {
		t.Fatalf("expected uk, got %q", dst.Location)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := DecodeJSON(req, &dst); !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"location":}`))
	if err := DecodeJSON(req, &dst); err == nil || errors.Is(err, ErrEmptyBody) {
		t.Fatalf("expected syntax error, got %v", err)
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, "invalid metric")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"error":"invalid metric"}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestRecovererAndRoutePattern(t *testing.T) {
	logger := zap.NewNop()
	r := chi.NewRouter()
	r.Use(RequestLogger(logger))
	r.Use(Recoverer(logger))

	var pattern string
	r.Get("/data/readings/{id}", func(w http.ResponseWriter, r *http.Request) {
		pattern = RoutePattern(r)
		panic("boom")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/readings/4", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if pattern != "/data/readings/{id}" {
		t.Fatalf("unexpected pattern %q", pattern)
	}
}
