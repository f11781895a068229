package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", "water360", time.Hour)
	token, expiresAt, err := issuer.Issue(Caller{ID: 42, Role: RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expected future expiry, got %s", expiresAt)
	}

	caller, err := NewVerifier("secret", "water360").Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if caller.ID != 42 || caller.Role != RoleAdmin {
		t.Fatalf("unexpected caller %+v", caller)
	}
}

func TestVerifyRejects(t *testing.T) {
	issuer := NewIssuer("secret", "water360", time.Minute)
	token, _, err := issuer.Issue(Caller{ID: 7, Role: RoleCustomer})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	expired := NewVerifier("secret", "water360")
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	tests := []struct {
		name     string
		verifier *Verifier
		token    string
	}{
		{name: "wrong secret", verifier: NewVerifier("other", "water360"), token: token},
		{name: "wrong issuer", verifier: NewVerifier("secret", "someone-else"), token: token},
		{name: "expired", verifier: expired, token: token},
		{name: "garbage", verifier: NewVerifier("secret", "water360"), token: "not.a.token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.verifier.Verify(tt.token); err == nil {
				t.Fatal("expected verification error")
			}
		})
	}
}

func TestIssueRequiresIdentity(t *testing.T) {
	issuer := NewIssuer("secret", "water360", time.Hour)
	if _, _, err := issuer.Issue(Caller{Role: RoleAdmin}); err == nil {
		t.Fatal("expected error for zero id")
	}
	if _, _, err := issuer.Issue(Caller{ID: 1, Role: "root"}); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		role    string
		wantErr bool
	}{
		{name: "valid", id: "3", role: RoleCustomer},
		{name: "missing id", id: "", role: RoleCustomer, wantErr: true},
		{name: "bad id", id: "abc", role: RoleCustomer, wantErr: true},
		{name: "negative id", id: "-1", role: RoleAdmin, wantErr: true},
		{name: "unknown role", id: "3", role: "root", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			h.Set(HeaderUserID, tt.id)
			h.Set(HeaderUserRole, tt.role)
			caller, err := FromHeader(h)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", caller)
				}
				return
			}
			if err != nil {
				t.Fatalf("from header: %v", err)
			}
			if caller.ID != 3 || caller.Role != RoleCustomer {
				t.Fatalf("unexpected caller %+v", caller)
			}
		})
	}
}

func TestBearerAndRequireRole(t *testing.T) {
	issuer := NewIssuer("secret", "water360", time.Hour)
	verifier := NewVerifier("secret", "water360")
	customer, _, _ := issuer.Issue(Caller{ID: 1, Role: RoleCustomer})
	admin, _, _ := issuer.Issue(Caller{ID: 2, Role: RoleAdmin})

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, found := CallerFrom(r.Context()); !found {
			t.Error("expected caller in context")
		}
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Bearer(verifier)(RequireRole(RoleAdmin)(ok))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "no header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + admin, want: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "customer", header: "Bearer " + customer, want: http.StatusForbidden},
		{name: "admin", header: "bearer " + admin, want: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/data/readings/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestFromHeadersMiddleware(t *testing.T) {
	handler := FromHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, _ := CallerFrom(r.Context())
		if caller.ID != 9 {
			t.Errorf("expected caller 9, got %d", caller.ID)
		}
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/data/warnings", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without headers, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/data/warnings", nil)
	for k, v := range (Caller{ID: 9, Role: RoleCustomer}).Headers() {
		req.Header.Set(k, v)
	}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
