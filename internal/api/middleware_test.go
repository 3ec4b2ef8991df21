package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mongodb-industry-solutions/leafy-bank-backend-openfinance/internal/domain"
)

func TestBearerTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "prefixed token", header: "Bearer abc123", want: "abc123"},
		{name: "bare token", header: "abc123", want: "abc123"},
		{name: "padded header", header: "  Bearer abc123  ", want: "abc123"},
		{name: "empty header", header: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := bearerTokenFromRequest(req); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCredentialFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Api-Key", "key-secret")
	req.Header.Set("Authorization", "Bearer token-secret")

	if got := credentialFromRequest(req, domain.SchemeAPIKey); got != "key-secret" {
		t.Fatalf("expected %q, got %q", "key-secret", got)
	}
	if got := credentialFromRequest(req, domain.SchemeBearerToken); got != "token-secret" {
		t.Fatalf("expected %q, got %q", "token-secret", got)
	}
}

func TestRemoteAddress(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:54321"
	if got := remoteAddress(req); got != "10.0.0.7" {
		t.Fatalf("expected 10.0.0.7, got %q", got)
	}

	req.RemoteAddr = "10.0.0.7"
	if got := remoteAddress(req); got != "10.0.0.7" {
		t.Fatalf("expected the raw address when no port is present, got %q", got)
	}
}

func TestRateLimit_NilLimiterPassesThrough(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	handler := RateLimit(nil, "test", 1)(next)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Fatal("expected the request to pass through with no limiter")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
