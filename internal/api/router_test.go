package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/zetruc/pulse/internal/api/handler"
	"github.com/zetruc/pulse/internal/core/domain"
)

type tokenAuthenticator map[string]domain.Principal

func (a tokenAuthenticator) Authenticate(_ context.Context, token string) (domain.Principal, error) {
	p, ok := a[token]
	if !ok {
		return domain.Principal{}, domain.ErrInvalidCredentials
	}
	return p, nil
}

// newTestRouter mounts handlers without services; only routes that stop in
// middleware or need no service are exercised.
func newTestRouter() http.Handler {
	authn := tokenAuthenticator{
		"user-token": {UserID: "u1", Role: domain.RoleUser, TokenID: "j1"},
	}
	reg := prometheus.NewRegistry()
	return NewRouter(Config{Log: zerolog.Nop(), Authn: authn, Registerer: reg, Gatherer: reg}, Handlers{
		Auth:       handler.NewAuthHandler(nil, false),
		Project:    handler.NewProjectHandler(nil),
		Domain:     handler.NewDomainHandler(nil),
		Suggestion: handler.NewSuggestionHandler(nil),
		Analysis:   handler.NewAnalysisHandler(nil),
		User:       handler.NewUserHandler(nil),
		LLMKey:     handler.NewLLMKeyHandler(nil),
		Admin:      handler.NewAdminHandler(nil, nil),
		Health:     handler.NewHealthHandler(),
	})
}

func do(t *testing.T, h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicEndpoints(t *testing.T) {
	r := newTestRouter()

	if rec := do(t, r, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("/health: expected 200, got %d", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, "/health/ready", ""); rec.Code != http.StatusOK {
		t.Fatalf("/health/ready: expected 200, got %d", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, "/metrics", ""); rec.Code != http.StatusOK {
		t.Fatalf("/metrics: expected 200, got %d", rec.Code)
	}
}

func TestRouter_RequiresAuth(t *testing.T) {
	r := newTestRouter()

	for _, target := range []string{"/api/projects", "/api/auth/me", "/api/admin/stats"} {
		if rec := do(t, r, http.MethodGet, target, ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", target, rec.Code)
		}
	}
	if rec := do(t, r, http.MethodGet, "/api/projects", "bogus"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", rec.Code)
	}
}

func TestRouter_AdminRequiresRole(t *testing.T) {
	r := newTestRouter()

	for _, target := range []string{"/api/admin/stats", "/api/admin/users", "/api/admin/llm-keys"} {
		if rec := do(t, r, http.MethodGet, target, "user-token"); rec.Code != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", target, rec.Code)
		}
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := newTestRouter()

	if rec := do(t, r, http.MethodGet, "/api/nope", "user-token"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
