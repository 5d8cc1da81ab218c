package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthEndpoint(t *testing.T) {
	router := NewRouter(nil, nil, nil, []string{"http://localhost:3000"}, false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("body = %q, want ok", rec.Body.String())
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := NewRouter(nil, nil, nil, []string{"http://localhost:3000"}, false)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/accounts"},
		{http.MethodGet, "/api/transactions"},
		{http.MethodGet, "/api/budgets"},
		{http.MethodGet, "/api/goals"},
		{http.MethodGet, "/api/category-rules"},
		{http.MethodGet, "/api/plaid/items"},
		{http.MethodPost, "/api/assistant/chat"},
		{http.MethodGet, "/api/auth/me"},
	}

	for _, rt := range routes {
		req := httptest.NewRequest(rt.method, rt.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", rt.method, rt.path, rec.Code)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	router := NewRouter(nil, nil, nil, []string{"http://localhost:3000"}, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/accounts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q, want http://localhost:3000", got)
	}
}
