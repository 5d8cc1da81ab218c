package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func authedRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), "user_id", int64(1))
	ctx = context.WithValue(ctx, "email", "user@example.com")
	return req.WithContext(ctx)
}

func TestGetTransactionsRejectsBadQueryParams(t *testing.T) {
	handler := GetTransactions(nil)

	tests := []struct {
		name   string
		target string
	}{
		{"non-numeric account_id", "/api/transactions?account_id=abc"},
		{"non-numeric limit", "/api/transactions?limit=ten"},
		{"negative limit", "/api/transactions?limit=-5"},
		{"non-numeric offset", "/api/transactions?offset=abc"},
		{"negative offset", "/api/transactions?offset=-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, authedRequest(http.MethodGet, tt.target))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}
