package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashKey(t *testing.T, key string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAPIKeyGuard(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	guard := NewAPIKeyGuard([]string{hashKey(t, "ward-key"), " "}, logger)
	require.True(t, guard.Enabled())
	h := guard.Middleware(okHandler())

	cases := []struct {
		name   string
		header map[string]string
		want   int
	}{
		{name: "missing", want: http.StatusUnauthorized},
		{name: "header", header: map[string]string{APIKeyHeader: "ward-key"}, want: http.StatusNoContent},
		{name: "bearer", header: map[string]string{"Authorization": "Bearer ward-key"}, want: http.StatusNoContent},
		{name: "wrong", header: map[string]string{APIKeyHeader: "nope"}, want: http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestAPIKeyGuardDisabled(t *testing.T) {
	guard := NewAPIKeyGuard(nil, nil)
	assert.False(t, guard.Enabled())

	var nilGuard *APIKeyGuard
	for _, g := range []*APIKeyGuard{guard, nilGuard} {
		rec := httptest.NewRecorder()
		g.Middleware(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestMiddlewareStackSetsSecurityHeaders(t *testing.T) {
	var h http.Handler = okHandler()
	stack := MiddlewareStack(MiddlewareConfig{Config: &Config{}})
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
