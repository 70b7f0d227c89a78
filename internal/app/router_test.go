package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardline/wardline/internal/dashboard"
	dashboardhttp "github.com/wardline/wardline/internal/dashboard/http"
	"github.com/wardline/wardline/internal/observability"
	"github.com/wardline/wardline/jobs"
)

type fakeDashboard struct{}

func (fakeDashboard) Snapshot(_ context.Context, profile dashboard.Profile) (dashboard.Result, error) {
	return dashboard.Result{Profile: profile}, nil
}

func (fakeDashboard) Invalidate(context.Context) error { return nil }

func newTestAppRouter(t *testing.T, keys *APIKeyGuard, readiness map[string]Pinger) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(RouterParams{
		Logger:           logger,
		Config:           &Config{AppEnv: "test"},
		Metrics:          observability.NewMetrics(),
		DashboardHandler: dashboardhttp.NewHandler(logger, fakeDashboard{}, nil, nil),
		JobHandler:       jobs.NewHandler(nil, logger),
		APIKeys:          keys,
		Readiness:        readiness,
	})
}

func serve(h http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouterServesOperationalEndpoints(t *testing.T) {
	router := newTestAppRouter(t, nil, nil)

	rec := serve(router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(router, http.MethodGet, "/dashboard/?role=lab", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res dashboard.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, dashboard.RoleLab, res.Profile.ID)

	rec = serve(router, http.MethodGet, "/jobs/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "wardline_http_requests_total"))
}

func TestRouterGuardsDashboardOnly(t *testing.T) {
	router := newTestAppRouter(t, NewAPIKeyGuard([]string{hashKey(t, "k1")}, nil), nil)

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/dashboard/", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/jobs/health", nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/dashboard/profiles", map[string]string{APIKeyHeader: "k1"}).Code)
}

func TestReadiness(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	rec := serve(newTestAppRouter(t, nil, map[string]Pinger{"redis": up}), http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"redis":"ok"}`, rec.Body.String())

	rec = serve(newTestAppRouter(t, nil, map[string]Pinger{"redis": up, "postgres": down}), http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"redis":"ok","postgres":"down"}`, rec.Body.String())
}
