package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/backend/backendtest"
	"github.com/edvin/backupdash/internal/config"
	"github.com/edvin/backupdash/internal/core"
	"github.com/edvin/backupdash/internal/model"
)

// pingStore adds a health probe to the mock store.
type pingStore struct {
	*backendtest.Store
	err error
}

func (p pingStore) Ping(context.Context) error { return p.err }

func testConfig() *config.Config {
	return &config.Config{
		AuthRequired:        true,
		ActivityGranularity: "day",
		ActivityDays:        7,
		CORSOrigins:         []string{"https://dash.example.com"},
	}
}

func newTestServer(client *backend.Client, cfg *config.Config) *Server {
	return NewServer(zerolog.Nop(), client, core.NewServices(client, core.Options{}), cfg)
}

func do(s *Server, method, target, token string, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, r)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(&backend.Client{}, testConfig())
	rec := do(s, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name   string
		client *backend.Client
		code   int
		check  string
	}{
		{"unconfigured", &backend.Client{}, http.StatusOK, "unconfigured"},
		{"healthy", &backend.Client{Store: pingStore{Store: &backendtest.Store{}}}, http.StatusOK, "ok"},
		{"down", &backend.Client{Store: pingStore{Store: &backendtest.Store{}, err: errors.New("connection refused")}}, http.StatusServiceUnavailable, "connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newTestServer(tt.client, testConfig()), http.MethodGet, "/readyz", "", "")
			assert.Equal(t, tt.code, rec.Code)

			var checks map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &checks))
			assert.Equal(t, tt.check, checks["backend"])
		})
	}
}

func TestAPI_RequiresBearerWhenAuthConfigured(t *testing.T) {
	client, store, auth := backendtest.NewClient()
	s := newTestServer(client, testConfig())
	auth.On("VerifyToken", mock.Anything, "good").Return(&model.Identity{UserID: "u-1"}, nil)
	store.On("Select", mock.Anything, backendtest.ForTable(backend.TableMachines)).Return(`[{"id":"m-1","name":"alpha"}]`, nil)

	rec := do(s, http.MethodGet, "/api/v1/machines", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(s, http.MethodGet, "/api/v1/machines", "good", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alpha")
}

func TestAPI_OpenWhenAuthNotRequired(t *testing.T) {
	client, store, auth := backendtest.NewClient()
	cfg := testConfig()
	cfg.AuthRequired = false
	s := newTestServer(client, cfg)
	store.On("Select", mock.Anything, backendtest.ForTable(backend.TableBackupJobs)).Return(`[]`, nil)

	rec := do(s, http.MethodGet, "/api/v1/jobs", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, auth.Calls)
}

func TestAPI_UnconfiguredServesEmptyData(t *testing.T) {
	s := newTestServer(&backend.Client{}, testConfig())

	for _, path := range []string{"/api/v1/machines", "/api/v1/logs", "/api/v1/alerts", "/api/v1/jobs"} {
		rec := do(s, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `[]`, rec.Body.String(), path)
	}

	rec := do(s, http.MethodGet, "/api/v1/stats", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var stats model.DashboardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "0 MB", stats.TotalDataProtected)

	rec = do(s, http.MethodPost, "/auth/login", "", `{"email":"ops@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAPI_LoginRoute(t *testing.T) {
	client, _, auth := backendtest.NewClient()
	s := newTestServer(client, testConfig())
	auth.On("SignInWithPassword", mock.Anything, "ops@example.com", "pw").
		Return(&model.Identity{UserID: "u-1", Email: "ops@example.com", AccessToken: "tok"}, nil)

	rec := do(s, http.MethodPost, "/auth/login", "", `{"email":"ops@example.com","password":"pw"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"tok"`)
}

func TestAPI_CORSPreflight(t *testing.T) {
	s := newTestServer(&backend.Client{}, testConfig())

	r := httptest.NewRequest(http.MethodOptions, "/api/v1/stats", nil)
	r.Header.Set("Origin", "https://dash.example.com")
	r.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://dash.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(&backend.Client{}, testConfig())
	do(s, http.MethodGet, "/healthz", "", "")

	rec := do(s, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `backupdash_api_requests_total{code="200",method="GET",route="/healthz"}`)
}
