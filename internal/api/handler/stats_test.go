package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/backend/backendtest"
	"github.com/edvin/backupdash/internal/model"
)

func expectStats(store *backendtest.Store, total, success, alerts int, mb int64) {
	store.On("Count", mock.Anything, backend.TableBackupLogs, []backend.Filter(nil)).Return(total, nil)
	store.On("Count", mock.Anything, backend.TableBackupLogs, []backend.Filter{backend.Eq("status", "success")}).Return(success, nil)
	store.On("Count", mock.Anything, backend.TableSystemAlerts, []backend.Filter{backend.Eq("is_resolved", false)}).Return(alerts, nil)
	store.On("Sum", mock.Anything, backend.TableBackupLogs, "size_mb", []backend.Filter{backend.Eq("status", "success")}).Return(mb, nil)
}

func TestStatsGet(t *testing.T) {
	svc, store, _ := newTestServices()
	expectStats(store, 10, 9, 1, 2097152)

	rec := httptest.NewRecorder()
	NewStats(svc.Stats).Get(rec, jsonRequest(http.MethodGet, "/api/v1/stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got model.DashboardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 10, got.TotalBackups)
	assert.Equal(t, 90, got.SuccessRate)
	assert.Equal(t, "2.0 TB", got.TotalDataProtected)
	assert.Equal(t, 1, got.ActiveAlerts)
}

func TestStatsGet_BackendError(t *testing.T) {
	svc, store, _ := newTestServices()
	store.On("Count", mock.Anything, mock.Anything, mock.Anything).Return(0, errBackend)
	store.On("Sum", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)

	rec := httptest.NewRecorder()
	NewStats(svc.Stats).Get(rec, jsonRequest(http.MethodGet, "/api/v1/stats", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
