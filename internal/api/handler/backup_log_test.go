package handler

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/backupdash/internal/api/request"
	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/export"
	"github.com/edvin/backupdash/internal/model"
)

const logsDoc = `[
	{"id":"l-2","status":"success","size_mb":512,"duration_seconds":40,"created_at":"2026-03-08T12:00:00Z","machines":{"name":"srv-01"},"backup_jobs":{"name":"nightly"}},
	{"id":"l-1","status":"failed","created_at":"2026-03-08T10:00:00Z","machines":null,"backup_jobs":null}
]`

func withLimit(limit int) any {
	return mock.MatchedBy(func(q backend.Query) bool {
		return q.Table == backend.TableBackupLogs && q.Limit == limit
	})
}

func TestBackupLogList(t *testing.T) {
	svc, store, _ := newTestServices()
	store.On("Select", mock.Anything, withLimit(5)).Return(logsDoc, nil)

	rec := httptest.NewRecorder()
	NewBackupLog(svc.BackupLog).List(rec, jsonRequest(http.MethodGet, "/api/v1/logs?limit=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []model.BackupLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "srv-01", got[0].MachineName)
	assert.Equal(t, model.UnknownMachineName, got[1].MachineName)
	assert.Equal(t, model.ManualJobName, got[1].JobName)
}

func TestBackupLogList_DefaultAndCappedLimit(t *testing.T) {
	svc, store, _ := newTestServices()
	store.On("Select", mock.Anything, withLimit(request.DefaultLimit)).Return(`[]`, nil).Once()
	store.On("Select", mock.Anything, withLimit(request.MaxLimit)).Return(`[]`, nil).Once()
	h := NewBackupLog(svc.BackupLog)

	rec := httptest.NewRecorder()
	h.List(rec, jsonRequest(http.MethodGet, "/api/v1/logs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.List(rec, jsonRequest(http.MethodGet, "/api/v1/logs?limit=5000", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	store.AssertExpectations(t)
}

func TestBackupLogList_InvalidLimit(t *testing.T) {
	svc, store, _ := newTestServices()

	for _, q := range []string{"0", "-2", "abc"} {
		rec := httptest.NewRecorder()
		NewBackupLog(svc.BackupLog).List(rec, jsonRequest(http.MethodGet, "/api/v1/logs?limit="+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
	assert.Empty(t, store.Calls)
}

func TestBackupLogExportCSV(t *testing.T) {
	svc, store, _ := newTestServices()
	store.On("Select", mock.Anything, withLimit(request.DefaultLimit)).Return(logsDoc, nil)

	h := NewBackupLog(svc.BackupLog)
	h.now = func() time.Time { return time.Date(2026, 3, 8, 15, 30, 0, 0, time.UTC) }

	rec := httptest.NewRecorder()
	h.ExportCSV(rec, jsonRequest(http.MethodGet, "/api/v1/logs/export.csv", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="backup-logs-20260308-153000.csv"`, rec.Header().Get("Content-Disposition"))

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, export.LogsHeader, records[0])
	assert.Equal(t, "l-2", records[1][0])
	assert.Equal(t, "nightly", records[1][3])
}

func TestBackupLogExportCSV_BackendError(t *testing.T) {
	svc, store, _ := newTestServices()
	store.On("Select", mock.Anything, mock.Anything).Return("", errBackend)

	rec := httptest.NewRecorder()
	NewBackupLog(svc.BackupLog).ExportCSV(rec, jsonRequest(http.MethodGet, "/api/v1/logs/export.csv", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
