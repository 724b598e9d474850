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
	"github.com/edvin/backupdash/internal/model"
)

func TestActivitySeries_Defaults(t *testing.T) {
	svc, store, _ := newTestServices()
	store.On("CountBuckets", mock.Anything, mock.MatchedBy(func(q backend.BucketQuery) bool {
		return q.Granularity == backend.GranularityDay && q.Table == backend.TableBackupLogs
	})).Return([]backend.BucketCount{}, nil)

	rec := httptest.NewRecorder()
	NewActivity(svc.Activity, backend.GranularityDay, 7).Series(rec, jsonRequest(http.MethodGet, "/api/v1/activity", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []model.ActivityBucket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 7)
}

func TestActivitySeries_Hourly(t *testing.T) {
	svc, store, _ := newTestServices()
	store.On("CountBuckets", mock.Anything, mock.MatchedBy(func(q backend.BucketQuery) bool {
		return q.Granularity == backend.GranularityHour
	})).Return([]backend.BucketCount{}, nil)

	rec := httptest.NewRecorder()
	NewActivity(svc.Activity, backend.GranularityDay, 7).Series(rec, jsonRequest(http.MethodGet, "/api/v1/activity?granularity=hour&days=2", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []model.ActivityBucket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 48)
}

func TestActivitySeries_InvalidParams(t *testing.T) {
	svc, store, _ := newTestServices()
	h := NewActivity(svc.Activity, backend.GranularityDay, 7)

	for _, target := range []string{
		"/api/v1/activity?granularity=week",
		"/api/v1/activity?days=0",
		"/api/v1/activity?days=seven",
		"/api/v1/activity?granularity=hour&days=60",
	} {
		rec := httptest.NewRecorder()
		h.Series(rec, jsonRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	assert.Empty(t, store.Calls)
}
