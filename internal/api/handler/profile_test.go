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

func TestProfileGet(t *testing.T) {
	svc, store, _ := newTestServices()
	store.On("SelectOne", mock.Anything, backend.Query{
		Table:   backend.TableProfiles,
		Filters: []backend.Filter{backend.Eq("id", profileID)},
	}).Return(`{"id":"`+profileID+`","email":"ops@example.com","role":"admin"}`, nil)

	rec := httptest.NewRecorder()
	r := withPathParam(jsonRequest(http.MethodGet, "/api/v1/profiles/"+profileID, nil), "id", profileID)
	NewProfile(svc.Profile).Get(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got model.UserProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "admin", got.Role)
}

func TestProfileGet_NotFound(t *testing.T) {
	svc, store, _ := newTestServices()
	store.On("SelectOne", mock.Anything, mock.Anything).Return("", backend.ErrNotFound)

	rec := httptest.NewRecorder()
	r := withPathParam(jsonRequest(http.MethodGet, "/api/v1/profiles/"+profileID, nil), "id", profileID)
	NewProfile(svc.Profile).Get(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "profile not found", errorMessage(rec))
}

func TestProfileGet_InvalidID(t *testing.T) {
	svc, store, _ := newTestServices()

	rec := httptest.NewRecorder()
	r := withPathParam(jsonRequest(http.MethodGet, "/api/v1/profiles/me", nil), "id", "me")
	NewProfile(svc.Profile).Get(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.Calls)
}
