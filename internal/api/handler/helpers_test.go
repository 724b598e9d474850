package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/backupdash/internal/api/response"
	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/backend/backendtest"
	"github.com/edvin/backupdash/internal/core"
)

const (
	resetURL  = "https://dash.example.com/reset-password"
	profileID = "7b0f5c7e-3f6a-4c55-9a0e-2d1f3c4b5a69"
)

var errBackend = &backend.Error{Op: "select", Table: "machines", StatusCode: 503, Message: "upstream timeout"}

// jsonRequest builds a request whose body is body marshalled as JSON, or
// sent verbatim when body is already a string.
func jsonRequest(method, target string, body any) *http.Request {
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			panic(err)
		}
		rd = strings.NewReader(string(raw))
	}
	r := httptest.NewRequest(method, target, rd)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// withPathParam sets a chi URL parameter as the router would.
func withPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// errorMessage returns the "error" field of a JSON error reply.
func errorMessage(rec *httptest.ResponseRecorder) string {
	var body response.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return body.Error
}

func newTestServices() (*core.Services, *backendtest.Store, *backendtest.Auth) {
	client, store, auth := backendtest.NewClient()
	return core.NewServices(client, core.Options{ResetRedirectURL: resetURL}), store, auth
}
