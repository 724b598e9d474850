package core

import (
	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/backend/backendtest"
)

type mockStore = backendtest.Store

func newTestClient() (*backend.Client, *backendtest.Store, *backendtest.Auth) {
	return backendtest.NewClient()
}

func forTable(table string) any {
	return backendtest.ForTable(table)
}

var errBackend = &backend.Error{Op: "select", Table: "machines", StatusCode: 500, Message: "upstream timeout"}
