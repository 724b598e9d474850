// Package backendtest provides testify mocks of the backend contract for use
// in other packages' tests.
package backendtest

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/model"
)

// Store implements backend.Store. Select and SelectOne expectations return a
// JSON document that is decoded into dest.
type Store struct {
	mock.Mock
}

func (m *Store) Select(ctx context.Context, q backend.Query, dest any) error {
	args := m.Called(ctx, q)
	return decodeInto(args.String(0), dest, args.Error(1))
}

func (m *Store) SelectOne(ctx context.Context, q backend.Query, dest any) error {
	args := m.Called(ctx, q)
	return decodeInto(args.String(0), dest, args.Error(1))
}

func (m *Store) Count(ctx context.Context, table string, filters ...backend.Filter) (int, error) {
	args := m.Called(ctx, table, filters)
	return args.Int(0), args.Error(1)
}

func (m *Store) Sum(ctx context.Context, table, column string, filters ...backend.Filter) (int64, error) {
	args := m.Called(ctx, table, column, filters)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) CountBuckets(ctx context.Context, q backend.BucketQuery) ([]backend.BucketCount, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]backend.BucketCount), args.Error(1)
}

func decodeInto(doc string, dest any, err error) error {
	if err != nil {
		return err
	}
	if doc == "" {
		return nil
	}
	return json.Unmarshal([]byte(doc), dest)
}

// Auth implements backend.Authenticator.
type Auth struct {
	mock.Mock
}

func (m *Auth) SignInWithPassword(ctx context.Context, email, password string) (*model.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Identity), args.Error(1)
}

func (m *Auth) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	args := m.Called(ctx, email, redirectTo)
	return args.Error(0)
}

func (m *Auth) VerifyToken(ctx context.Context, token string) (*model.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Identity), args.Error(1)
}

// NewClient returns a configured client backed by fresh mocks.
func NewClient() (*backend.Client, *Store, *Auth) {
	store := &Store{}
	auth := &Auth{}
	return &backend.Client{Name: "mock", Store: store, Auth: auth}, store, auth
}

// ForTable matches a backend.Query on its table.
func ForTable(table string) any {
	return mock.MatchedBy(func(q backend.Query) bool { return q.Table == table })
}

var (
	_ backend.Store         = (*Store)(nil)
	_ backend.Authenticator = (*Auth)(nil)
)
