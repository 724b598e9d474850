package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/backend/postgres"
	"github.com/edvin/backupdash/internal/backend/rest"
	"github.com/edvin/backupdash/internal/config"
)

// Backend is the process-wide backend handle together with the resources
// that must be released on shutdown.
type Backend struct {
	Client *backend.Client
	// Pool is set when the Postgres backend is active.
	Pool *pgxpool.Pool
}

// NewBackend builds the backend selected by cfg.BackendMode. Without
// credentials it returns an unconfigured client rather than an error.
func NewBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.BackendMode() {
	case config.ModeREST:
		return &Backend{Client: rest.NewBackend(rest.NewClient(cfg.BackendURL, cfg.BackendKey))}, nil

	case config.ModePostgres:
		pool, err := NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		var auth *postgres.Auth
		if cfg.JWTSecret != "" {
			auth = postgres.NewAuth(pool, cfg.JWTSecret, cfg.JWTIssuer)
		}
		return &Backend{Client: postgres.NewBackend(pool, auth), Pool: pool}, nil
	}

	return &Backend{Client: &backend.Client{Name: "unconfigured"}}, nil
}

// Close releases the database pool, if any.
func (b *Backend) Close() {
	if b.Pool != nil {
		b.Pool.Close()
	}
}
