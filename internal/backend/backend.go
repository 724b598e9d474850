// Package backend defines the contract between the dashboard's access layer
// and the managed relational backend that owns all persistence and
// authentication.
package backend

import (
	"context"

	"github.com/edvin/backupdash/internal/model"
)

// Table names consumed by the dashboard.
const (
	TableMachines     = "machines"
	TableBackupJobs   = "backup_jobs"
	TableBackupLogs   = "backup_logs"
	TableSystemAlerts = "system_alerts"
	TableProfiles     = "profiles"
)

// Store exposes table-scoped reads and aggregate queries.
type Store interface {
	// Select decodes every matching row into dest, which must be a pointer to
	// a slice. Rows are JSON objects; embedded rows appear as nested objects
	// under their alias, or null when the reference does not resolve.
	Select(ctx context.Context, q Query, dest any) error
	// SelectOne decodes the first matching row into dest or returns ErrNotFound.
	SelectOne(ctx context.Context, q Query, dest any) error
	Count(ctx context.Context, table string, filters ...Filter) (int, error)
	Sum(ctx context.Context, table, column string, filters ...Filter) (int64, error)
	CountBuckets(ctx context.Context, q BucketQuery) ([]BucketCount, error)
}

// Authenticator is the email/password identity provider of the backend.
type Authenticator interface {
	SignInWithPassword(ctx context.Context, email, password string) (*model.Identity, error)
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	VerifyToken(ctx context.Context, token string) (*model.Identity, error)
}

// Pinger is implemented by stores that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Client is the process-wide backend handle. It is built once from
// configuration and never mutated afterwards. A nil Client, or one without a
// Store, is the unconfigured state.
type Client struct {
	Name  string
	Store Store
	Auth  Authenticator
}

// Configured reports whether queries can be issued.
func (c *Client) Configured() bool {
	return c != nil && c.Store != nil
}

// AuthConfigured reports whether sign-in and password reset are available.
func (c *Client) AuthConfigured() bool {
	return c != nil && c.Auth != nil
}

// Ping checks the store when it supports it. Unconfigured clients and stores
// without a health probe report nil.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Configured() {
		return nil
	}
	if p, ok := c.Store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
