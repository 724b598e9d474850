package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"BACKEND_URL", "BACKEND_KEY", "DATABASE_URL", "JWT_SECRET", "JWT_ISSUER",
	"HTTP_LISTEN_ADDR", "LOG_LEVEL", "SERVICE_NAME", "CORS_ORIGINS",
	"RESET_REDIRECT_URL", "AUTH_REQUIRED", "ACTIVITY_GRANULARITY", "ACTIVITY_DAYS",
	"EXPORT_S3_ENDPOINT", "EXPORT_S3_REGION", "EXPORT_S3_BUCKET",
	"EXPORT_S3_ACCESS_KEY", "EXPORT_S3_SECRET_KEY",
}

// clearEnv blanks every variable Load reads; getEnv treats empty as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "backupdash", cfg.ServiceName)
	assert.Equal(t, "backupdash", cfg.JWTIssuer)
	assert.True(t, cfg.AuthRequired)
	assert.Equal(t, "day", cfg.ActivityGranularity)
	assert.Equal(t, 7, cfg.ActivityDays)
	assert.Equal(t, "", cfg.BackendMode())
	assert.False(t, cfg.ExportEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_AllEnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_URL", "https://abc.backend.example.com")
	t.Setenv("BACKEND_KEY", "anon-key")
	t.Setenv("HTTP_LISTEN_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SERVICE_NAME", "dash-eu")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://dash.example.com ,")
	t.Setenv("RESET_REDIRECT_URL", "https://dash.example.com/reset-password")
	t.Setenv("AUTH_REQUIRED", "false")
	t.Setenv("ACTIVITY_GRANULARITY", "hour")
	t.Setenv("ACTIVITY_DAYS", "2")
	t.Setenv("EXPORT_S3_ENDPOINT", "http://minio:9000")
	t.Setenv("EXPORT_S3_BUCKET", "reports")
	t.Setenv("EXPORT_S3_ACCESS_KEY", "ak")
	t.Setenv("EXPORT_S3_SECRET_KEY", "sk")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ModeREST, cfg.BackendMode())
	assert.Equal(t, ":9090", cfg.HTTPListenAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "dash-eu", cfg.ServiceName)
	assert.Equal(t, []string{"http://localhost:5173", "https://dash.example.com"}, cfg.CORSOrigins)
	assert.False(t, cfg.AuthRequired)
	assert.Equal(t, "hour", cfg.ActivityGranularity)
	assert.Equal(t, 2, cfg.ActivityDays)
	assert.True(t, cfg.ExportEnabled())
	assert.Equal(t, "us-east-1", cfg.Export.S3Region)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "backupdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database_url: postgres://dash@localhost:5432/dash
jwt_secret: 0123456789abcdef0123456789abcdef
log_level: warn
cors_origins:
  - https://a.example.com
activity_days: 14
export:
  s3_bucket: nightly-reports
  s3_region: eu-west-1
`), 0o600))
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModePostgres, cfg.BackendMode())
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 14, cfg.ActivityDays)
	assert.Equal(t, "nightly-reports", cfg.Export.S3Bucket)
	assert.Equal(t, "eu-west-1", cfg.Export.S3Region)
	assert.Equal(t, ":8080", cfg.HTTPListenAddr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("activity_days: [1"), 0o600))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "parse config")

	t.Setenv("ACTIVITY_DAYS", "seven")
	_, err = Load("")
	assert.ErrorContains(t, err, "ACTIVITY_DAYS")

	t.Setenv("ACTIVITY_DAYS", "")
	t.Setenv("AUTH_REQUIRED", "maybe")
	_, err = Load("")
	assert.ErrorContains(t, err, "AUTH_REQUIRED")
}

func TestBackendMode_RESTWinsOverPostgres(t *testing.T) {
	cfg := &Config{BackendURL: "https://x.example.com", BackendKey: "k", DatabaseURL: "postgres://localhost/db"}
	assert.Equal(t, ModeREST, cfg.BackendMode())

	cfg.BackendKey = ""
	assert.Equal(t, ModePostgres, cfg.BackendMode())
}

func TestValidate_Malformed(t *testing.T) {
	cfg := defaults()
	cfg.HTTPListenAddr = ""
	cfg.LogLevel = "loud"
	cfg.BackendURL = "ftp://x.example.com"
	cfg.ResetRedirectURL = "/reset-password"
	cfg.ActivityGranularity = "week"
	cfg.ActivityDays = 0
	cfg.Export.S3AccessKey = "ak"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{
		"HTTP_LISTEN_ADDR",
		"LOG_LEVEL",
		"BACKEND_URL and BACKEND_KEY must both be set",
		"BACKEND_URL: scheme must be http or https",
		"RESET_REDIRECT_URL",
		"ACTIVITY_GRANULARITY",
		"ACTIVITY_DAYS must be positive",
		"EXPORT_S3_ACCESS_KEY and EXPORT_S3_SECRET_KEY must both be set",
	} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidate_ActivityBucketCap(t *testing.T) {
	cfg := defaults()
	cfg.ActivityGranularity = "hour"
	cfg.ActivityDays = 31
	assert.NoError(t, cfg.Validate())

	cfg.ActivityDays = 32
	assert.ErrorContains(t, cfg.Validate(), "ACTIVITY_DAYS 32 of hour buckets exceeds 744 buckets")

	cfg.ActivityGranularity = "day"
	assert.NoError(t, cfg.Validate())

	cfg.ActivityDays = 745
	assert.ErrorContains(t, cfg.Validate(), "exceeds 744 buckets")
}

func TestValidate_ShortJWTSecret(t *testing.T) {
	cfg := defaults()
	cfg.DatabaseURL = "postgres://localhost/db"
	cfg.JWTSecret = "short"
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET must be at least 32 bytes")

	cfg.JWTSecret = ""
	assert.NoError(t, cfg.Validate())
}
