package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/edvin/backupdash/internal/backend"
)

// Backend modes reported by BackendMode.
const (
	ModeREST     = "rest"
	ModePostgres = "postgres"
)

type Config struct {
	BackendURL  string `yaml:"backend_url"`
	BackendKey  string `yaml:"backend_key"`
	DatabaseURL string `yaml:"database_url"`
	JWTSecret   string `yaml:"jwt_secret"`
	JWTIssuer   string `yaml:"jwt_issuer"`

	HTTPListenAddr string   `yaml:"http_listen_addr"`
	LogLevel       string   `yaml:"log_level"`
	ServiceName    string   `yaml:"service_name"`
	CORSOrigins    []string `yaml:"cors_origins"`
	// AuthRequired protects /api/v1 with bearer tokens whenever the backend
	// can verify them.
	AuthRequired bool `yaml:"auth_required"`

	// ResetRedirectURL is where password reset links land.
	ResetRedirectURL    string `yaml:"reset_redirect_url"`
	ActivityGranularity string `yaml:"activity_granularity"`
	ActivityDays        int    `yaml:"activity_days"`

	Export ExportConfig `yaml:"export"`
}

// ExportConfig locates the S3-compatible bucket CSV reports are uploaded to.
type ExportConfig struct {
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3Region    string `yaml:"s3_region"`
	S3Bucket    string `yaml:"s3_bucket"`
	S3AccessKey string `yaml:"s3_access_key"`
	S3SecretKey string `yaml:"s3_secret_key"`
}

func defaults() *Config {
	return &Config{
		JWTIssuer:           "backupdash",
		HTTPListenAddr:      ":8080",
		LogLevel:            "info",
		ServiceName:         "backupdash",
		AuthRequired:        true,
		ActivityGranularity: string(backend.GranularityDay),
		ActivityDays:        7,
		Export:              ExportConfig{S3Region: "us-east-1"},
	}
}

// Load builds the configuration from defaults, the optional YAML file at path
// and then the environment, which wins over the file.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.BackendURL = getEnv("BACKEND_URL", cfg.BackendURL)
	cfg.BackendKey = getEnv("BACKEND_KEY", cfg.BackendKey)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = getEnv("JWT_ISSUER", cfg.JWTIssuer)
	cfg.HTTPListenAddr = getEnv("HTTP_LISTEN_ADDR", cfg.HTTPListenAddr)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.ServiceName = getEnv("SERVICE_NAME", cfg.ServiceName)
	cfg.ResetRedirectURL = getEnv("RESET_REDIRECT_URL", cfg.ResetRedirectURL)
	cfg.ActivityGranularity = getEnv("ACTIVITY_GRANULARITY", cfg.ActivityGranularity)
	cfg.Export.S3Endpoint = getEnv("EXPORT_S3_ENDPOINT", cfg.Export.S3Endpoint)
	cfg.Export.S3Region = getEnv("EXPORT_S3_REGION", cfg.Export.S3Region)
	cfg.Export.S3Bucket = getEnv("EXPORT_S3_BUCKET", cfg.Export.S3Bucket)
	cfg.Export.S3AccessKey = getEnv("EXPORT_S3_ACCESS_KEY", cfg.Export.S3AccessKey)
	cfg.Export.S3SecretKey = getEnv("EXPORT_S3_SECRET_KEY", cfg.Export.S3SecretKey)

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	if v := os.Getenv("AUTH_REQUIRED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("AUTH_REQUIRED: %w", err)
		}
		cfg.AuthRequired = b
	}

	if v := os.Getenv("ACTIVITY_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("ACTIVITY_DAYS: %w", err)
		}
		cfg.ActivityDays = n
	}

	return cfg, nil
}

// Validate rejects malformed settings. Missing backend credentials are not an
// error: the service then runs unconfigured.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTPListenAddr == "" {
		errs = append(errs, errors.New("HTTP_LISTEN_ADDR must not be empty"))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	if (c.BackendURL == "") != (c.BackendKey == "") {
		errs = append(errs, errors.New("BACKEND_URL and BACKEND_KEY must both be set"))
	}
	if c.BackendURL != "" {
		if err := checkHTTPURL(c.BackendURL); err != nil {
			errs = append(errs, fmt.Errorf("BACKEND_URL: %w", err))
		}
	}
	if c.BackendMode() == ModePostgres && c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes"))
	}
	if c.ResetRedirectURL != "" {
		if err := checkHTTPURL(c.ResetRedirectURL); err != nil {
			errs = append(errs, fmt.Errorf("RESET_REDIRECT_URL: %w", err))
		}
	}

	g, gErr := backend.ParseGranularity(c.ActivityGranularity)
	if gErr != nil {
		errs = append(errs, fmt.Errorf("ACTIVITY_GRANULARITY: %w", gErr))
	}
	if c.ActivityDays <= 0 {
		errs = append(errs, fmt.Errorf("ACTIVITY_DAYS must be positive, got %d", c.ActivityDays))
	} else if gErr == nil {
		if _, ok := g.BucketsFor(c.ActivityDays); !ok {
			errs = append(errs, fmt.Errorf("ACTIVITY_DAYS %d of %s buckets exceeds %d buckets", c.ActivityDays, g, backend.MaxBuckets))
		}
	}

	if (c.Export.S3AccessKey == "") != (c.Export.S3SecretKey == "") {
		errs = append(errs, errors.New("EXPORT_S3_ACCESS_KEY and EXPORT_S3_SECRET_KEY must both be set"))
	}
	if c.Export.S3Endpoint != "" {
		if err := checkHTTPURL(c.Export.S3Endpoint); err != nil {
			errs = append(errs, fmt.Errorf("EXPORT_S3_ENDPOINT: %w", err))
		}
	}

	return errors.Join(errs...)
}

// BackendMode reports which backend the configuration selects: ModeREST when
// both BACKEND_URL and BACKEND_KEY are set, else ModePostgres when
// DATABASE_URL is set, else "".
func (c *Config) BackendMode() string {
	switch {
	case c.BackendURL != "" && c.BackendKey != "":
		return ModeREST
	case c.DatabaseURL != "":
		return ModePostgres
	}
	return ""
}

// ExportEnabled reports whether S3 report uploads are configured.
func (c *Config) ExportEnabled() bool {
	return c.Export.S3Bucket != ""
}

func checkHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
