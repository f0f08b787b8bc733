package config

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StateDriverSQLite   = "sqlite"
	StateDriverPostgres = "postgres"
	StateDriverRedis    = "redis"
	StateDriverMemory   = "memory"
)

// Load errors match one of these classes with errors.Is.
var (
	ErrParse      = errors.New("malformed value")
	ErrEndpoint   = errors.New("invalid endpoint")
	ErrStateStore = errors.New("invalid state store")
	ErrSealKey    = errors.New("invalid seal key")
	ErrLogging    = errors.New("invalid logging")
	ErrTelemetry  = errors.New("invalid telemetry")
)

type classifiedError struct {
	class error
	msg   string
}

func (e *classifiedError) Error() string { return e.msg }

func (e *classifiedError) Unwrap() error { return e.class }

func invalid(class error, format string, args ...any) error {
	return &classifiedError{class: class, msg: fmt.Sprintf(format, args...)}
}

type Config struct {
	Profile      string
	APIBaseURL   string
	ChatURL      string
	HTTPTimeout  time.Duration
	StateDriver  string
	StateDSN     string
	StateSealKey string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	LogLevel  string
	LogFormat string

	OAuthCallbackAddr string

	OTELMetricsEnabled        bool
	OTELTracingEnabled        bool
	OTELLogsEnabled           bool
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPInsecure  bool
	OTELServiceName           string
	OTELEnvironment           string
	OTELMetricsExportInterval time.Duration
}

func Load() (*Config, error) {
	return LoadFromLookup(os.LookupEnv)
}

func LoadFromLookup(lookup func(string) (string, bool)) (*Config, error) {
	cfg, err := load(lookup)
	profile := ""
	if cfg != nil {
		profile = cfg.Profile
	} else if v, ok := lookup("SHOPHUB_PROFILE"); ok {
		profile = v
	}
	recordConfigValidationEvent(context.Background(), profile, err)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func load(lookup func(string) (string, bool)) (*Config, error) {
	env := envReader{lookup: lookup}
	cfg := &Config{
		Profile:                  normalizeConfigProfile(env.str("SHOPHUB_PROFILE", "local")),
		APIBaseURL:               strings.TrimRight(env.str("SHOPHUB_API_BASE_URL", "http://localhost:3000"), "/"),
		ChatURL:                  env.str("SHOPHUB_CHAT_URL", "ws://localhost:3000/ws"),
		StateDriver:              strings.ToLower(env.str("SHOPHUB_STATE_DRIVER", StateDriverSQLite)),
		StateDSN:                 env.str("SHOPHUB_STATE_DSN", ""),
		StateSealKey:             env.str("SHOPHUB_STATE_SEAL_KEY", ""),
		RedisAddr:                env.str("SHOPHUB_REDIS_ADDR", "localhost:6379"),
		RedisPassword:            env.str("SHOPHUB_REDIS_PASSWORD", ""),
		RedisPrefix:              env.str("SHOPHUB_REDIS_PREFIX", "shophub"),
		LogLevel:                 strings.ToLower(env.str("SHOPHUB_LOG_LEVEL", "info")),
		LogFormat:                strings.ToLower(env.str("SHOPHUB_LOG_FORMAT", "text")),
		OAuthCallbackAddr:        env.str("SHOPHUB_OAUTH_CALLBACK_ADDR", "127.0.0.1:8765"),
		OTELExporterOTLPEndpoint: env.str("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTELServiceName:          env.str("OTEL_SERVICE_NAME", "shophub-client"),
		OTELEnvironment:          env.str("OTEL_ENVIRONMENT", "local"),
	}
	if cfg.StateDSN == "" && cfg.StateDriver == StateDriverSQLite {
		cfg.StateDSN = "file:shophub.db"
	}

	var err error
	if cfg.HTTPTimeout, err = env.duration("SHOPHUB_HTTP_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = env.integer("SHOPHUB_REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.OTELMetricsEnabled, err = env.boolean("OTEL_METRICS_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.OTELTracingEnabled, err = env.boolean("OTEL_TRACING_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.OTELLogsEnabled, err = env.boolean("OTEL_LOGS_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.OTELExporterOTLPInsecure, err = env.boolean("OTEL_EXPORTER_OTLP_INSECURE", true); err != nil {
		return nil, err
	}
	if cfg.OTELMetricsExportInterval, err = env.duration("OTEL_METRICS_EXPORT_INTERVAL", 15*time.Second); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if err := validateURL("SHOPHUB_API_BASE_URL", c.APIBaseURL, "http", "https"); err != nil {
		errs = append(errs, err)
	}
	if err := validateURL("SHOPHUB_CHAT_URL", c.ChatURL, "ws", "wss", "http", "https"); err != nil {
		errs = append(errs, err)
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, invalid(ErrEndpoint, "SHOPHUB_HTTP_TIMEOUT must be positive"))
	}
	switch c.StateDriver {
	case StateDriverSQLite, StateDriverPostgres:
		if strings.TrimSpace(c.StateDSN) == "" {
			errs = append(errs, invalid(ErrStateStore, "SHOPHUB_STATE_DSN is required for driver %s", c.StateDriver))
		}
	case StateDriverRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			errs = append(errs, invalid(ErrStateStore, "SHOPHUB_REDIS_ADDR is required for driver redis"))
		}
	case StateDriverMemory:
	default:
		errs = append(errs, invalid(ErrStateStore, "SHOPHUB_STATE_DRIVER %q is not supported", c.StateDriver))
	}
	if c.StateSealKey != "" {
		key, err := hex.DecodeString(c.StateSealKey)
		if err != nil || len(key) != 32 {
			errs = append(errs, invalid(ErrSealKey, "SHOPHUB_STATE_SEAL_KEY must be 64 hex characters"))
		}
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, invalid(ErrLogging, "SHOPHUB_LOG_FORMAT %q is not supported", c.LogFormat))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, invalid(ErrLogging, "SHOPHUB_LOG_LEVEL %q is not supported", c.LogLevel))
	}
	if (c.OTELMetricsEnabled || c.OTELTracingEnabled || c.OTELLogsEnabled) && c.OTELExporterOTLPEndpoint == "" {
		errs = append(errs, invalid(ErrTelemetry, "OTEL_EXPORTER_OTLP_ENDPOINT is required when telemetry export is enabled"))
	}
	if c.OTELMetricsExportInterval <= 0 {
		errs = append(errs, invalid(ErrTelemetry, "OTEL_METRICS_EXPORT_INTERVAL must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func validateURL(key, raw string, schemes ...string) error {
	if strings.TrimSpace(raw) == "" {
		return invalid(ErrEndpoint, "%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return invalid(ErrEndpoint, "%s must be an absolute URL", key)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return invalid(ErrEndpoint, "%s scheme %q is not supported", key, u.Scheme)
}

type envReader struct {
	lookup func(string) (string, bool)
}

func (e envReader) str(key, fallback string) string {
	if v, ok := e.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func (e envReader) duration(key string, fallback time.Duration) (time.Duration, error) {
	v := e.str(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, invalid(ErrParse, "parse %s: %v", key, err)
	}
	return d, nil
}

func (e envReader) boolean(key string, fallback bool) (bool, error) {
	v := e.str(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, invalid(ErrParse, "parse %s: %v", key, err)
	}
	return b, nil
}

func (e envReader) integer(key string, fallback int) (int, error) {
	v := e.str(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, invalid(ErrParse, "parse %s: %v", key, err)
	}
	return n, nil
}
