package config

import (
	"strings"
	"testing"
	"time"
)

func lookupFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFromLookup(lookupFrom(nil))
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:3000" {
		t.Fatalf("unexpected api base url %q", cfg.APIBaseURL)
	}
	if cfg.StateDriver != StateDriverSQLite || cfg.StateDSN != "file:shophub.db" {
		t.Fatalf("unexpected state driver/dsn %q %q", cfg.StateDriver, cfg.StateDSN)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.HTTPTimeout)
	}
	if cfg.Profile != "local" {
		t.Fatalf("unexpected profile %q", cfg.Profile)
	}
}

func TestLoadTrimsTrailingSlash(t *testing.T) {
	cfg, err := LoadFromLookup(lookupFrom(map[string]string{"SHOPHUB_API_BASE_URL": "https://api.example.com/v1/"}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.com/v1" {
		t.Fatalf("unexpected api base url %q", cfg.APIBaseURL)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name   string
		env    map[string]string
		prefix string
	}{
		{name: "bad duration", env: map[string]string{"SHOPHUB_HTTP_TIMEOUT": "soon"}, prefix: "parse SHOPHUB_HTTP_TIMEOUT:"},
		{name: "bad bool", env: map[string]string{"OTEL_METRICS_ENABLED": "maybe"}, prefix: "parse OTEL_METRICS_ENABLED:"},
		{name: "bad driver", env: map[string]string{"SHOPHUB_STATE_DRIVER": "etcd"}, prefix: "validate config:"},
		{name: "bad url", env: map[string]string{"SHOPHUB_API_BASE_URL": "ftp://x"}, prefix: "validate config:"},
		{name: "bad seal key", env: map[string]string{"SHOPHUB_STATE_SEAL_KEY": "abcd"}, prefix: "validate config:"},
		{name: "postgres without dsn", env: map[string]string{"SHOPHUB_STATE_DRIVER": "postgres"}, prefix: "validate config:"},
		{name: "bad log format", env: map[string]string{"SHOPHUB_LOG_FORMAT": "xml"}, prefix: "validate config:"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFromLookup(lookupFrom(tc.env))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), tc.prefix) {
				t.Fatalf("expected prefix %q, got %q", tc.prefix, err.Error())
			}
		})
	}
}

func TestLoadAcceptsValidSealKey(t *testing.T) {
	key := strings.Repeat("ab", 32)
	cfg, err := LoadFromLookup(lookupFrom(map[string]string{
		"SHOPHUB_STATE_SEAL_KEY": key,
		"SHOPHUB_STATE_DRIVER":   "memory",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StateSealKey != key {
		t.Fatalf("unexpected seal key %q", cfg.StateSealKey)
	}
}
