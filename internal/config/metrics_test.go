package config

import (
	"errors"
	"testing"
)

func TestClassifyConfigLoadError(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "valid", env: nil, want: "none"},
		{name: "timeout not a duration", env: map[string]string{"SHOPHUB_HTTP_TIMEOUT": "soon"}, want: "parse"},
		{name: "redis db not a number", env: map[string]string{"SHOPHUB_REDIS_DB": "zero"}, want: "parse"},
		{name: "unknown state driver", env: map[string]string{"SHOPHUB_STATE_DRIVER": "etcd"}, want: "state_store"},
		{name: "postgres without dsn", env: map[string]string{"SHOPHUB_STATE_DRIVER": "postgres"}, want: "state_store"},
		{name: "short seal key", env: map[string]string{"SHOPHUB_STATE_SEAL_KEY": "abcd"}, want: "seal_key"},
		{name: "ftp api url", env: map[string]string{"SHOPHUB_API_BASE_URL": "ftp://shop.example.com"}, want: "endpoint"},
		{name: "relative chat url", env: map[string]string{"SHOPHUB_CHAT_URL": "/ws"}, want: "endpoint"},
		{name: "xml log format", env: map[string]string{"SHOPHUB_LOG_FORMAT": "xml"}, want: "logging"},
		{name: "zero export interval", env: map[string]string{"OTEL_METRICS_EXPORT_INTERVAL": "0s"}, want: "telemetry"},
		{name: "seal key wins over log level", env: map[string]string{"SHOPHUB_STATE_SEAL_KEY": "zz", "SHOPHUB_LOG_LEVEL": "loud"}, want: "seal_key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFromLookup(lookupFrom(tc.env))
			if got := classifyConfigLoadError(err); got != tc.want {
				t.Fatalf("classifyConfigLoadError(%v)=%q want %q", err, got, tc.want)
			}
		})
	}
}

func TestClassifyConfigLoadErrorUnknown(t *testing.T) {
	if got := classifyConfigLoadError(errors.New("read .env: permission denied")); got != "load" {
		t.Fatalf("expected load, got %q", got)
	}
}

func TestLoadErrorKeepsFieldMessage(t *testing.T) {
	_, err := LoadFromLookup(lookupFrom(map[string]string{"SHOPHUB_STATE_DRIVER": "etcd"}))
	if !errors.Is(err, ErrStateStore) {
		t.Fatalf("expected ErrStateStore, got %v", err)
	}
	if want := `validate config: SHOPHUB_STATE_DRIVER "etcd" is not supported`; err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestNormalizeConfigProfile(t *testing.T) {
	for raw, want := range map[string]string{"  Staging ": "staging", "": "unknown", "\t": "unknown", "local": "local"} {
		if got := normalizeConfigProfile(raw); got != want {
			t.Fatalf("normalizeConfigProfile(%q)=%q want %q", raw, got, want)
		}
	}
}

func FuzzStateDriverClassification(f *testing.F) {
	f.Add("sqlite")
	f.Add("memory")
	f.Add("etcd")
	f.Add("REDIS")
	f.Add("")

	f.Fuzz(func(t *testing.T, driver string) {
		_, err := LoadFromLookup(lookupFrom(map[string]string{"SHOPHUB_STATE_DRIVER": driver}))
		switch got := classifyConfigLoadError(err); got {
		case "none", "state_store":
		default:
			t.Fatalf("driver %q classified as %q: %v", driver, got, err)
		}
	})
}
