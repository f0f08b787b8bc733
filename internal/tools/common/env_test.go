package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// unsetForTest clears key for the duration of the test and restores the
// previous value afterwards, so values set by LoadEnvFile do not leak.
func unsetForTest(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestLoadEnvFileMissingIsNoop(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
}

func TestLoadEnvFileShellSyntax(t *testing.T) {
	unsetForTest(t, "SHOPHUB_API_URL", "SHOPHUB_CHAT_URL", "SHOPHUB_LOG_LEVEL", "SHOPHUB_SEAL_KEY", "SHOPHUB_PROFILE")
	path := writeEnvFile(t, strings.Join([]string{
		"# local overrides",
		"export SHOPHUB_API_URL=http://localhost:3000/api",
		"  SHOPHUB_CHAT_URL = 'ws://localhost:3000/ws'  ",
		`SHOPHUB_LOG_LEVEL="debug"`,
		`export SHOPHUB_SEAL_KEY='it''s'`,
		"SHOPHUB_PROFILE='",
		"",
	}, "\n"))

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("load env file: %v", err)
	}
	want := map[string]string{
		"SHOPHUB_API_URL":   "http://localhost:3000/api",
		"SHOPHUB_CHAT_URL":  "ws://localhost:3000/ws",
		"SHOPHUB_LOG_LEVEL": "debug",
		"SHOPHUB_SEAL_KEY":  "it''s",
		"SHOPHUB_PROFILE":   "'",
	}
	for key, value := range want {
		if got := os.Getenv(key); got != value {
			t.Fatalf("%s=%q want %q", key, got, value)
		}
	}
}

func TestLoadEnvFileExistingEnvironmentWins(t *testing.T) {
	unsetForTest(t, "SHOPHUB_STATE_DRIVER")
	t.Setenv("SHOPHUB_API_URL", "https://shop.example.com/api")
	path := writeEnvFile(t, "export SHOPHUB_API_URL='http://localhost:3000/api'\nSHOPHUB_STATE_DRIVER=redis\n")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("load env file: %v", err)
	}
	if got := os.Getenv("SHOPHUB_API_URL"); got != "https://shop.example.com/api" {
		t.Fatalf("environment should win over file, got %q", got)
	}
	if got := os.Getenv("SHOPHUB_STATE_DRIVER"); got != "redis" {
		t.Fatalf("unexpected SHOPHUB_STATE_DRIVER=%q", got)
	}
}

func TestLoadEnvFileSkipsMalformedLines(t *testing.T) {
	unsetForTest(t, "SHOPHUB_VERBOSE")
	path := writeEnvFile(t, "#SHOPHUB_VERBOSE=true\nSHOPHUB_VERBOSE\nexport =orphan\n=orphan\n")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("load env file: %v", err)
	}
	if _, ok := os.LookupEnv("SHOPHUB_VERBOSE"); ok {
		t.Fatal("commented or valueless lines must not set variables")
	}
}

func TestLoadEnvFileOpenError(t *testing.T) {
	err := LoadEnvFile(t.TempDir())
	if err == nil {
		t.Fatal("expected error when path is a directory")
	}
	if !strings.HasPrefix(err.Error(), "read env file:") && !strings.HasPrefix(err.Error(), "open env file:") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func FuzzUnquote(f *testing.F) {
	f.Add(`"x"`)
	f.Add(`'x'`)
	f.Add(`'`)
	f.Add(`"mixed'`)
	f.Add(`plain`)

	f.Fuzz(func(t *testing.T, v string) {
		got := unquote(v)
		quoted := len(v) >= 2 && v[0] == v[len(v)-1] && (v[0] == '"' || v[0] == '\'')
		switch {
		case quoted && got != v[1:len(v)-1]:
			t.Fatalf("unquote(%q)=%q, want the inner text", v, got)
		case !quoted && got != v:
			t.Fatalf("unquote(%q)=%q, unquoted values must pass through", v, got)
		}
	})
}
