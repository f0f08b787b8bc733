package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/sandeepkv93/shophub-client/internal/config"
)

func TestClassifyStatusClass(t *testing.T) {
	cases := map[int]string{
		200: "2xx",
		302: "3xx",
		404: "4xx",
		500: "5xx",
		0:   "transport_error",
		100: "other",
	}
	for status, want := range cases {
		if got := ClassifyStatusClass(status); got != want {
			t.Fatalf("ClassifyStatusClass(%d)=%q want %q", status, got, want)
		}
	}
}

func TestNewLoggerJSONFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&config.Config{LogFormat: "json", LogLevel: "warn"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Fatalf("unexpected json output: %s", out)
	}
}

func TestFanoutHandlerWritesToAll(t *testing.T) {
	var a, b bytes.Buffer
	h := fanoutHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	}}
	logger := slog.New(h).With("component", "test")
	logger.Info("hello")

	if !strings.Contains(a.String(), "hello") || !strings.Contains(a.String(), "component=test") {
		t.Fatalf("first handler missing record: %q", a.String())
	}
	if b.Len() != 0 {
		t.Fatalf("second handler should filter info records: %q", b.String())
	}
}

func TestInitRuntimeDisabledTelemetry(t *testing.T) {
	cfg := &config.Config{OTELServiceName: "shophub-client", OTELEnvironment: "test"}
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	rt, err := InitRuntime(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("init runtime: %v", err)
	}
	if rt.MeterProvider == nil || rt.TracerProvider == nil {
		t.Fatal("expected meter and tracer providers")
	}
	if rt.LoggerProvider != nil {
		t.Fatal("logger provider should be nil when otel logs are disabled")
	}
	if rt.Logger != logger {
		t.Fatal("expected base logger when otel logs are disabled")
	}
	RecordAPIRequest(context.Background(), "products.list", 200)
	RecordRepositoryOperation(context.Background(), "memory", "get", "success")
	if err := rt.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
