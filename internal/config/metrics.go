package config

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	loadCounterOnce sync.Once
	loadCounter     metric.Int64Counter
)

// errorClasses is checked in order; the first class a load error matches
// labels the event.
var errorClasses = []struct {
	err   error
	label string
}{
	{ErrParse, "parse"},
	{ErrSealKey, "seal_key"},
	{ErrStateStore, "state_store"},
	{ErrEndpoint, "endpoint"},
	{ErrLogging, "logging"},
	{ErrTelemetry, "telemetry"},
}

func recordConfigValidationEvent(ctx context.Context, profile string, err error) {
	loadCounterOnce.Do(func() {
		if c, cerr := otel.Meter("shophub-client/config").Int64Counter(
			"config.validation.events",
			metric.WithDescription("Configuration loads by profile and failure class"),
		); cerr == nil {
			loadCounter = c
		}
	})
	if loadCounter == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	loadCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("profile", normalizeConfigProfile(profile)),
		attribute.String("outcome", outcome),
		attribute.String("error_class", classifyConfigLoadError(err)),
	))
}

func normalizeConfigProfile(profile string) string {
	if v := strings.ToLower(strings.TrimSpace(profile)); v != "" {
		return v
	}
	return "unknown"
}

func classifyConfigLoadError(err error) string {
	if err == nil {
		return "none"
	}
	for _, c := range errorClasses {
		if errors.Is(err, c.err) {
			return c.label
		}
	}
	return "load"
}
