package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type entrypointTestConfig struct {
	Path string `env:"ENCOUNTERFORGE_ENTRYPOINT_TEST_PATH" envDefault:"forge.db"`
}

func TestParseConfigLoadsDefaults(t *testing.T) {
	var cfg entrypointTestConfig
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Path != "forge.db" {
		t.Fatalf("path = %q, want forge.db", cfg.Path)
	}
}

func TestParseConfigRejectsNil(t *testing.T) {
	if err := ParseConfig[entrypointTestConfig](nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestParseArgsRejectsNilFlagSet(t *testing.T) {
	if err := ParseArgs(nil, nil); err == nil {
		t.Fatal("expected error for nil flag set")
	}
}

func TestParseArgsParsesFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var path string
	fs.StringVar(&path, "db", "", "database path")
	if err := ParseArgs(fs, []string{"-db", "custom.db"}); err != nil {
		t.Fatalf("parse args: %v", err)
	}
	if path != "custom.db" {
		t.Fatalf("path = %q, want custom.db", path)
	}
}

func TestRunWithTelemetryRequiresService(t *testing.T) {
	err := RunWithTelemetry(context.Background(), "  ", func(context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error for empty service name")
	}
}

func TestRunWithTelemetryRequiresRun(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), ServiceComposer, nil); err == nil {
		t.Fatal("expected error for nil run function")
	}
}

func TestRunWithTelemetryPropagatesRunError(t *testing.T) {
	wantErr := errors.New("run failed")
	err := RunWithTelemetry(context.Background(), ServiceComposer, func(context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("error = %v, want %v", err, wantErr)
	}
}
