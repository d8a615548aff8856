package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/pflag"

	"github.com/louisbranch/xplorehub/internal/platform/logging"
)

type testConfig struct {
	Address string `env:"CMD_TEST_ADDRESS" envDefault:"127.0.0.1:8080"`
	Mode    string `env:"CMD_TEST_MODE" envDefault:"server"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("XPLOREHUB_CMD_TEST_ADDRESS", "env:9000")
	t.Setenv("XPLOREHUB_CMD_TEST_MODE", "env-mode")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfgRef := testConfig{}
	if err := ParseConfig(&cfgRef); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfgRef.Address, "address", cfgRef.Address, "address")
	fs.StringVar(&cfgRef.Mode, "mode", cfgRef.Mode, "mode")

	if err := ParseArgs(fs, []string{"--address", "flag:9001"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfgRef.Address != "flag:9001" {
		t.Fatalf("expected flag value for address, got %q", cfgRef.Address)
	}
	if cfgRef.Mode != "env-mode" {
		t.Fatalf("expected env default mode, got %q", cfgRef.Mode)
	}
}

func TestParseConfigFromArgsReadsEnvAndFlags(t *testing.T) {
	t.Setenv("XPLOREHUB_CMD_TEST_MODE", "configarg-mode")

	cfgRef := testConfig{}
	fs := pflag.NewFlagSet("configargs", pflag.ContinueOnError)
	fs.StringVar(&cfgRef.Address, "address", "", "address")
	if err := ParseConfigFromArgs(&cfgRef, fs, []string{"--address=flag:9002"}); err != nil {
		t.Fatalf("parse config and args: %v", err)
	}
	if cfgRef.Address != "flag:9002" {
		t.Fatalf("expected parsed flag address, got %q", cfgRef.Address)
	}
	if cfgRef.Mode != "configarg-mode" {
		t.Fatalf("expected env default mode, got %q", cfgRef.Mode)
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceAPI, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryAttachesLogger(t *testing.T) {
	t.Setenv("XPLOREHUB_OTEL_ENDPOINT", "")
	sentinel := errors.New("boom")
	err := RunWithTelemetryAndOptions(context.Background(), ServiceAPI, RunOptions{
		Logging: &logging.Options{Level: "error"},
	}, func(ctx context.Context) error {
		if logging.FromContext(ctx).Core().Enabled(-1) {
			t.Fatal("expected debug disabled")
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected run error, got %v", err)
	}
}
