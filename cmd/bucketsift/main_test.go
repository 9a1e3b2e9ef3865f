package main

import (
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/objkit/bucketsift/internal/config"
)

// overlay runs applyFlags against the real flag declarations with the
// given command line.
func overlay(t *testing.T, cfg *config.Config, args ...string) {
	t.Helper()
	app := &cli.App{
		Flags: appFlags(),
		Action: func(c *cli.Context) error {
			applyFlags(cfg, c)
			return nil
		},
	}
	if err := app.Run(append([]string{"bucketsift"}, args...)); err != nil {
		t.Fatalf("overlay %v: %v", args, err)
	}
}

func TestApplyFlagsDryRunOverlay(t *testing.T) {
	// The flag enables dry-run on top of the defaults.
	cfg := config.Default()
	overlay(t, &cfg, "--dry-run")
	if !cfg.DryRun {
		t.Error("--dry-run should enable dry-run")
	}

	// An unset flag leaves a config-file value alone.
	cfg = config.Default()
	cfg.DryRun = true
	overlay(t, &cfg)
	if !cfg.DryRun {
		t.Error("unset flag should keep dry_run from the config file")
	}

	// An explicit --dry-run=false overrides a config-file true.
	cfg = config.Default()
	cfg.DryRun = true
	overlay(t, &cfg, "--dry-run=false")
	if cfg.DryRun {
		t.Error("--dry-run=false should override dry_run from the config file")
	}
}

func TestApplyFlagsDefaultsDoNotClobberFile(t *testing.T) {
	cfg := config.Default()
	cfg.Region = "eu-west-1"
	cfg.MaxConcurrency = 3
	cfg.Log.Level = "debug"

	overlay(t, &cfg, "--source-bucket", "raw-data")

	if cfg.SourceBucket != "raw-data" {
		t.Errorf("SourceBucket = %q", cfg.SourceBucket)
	}
	if cfg.Region != "eu-west-1" {
		t.Errorf("Region = %q, defaulted flag should not clobber the file value", cfg.Region)
	}
	if cfg.MaxConcurrency != 3 {
		t.Errorf("MaxConcurrency = %d, defaulted flag should not clobber the file value", cfg.MaxConcurrency)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, defaulted flag should not clobber the file value", cfg.Log.Level)
	}
}

func TestApplyFlagsExplicitOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Region = "eu-west-1"

	overlay(t, &cfg,
		"--region", "us-west-2",
		"--max-concurrency", "5",
		"--key-pattern", "^logs/",
		"--metrics-addr", ":9100",
	)

	if cfg.Region != "us-west-2" {
		t.Errorf("Region = %q, want us-west-2", cfg.Region)
	}
	if cfg.MaxConcurrency != 5 {
		t.Errorf("MaxConcurrency = %d, want 5", cfg.MaxConcurrency)
	}
	if cfg.KeyPattern != "^logs/" {
		t.Errorf("KeyPattern = %q", cfg.KeyPattern)
	}
	if cfg.Metrics.Address != ":9100" {
		t.Errorf("Metrics.Address = %q", cfg.Metrics.Address)
	}
}
