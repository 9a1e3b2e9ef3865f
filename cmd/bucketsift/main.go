package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/objkit/bucketsift/internal/bucket"
	"github.com/objkit/bucketsift/internal/config"
	"github.com/objkit/bucketsift/internal/logging"
	"github.com/objkit/bucketsift/internal/metrics"
	"github.com/objkit/bucketsift/internal/sift"
)

func main() {
	app := &cli.App{
		Name:    "bucketsift",
		Usage:   "filter objects in a bucket by key pattern and modification time, then copy and/or download them",
		Version: fmt.Sprintf("%s (%s)", sift.Version, sift.GitSHA),
		Flags:   appFlags(),
		Action:  run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "bucketsift:", err)
		os.Exit(1)
	}
}

// appFlags declares the CLI surface. applyFlags overlays these values
// onto the resolved config.
func appFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "source-bucket",
			Usage:   "source bucket name",
			EnvVars: []string{"BUCKETSIFT_SOURCE_BUCKET"},
		},
		&cli.StringFlag{
			Name:    "destination-bucket",
			Usage:   "destination bucket name (optional)",
			EnvVars: []string{"BUCKETSIFT_DESTINATION_BUCKET"},
		},
		&cli.StringFlag{
			Name:    "source-profile",
			Usage:   "credentials profile for the source bucket (optional)",
			EnvVars: []string{"BUCKETSIFT_SOURCE_PROFILE"},
		},
		&cli.StringFlag{
			Name:    "destination-profile",
			Usage:   "credentials profile for the destination bucket (optional)",
			EnvVars: []string{"BUCKETSIFT_DESTINATION_PROFILE"},
		},
		&cli.StringFlag{
			Name:    "key-pattern",
			Usage:   "regex matched anywhere in object keys (default: match all)",
			EnvVars: []string{"BUCKETSIFT_KEY_PATTERN"},
		},
		&cli.StringFlag{
			Name:    "start-time",
			Usage:   "start of the last-modified window, absolute or relative (e.g. '2024-01-01', '2 weeks ago')",
			EnvVars: []string{"BUCKETSIFT_START_TIME"},
		},
		&cli.StringFlag{
			Name:    "end-time",
			Usage:   "end of the last-modified window (default: now)",
			EnvVars: []string{"BUCKETSIFT_END_TIME"},
		},
		&cli.StringFlag{
			Name:    "prefix",
			Usage:   "prefix added to destination keys",
			EnvVars: []string{"BUCKETSIFT_PREFIX"},
		},
		&cli.StringFlag{
			Name:    "destination-folder",
			Usage:   "local folder to download matching objects into (optional)",
			EnvVars: []string{"BUCKETSIFT_DESTINATION_FOLDER"},
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "list the matching objects without transferring anything",
		},
		&cli.StringFlag{
			Name:    "region",
			Value:   "us-east-1",
			Usage:   "bucket region",
			EnvVars: []string{"BUCKETSIFT_REGION"},
		},
		&cli.StringFlag{
			Name:    "endpoint",
			Usage:   "custom S3-compatible endpoint (B2, R2, MinIO)",
			EnvVars: []string{"BUCKETSIFT_ENDPOINT"},
		},
		&cli.IntFlag{
			Name:    "max-concurrency",
			Value:   10,
			Usage:   "maximum number of concurrent transfers",
			EnvVars: []string{"BUCKETSIFT_MAX_CONCURRENCY"},
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "YAML config file providing defaults for any flag",
		},
		&cli.StringFlag{
			Name:    "log-file",
			Value:   "bucketsift.log",
			Usage:   "append-only log file",
			EnvVars: []string{"BUCKETSIFT_LOG_FILE"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "log level (debug, info, warn, error)",
			EnvVars: []string{"BUCKETSIFT_LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "log format (text, json)",
			EnvVars: []string{"BUCKETSIFT_LOG_FORMAT"},
		},
		&cli.StringFlag{
			Name:    "metrics-addr",
			Usage:   "address for the Prometheus /metrics endpoint (optional)",
			EnvVars: []string{"BUCKETSIFT_METRICS_ADDR"},
		},
	}
}

func run(c *cli.Context) error {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return err
		}
	}
	applyFlags(&cfg, c)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logging.Setup(logging.Config{
		Format: cfg.Log.Format,
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
	}); err != nil {
		return err
	}
	log := logging.Component("main")
	log.Info("bucketsift starting", "version", sift.Version, "git_sha", sift.GitSHA)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Address != "" {
		metrics.Init("bucketsift")
		go func() {
			if err := metrics.StartServer(cfg.Metrics.Address); err != nil {
				logging.Component("metrics").Error("metrics server exited", "error", err)
			}
		}()
	}

	src, err := bucket.Open(ctx, bucket.Config{
		Bucket:   cfg.SourceBucket,
		Profile:  cfg.SourceProfile,
		Region:   cfg.Region,
		Endpoint: cfg.Endpoint,
	})
	if err != nil {
		return err
	}
	defer src.Close()

	var dst bucket.Store
	if cfg.DestinationBucket != "" && !cfg.DryRun {
		dst, err = bucket.Open(ctx, bucket.Config{
			Bucket:   cfg.DestinationBucket,
			Profile:  cfg.DestinationProfile,
			Region:   cfg.Region,
			Endpoint: cfg.Endpoint,
		})
		if err != nil {
			return err
		}
		defer dst.Close()
	}

	return sift.New(cfg, src, dst, os.Stdout).Run(ctx)
}

// applyFlags overlays flag and environment values onto cfg. Flags that
// carry a default only override a config-file value when explicitly
// set.
func applyFlags(cfg *config.Config, c *cli.Context) {
	if v := c.String("source-bucket"); v != "" {
		cfg.SourceBucket = v
	}
	if v := c.String("destination-bucket"); v != "" {
		cfg.DestinationBucket = v
	}
	if v := c.String("source-profile"); v != "" {
		cfg.SourceProfile = v
	}
	if v := c.String("destination-profile"); v != "" {
		cfg.DestinationProfile = v
	}
	if v := c.String("key-pattern"); v != "" {
		cfg.KeyPattern = v
	}
	if v := c.String("start-time"); v != "" {
		cfg.StartTime = v
	}
	if v := c.String("end-time"); v != "" {
		cfg.EndTime = v
	}
	if v := c.String("prefix"); v != "" {
		cfg.Prefix = v
	}
	if v := c.String("destination-folder"); v != "" {
		cfg.DestinationFolder = v
	}
	if v := c.String("endpoint"); v != "" {
		cfg.Endpoint = v
	}
	if v := c.String("metrics-addr"); v != "" {
		cfg.Metrics.Address = v
	}
	if c.IsSet("dry-run") {
		cfg.DryRun = c.Bool("dry-run")
	}
	if c.IsSet("region") {
		cfg.Region = c.String("region")
	}
	if c.IsSet("max-concurrency") {
		cfg.MaxConcurrency = c.Int("max-concurrency")
	}
	if c.IsSet("log-file") {
		cfg.Log.File = c.String("log-file")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}
}
