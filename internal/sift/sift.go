// Package sift implements the filtering-and-transfer core: it lists a
// source bucket, evaluates time-window and key-pattern predicates
// against each object, plans copy and download work items, executes
// them under bounded concurrency, and reports the results.
package sift

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/objkit/bucketsift/internal/bucket"
	"github.com/objkit/bucketsift/internal/config"
	"github.com/objkit/bucketsift/internal/logging"
	"github.com/objkit/bucketsift/internal/metrics"
	"github.com/objkit/bucketsift/internal/timeparse"
)

// Version information (set via ldflags)
var (
	Version = "v0.1.0"
	GitSHA  = "unknown"
)

// Sifter orchestrates one run: list, filter, plan, execute, report.
type Sifter struct {
	cfg config.Config
	src bucket.Store
	dst bucket.Store // nil unless a destination bucket is configured
	out io.Writer
	now func() time.Time
	log *slog.Logger
}

// New creates a Sifter. dst may be nil when no destination bucket is
// configured (download-only or dry-run use).
func New(cfg config.Config, src, dst bucket.Store, out io.Writer) *Sifter {
	return &Sifter{
		cfg: cfg,
		src: src,
		dst: dst,
		out: out,
		now: time.Now,
		log: logging.Component("sift"),
	}
}

// Run executes one pass. Pre-flight errors (bad pattern, unparseable
// time, listing failure) are returned; per-item transfer failures are
// reported in the summary and never produce a non-nil return.
func (s *Sifter) Run(ctx context.Context) error {
	window, err := s.resolveWindow()
	if err != nil {
		return err
	}
	pattern, err := CompilePattern(s.cfg.KeyPattern)
	if err != nil {
		return err
	}

	var matched []bucket.Object
	var listed int
	listErr := s.src.List(ctx, func(obj bucket.Object) error {
		listed++
		if Matches(obj, window, pattern) {
			matched = append(matched, obj)
		}
		return nil
	})

	if m := metrics.Get(); m != nil {
		m.AddObjectsListed(listed)
		m.AddObjectsMatched(len(matched))
	}

	if listErr != nil {
		// Partial candidates are still useful in a dry run.
		if s.cfg.DryRun && len(matched) > 0 {
			s.log.Warn("listing failed mid-pagination, reporting partial candidate set",
				"candidates", len(matched), "error", listErr)
			WriteDryRun(s.out, matched)
		}
		return fmt.Errorf("%w: %v", ErrListingFailed, listErr)
	}
	s.log.Info("listing complete", "listed", listed, "matched", len(matched))

	if len(matched) == 0 {
		s.log.Info("no objects matched the criteria")
		if !s.cfg.DryRun {
			WriteSummary(s.out, nil)
		}
		return nil
	}

	if s.cfg.DryRun {
		WriteDryRun(s.out, matched)
		return nil
	}

	items := BuildPlan(matched, PlanConfig{
		Prefix:            s.cfg.Prefix,
		DestinationBucket: s.cfg.DestinationBucket,
		DestinationFolder: s.cfg.DestinationFolder,
	})
	if len(items) == 0 {
		// Valid state: neither destination configured.
		s.log.Info("no destinations configured, nothing to transfer", "matched", len(matched))
		WriteSummary(s.out, nil)
		return nil
	}

	s.log.Info("executing plan", "items", len(items), "max_concurrency", s.cfg.MaxConcurrency)
	engine := NewEngine(s.src, s.dst, s.cfg.MaxConcurrency)
	outcomes := engine.Run(ctx, items)
	WriteSummary(s.out, outcomes)
	return nil
}

// resolveWindow parses the configured bounds. The end bound defaults to
// the current UTC instant, captured once before listing begins.
func (s *Sifter) resolveWindow() (Window, error) {
	now := s.now().UTC()

	var w Window
	if s.cfg.StartTime != "" {
		t, err := timeparse.Parse(s.cfg.StartTime, now)
		if err != nil {
			return Window{}, fmt.Errorf("start time: %w", err)
		}
		w.Start = t
	}

	w.End = now
	if s.cfg.EndTime != "" {
		t, err := timeparse.Parse(s.cfg.EndTime, now)
		if err != nil {
			return Window{}, fmt.Errorf("end time: %w", err)
		}
		w.End = t
	}

	return w, nil
}
