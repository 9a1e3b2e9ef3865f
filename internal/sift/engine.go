package sift

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/objkit/bucketsift/internal/bucket"
	"github.com/objkit/bucketsift/internal/logging"
	"github.com/objkit/bucketsift/internal/metrics"
)

// Engine executes a plan under a bounded worker pool. At most
// concurrency transfers are in flight at any instant. Each item
// produces exactly one outcome; one item's failure never blocks or
// cancels the others, and no item is retried within a run.
type Engine struct {
	src         bucket.Store
	dst         bucket.Store // nil when no destination bucket is configured
	concurrency int
	sem         chan struct{}
}

// NewEngine creates an engine over the source and (optional)
// destination stores.
func NewEngine(src, dst bucket.Store, concurrency int) *Engine {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Engine{
		src:         src,
		dst:         dst,
		concurrency: concurrency,
		sem:         make(chan struct{}, concurrency),
	}
}

// Run blocks until every item has an outcome, then returns the full
// outcome list in plan order. On context cancellation, items not yet
// dispatched are marked Skipped; in-flight items run to completion.
func (e *Engine) Run(ctx context.Context, items []WorkItem) []Outcome {
	outcomes := make([]Outcome, len(items))
	var wg sync.WaitGroup

dispatch:
	for i := range items {
		if err := ctx.Err(); err != nil {
			e.skipFrom(outcomes, items, i, err)
			break
		}

		select {
		case e.sem <- struct{}{}:
		case <-ctx.Done():
			e.skipFrom(outcomes, items, i, ctx.Err())
			break dispatch
		}

		wg.Add(1)
		go func(i int, item WorkItem) {
			defer func() {
				<-e.sem
				wg.Done()
			}()
			outcomes[i] = e.runItem(ctx, i, item)
		}(i, items[i])
	}

	wg.Wait()
	return outcomes
}

// skipFrom marks items[from:] as skipped with the cancellation cause.
func (e *Engine) skipFrom(outcomes []Outcome, items []WorkItem, from int, cause error) {
	m := metrics.Get()
	for j := from; j < len(items); j++ {
		outcomes[j] = Outcome{Item: items[j], Status: StatusSkipped, Err: cause}
		if m != nil {
			m.IncTransfersSkipped(items[j].Kind.String())
		}
	}
}

// runItem executes one transfer and records its metrics and log lines.
func (e *Engine) runItem(ctx context.Context, index int, item WorkItem) Outcome {
	log := logging.ItemLogger(index)
	m := metrics.Get()
	if m != nil {
		m.IncInFlight()
		defer m.DecInFlight()
	}

	start := time.Now()
	err := e.execute(ctx, item)
	elapsed := time.Since(start)

	if err != nil {
		log.Error("transfer failed",
			"kind", item.Kind.String(),
			"key", item.SourceKey,
			"destination", item.Destination(),
			"error", err)
		if m != nil {
			m.IncTransfersFailed(item.Kind.String())
		}
		return Outcome{Item: item, Status: StatusFailure, Err: err}
	}

	log.Info("transfer complete",
		"kind", item.Kind.String(),
		"key", item.SourceKey,
		"destination", item.Destination(),
		"duration", elapsed)
	if m != nil {
		m.IncTransfersSucceeded(item.Kind.String())
		m.AddBytesTransferred(item.Size)
		m.ObserveTransferDuration(item.Kind.String(), elapsed.Seconds())
	}
	return Outcome{Item: item, Status: StatusSuccess}
}

func (e *Engine) execute(ctx context.Context, item WorkItem) error {
	switch item.Kind {
	case KindCopyToBucket:
		return e.copyToBucket(ctx, item)
	case KindDownloadToLocal:
		return e.downloadToLocal(ctx, item)
	default:
		return fmt.Errorf("unknown work item kind %d", item.Kind)
	}
}

// copyToBucket streams one object from the source bucket into the
// destination bucket, overwriting any existing destination object.
func (e *Engine) copyToBucket(ctx context.Context, item WorkItem) error {
	if e.dst == nil {
		return errors.New("no destination bucket configured")
	}
	r, err := e.src.Get(ctx, item.SourceKey)
	if err != nil {
		return err
	}
	defer r.Close()
	return e.dst.Put(ctx, item.DestKey, r)
}

// downloadToLocal streams one object to a local file, creating parent
// directories on demand.
func (e *Engine) downloadToLocal(ctx context.Context, item WorkItem) error {
	r, err := e.src.Get(ctx, item.SourceKey)
	if err != nil {
		return err
	}
	defer r.Close()

	dir := filepath.Dir(item.LocalPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	f, err := os.Create(item.LocalPath)
	if err != nil {
		return fmt.Errorf("create file %s: %w", item.LocalPath, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", item.LocalPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", item.LocalPath, err)
	}
	return nil
}
