package sift

import (
	"fmt"
	"io"
	"time"

	"github.com/objkit/bucketsift/internal/bucket"
)

// WriteDryRun emits one line per candidate object, lastModified then
// key separated by a tab, in the order received from the filter stage.
func WriteDryRun(w io.Writer, objs []bucket.Object) {
	for _, o := range objs {
		fmt.Fprintf(w, "%s\t%s\n", o.LastModified.Format(time.RFC3339), o.Key)
	}
}

// WriteSummary emits outcome counts and the identity of every failure.
func WriteSummary(w io.Writer, outcomes []Outcome) {
	var succeeded, failed, skipped int
	for _, o := range outcomes {
		switch o.Status {
		case StatusSuccess:
			succeeded++
		case StatusFailure:
			failed++
		case StatusSkipped:
			skipped++
		}
	}

	fmt.Fprintf(w, "transferred: %d succeeded, %d failed, %d skipped\n", succeeded, failed, skipped)
	for _, o := range outcomes {
		if o.Status == StatusFailure {
			fmt.Fprintf(w, "failed: %s -> %s: %v\n", o.Item.SourceKey, o.Item.Destination(), o.Err)
		}
	}
}
