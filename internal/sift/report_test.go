package sift

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/objkit/bucketsift/internal/bucket"
)

func TestWriteDryRunFormat(t *testing.T) {
	objs := []bucket.Object{
		{Key: "a/one", LastModified: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)},
		{Key: "b/two", LastModified: time.Date(2024, 10, 2, 12, 30, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	WriteDryRun(&buf, objs)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	if lines[0] != "2024-10-01T00:00:00Z\ta/one" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "2024-10-02T12:30:00Z\tb/two" {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestWriteSummaryCountsAndFailures(t *testing.T) {
	outcomes := []Outcome{
		{Item: WorkItem{SourceKey: "a", DestKey: "a", Kind: KindCopyToBucket, DestBucket: "d"}, Status: StatusSuccess},
		{Item: WorkItem{SourceKey: "b", DestKey: "b", Kind: KindCopyToBucket, DestBucket: "d"},
			Status: StatusFailure, Err: errors.New("boom")},
		{Item: WorkItem{SourceKey: "c", LocalPath: "/tmp/c", Kind: KindDownloadToLocal}, Status: StatusSkipped,
			Err: errors.New("cancelled")},
	}

	var buf bytes.Buffer
	WriteSummary(&buf, outcomes)

	out := buf.String()
	if !strings.Contains(out, "1 succeeded, 1 failed, 1 skipped") {
		t.Errorf("summary missing counts: %q", out)
	}
	if !strings.Contains(out, "failed: b -> s3://d/b: boom") {
		t.Errorf("summary missing failure identity: %q", out)
	}
	if strings.Contains(out, "failed: a") || strings.Contains(out, "failed: c") {
		t.Errorf("summary should only list failures: %q", out)
	}
}

func TestWriteSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	WriteSummary(&buf, nil)
	if !strings.Contains(buf.String(), "0 succeeded, 0 failed, 0 skipped") {
		t.Errorf("empty summary = %q", buf.String())
	}
}
