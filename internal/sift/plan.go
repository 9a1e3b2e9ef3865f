package sift

import (
	"path/filepath"
	"strings"

	"github.com/objkit/bucketsift/internal/bucket"
)

// PlanConfig holds the destination choices the plan builder needs.
type PlanConfig struct {
	Prefix            string
	DestinationBucket string
	DestinationFolder string
}

// BuildPlan converts filtered objects into work items in listing order.
// Each object yields a copy item when a destination bucket is
// configured and a download item when a destination folder is
// configured; both carry the same destination key (prefix + source
// key). With neither destination configured the plan is empty, which is
// a valid dry-run-only state.
func BuildPlan(objs []bucket.Object, cfg PlanConfig) []WorkItem {
	items := make([]WorkItem, 0, len(objs))
	for _, obj := range objs {
		destKey := cfg.Prefix + obj.Key
		if cfg.DestinationBucket != "" {
			items = append(items, WorkItem{
				SourceKey:  obj.Key,
				DestKey:    destKey,
				Kind:       KindCopyToBucket,
				Size:       obj.Size,
				DestBucket: cfg.DestinationBucket,
			})
		}
		if cfg.DestinationFolder != "" {
			items = append(items, WorkItem{
				SourceKey: obj.Key,
				DestKey:   destKey,
				Kind:      KindDownloadToLocal,
				Size:      obj.Size,
				LocalPath: localPath(cfg.DestinationFolder, destKey),
			})
		}
	}
	return items
}

// localPath joins a destination key under the folder, preserving the
// key's relative path structure. Empty, "." and ".." segments are
// dropped so a hostile key cannot escape the folder.
func localPath(folder, key string) string {
	segs := strings.Split(key, "/")
	clean := make([]string, 0, len(segs))
	for _, seg := range segs {
		switch seg {
		case "", ".", "..":
			continue
		}
		clean = append(clean, seg)
	}
	return filepath.Join(folder, filepath.Join(clean...))
}
