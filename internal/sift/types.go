package sift

// Kind identifies the transfer action a work item performs.
type Kind int

const (
	KindCopyToBucket Kind = iota
	KindDownloadToLocal
)

func (k Kind) String() string {
	switch k {
	case KindCopyToBucket:
		return "copy"
	case KindDownloadToLocal:
		return "download"
	default:
		return "unknown"
	}
}

// WorkItem is one planned transfer derived from one filtered object.
type WorkItem struct {
	SourceKey string
	DestKey   string
	Kind      Kind
	Size      int64

	// DestBucket is set for KindCopyToBucket.
	DestBucket string
	// LocalPath is set for KindDownloadToLocal.
	LocalPath string
}

// Destination renders the item's target for logs and reports.
func (w WorkItem) Destination() string {
	if w.Kind == KindDownloadToLocal {
		return w.LocalPath
	}
	return "s3://" + w.DestBucket + "/" + w.DestKey
}

// Status is the terminal state of one work item.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome records the result of one work item. It is never mutated
// after the engine produces it.
type Outcome struct {
	Item   WorkItem
	Status Status
	Err    error
}
