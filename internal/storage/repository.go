package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

// Repository persists hashtag usage history and capture records. All methods
// are best-effort from the caller's point of view: a failing store must never
// block note capture.
type Repository interface {
	RecordTagUsage(ctx context.Context, tag string, at time.Time) error
	GetTagStat(ctx context.Context, tag string) (TagStat, error)
	ListTagStats(ctx context.Context) ([]TagStat, error)
	DeleteTagStat(ctx context.Context, tag string) error

	RecordCapture(ctx context.Context, in Capture) error
	ListCaptures(ctx context.Context, filter CaptureListFilter) ([]Capture, error)
	PruneCaptures(ctx context.Context, before time.Time) (int64, error)
}
