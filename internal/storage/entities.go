package storage

import "time"

// TagStat is the persisted usage history for one hashtag. It seeds the
// in-memory index ordering at startup; the live counts still come from
// scanning the document.
type TagStat struct {
	Tag        string
	Count      int
	LastUsedAt time.Time
}

// Capture records one quick-entry submission.
type Capture struct {
	ID         string
	CapturedAt time.Time
	Chars      int
	Tags       int
}

type CaptureListFilter struct {
	Limit  int
	Offset int
}
