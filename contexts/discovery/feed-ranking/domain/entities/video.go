package entities

import "time"

type VideoVisibility string

const (
	VideoVisibilityPublic  VideoVisibility = "public"
	VideoVisibilityPrivate VideoVisibility = "private"
)

type VideoStatus string

const (
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusFailed     VideoStatus = "failed"
)

type Video struct {
	VideoID    string
	OwnerID    string
	Title      string
	Visibility VideoVisibility
	Status     VideoStatus
	IsFeatured bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsListable reports whether the video may appear in ranked feeds.
// Exclusion happens before scoring, never inside the score function.
func (v Video) IsListable() bool {
	return v.Visibility == VideoVisibilityPublic && v.Status != VideoStatusProcessing
}

// VideoSignals carries the aggregated engagement counts that feed the rank
// score for one video. Counters may lag behind concurrent writers; a missing
// aggregate is reported as zero, never as a negative or absent value.
type VideoSignals struct {
	VideoID          string
	OwnerID          string
	Title            string
	OwnerBoostPoints int64
	ViewCount        int64
	RatingCount      int64
	AvgRating        float64
	CommentCount     int64
	UpdatedAt        time.Time
}

type RankedVideo struct {
	VideoSignals
	Score float64
}

type Comment struct {
	CommentID string
	VideoID   string
	ParentID  string // empty for top-level comments
	UserID    string
	Body      string
	LikeCount int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
