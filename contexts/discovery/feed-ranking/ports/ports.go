package ports

import (
	"context"
	"time"

	"boostfeed/contexts/discovery/feed-ranking/domain/entities"
)

// RankCursor identifies the last item of the previous ranked page. It is only
// valid against the (score DESC, video_id DESC) ordering that produced it.
type RankCursor struct {
	Score   float64 `json:"score"`
	VideoID string  `json:"video_id"`
}

// CommentCursor identifies the boundary comment of a thread page.
type CommentCursor struct {
	UpdatedAt time.Time `json:"updated_at"`
	CommentID string    `json:"comment_id"`
}

type VideoDetail struct {
	Video            entities.Video
	OwnerBoostPoints int64
	ViewCount        int64
	RatingCount      int64
	AvgRating        float64
	CommentCount     int64
}

type VideoCatalog interface {
	// CollectSignals returns ranking signals for every listable video
	// (public, done processing) in one batched read. Missing aggregates
	// come back as zero.
	CollectSignals(ctx context.Context) ([]entities.VideoSignals, error)
	GetVideoDetail(ctx context.Context, videoID string) (VideoDetail, error)
}

type CommentRepository interface {
	// ListThread pages top-level comments newest-first using
	// (updated_at DESC, comment_id DESC). Adapters fetch limit+1 rows and
	// report hasMore when the extra row exists.
	ListThread(ctx context.Context, videoID string, cursor *CommentCursor, limit int) ([]entities.Comment, bool, error)
	// ListReplies pages a reply thread oldest-first using
	// (updated_at ASC, comment_id ASC).
	ListReplies(ctx context.Context, videoID string, parentID string, cursor *CommentCursor, limit int) ([]entities.Comment, bool, error)
	CountForVideo(ctx context.Context, videoID string) (int64, error)
}
