package queries

import (
	"context"
	"log/slog"
	"strings"

	application "boostfeed/contexts/discovery/feed-ranking/application"
	"boostfeed/contexts/discovery/feed-ranking/domain/entities"
	domainerrors "boostfeed/contexts/discovery/feed-ranking/domain/errors"
	"boostfeed/contexts/discovery/feed-ranking/ports"
	"boostfeed/internal/shared/keyset"
)

type ListCommentThreadsQuery struct {
	VideoID string
	Cursor  string
	Limit   int
}

type ListCommentThreadsResult struct {
	Comments     []entities.Comment
	CommentCount int64
	NextCursor   string
}

type ListCommentThreadsUseCase struct {
	Comments ports.CommentRepository
	Logger   *slog.Logger
}

func (u ListCommentThreadsUseCase) Execute(ctx context.Context, query ListCommentThreadsQuery) (ListCommentThreadsResult, error) {
	videoID := strings.TrimSpace(query.VideoID)
	if videoID == "" {
		return ListCommentThreadsResult{}, domainerrors.ErrInvalidCommentInput
	}
	limit := query.Limit
	if limit == 0 {
		limit = 20
	}
	if limit < 1 || limit > 100 {
		return ListCommentThreadsResult{}, domainerrors.ErrInvalidPageLimit
	}

	cursor, ok := decodeCommentCursor(query.Cursor)
	if !ok {
		total, err := u.Comments.CountForVideo(ctx, videoID)
		if err != nil {
			return ListCommentThreadsResult{}, err
		}
		return ListCommentThreadsResult{Comments: []entities.Comment{}, CommentCount: total}, nil
	}

	items, hasMore, err := u.Comments.ListThread(ctx, videoID, cursor, limit)
	if err != nil {
		application.ResolveLogger(u.Logger).Error("comment thread listing failed",
			"event", "feed_list_comment_threads_failed",
			"module", "discovery/feed-ranking",
			"layer", "application",
			"video_id", videoID,
			"error", err.Error(),
		)
		return ListCommentThreadsResult{}, err
	}

	total, err := u.Comments.CountForVideo(ctx, videoID)
	if err != nil {
		return ListCommentThreadsResult{}, err
	}

	result := ListCommentThreadsResult{Comments: items, CommentCount: total}
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		result.NextCursor = keyset.Encode(ports.CommentCursor{
			UpdatedAt: last.UpdatedAt,
			CommentID: last.CommentID,
		})
	}
	return result, nil
}

// decodeCommentCursor distinguishes "no cursor" (nil pointer, ok) from a
// forged token (not ok): the latter yields an empty page upstream.
func decodeCommentCursor(token string) (*ports.CommentCursor, bool) {
	if token == "" {
		return nil, true
	}
	cursor, ok := keyset.Decode[ports.CommentCursor](token)
	if !ok {
		return nil, false
	}
	return &cursor, true
}
