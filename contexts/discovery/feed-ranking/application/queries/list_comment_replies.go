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

type ListCommentRepliesQuery struct {
	VideoID  string
	ParentID string
	Cursor   string
	Limit    int
}

type ListCommentRepliesResult struct {
	Comments   []entities.Comment
	NextCursor string
}

// ListCommentRepliesUseCase pages a reply thread oldest-first. Same keyset
// technique as the top-level listing; direction is the only difference.
type ListCommentRepliesUseCase struct {
	Comments ports.CommentRepository
	Logger   *slog.Logger
}

func (u ListCommentRepliesUseCase) Execute(ctx context.Context, query ListCommentRepliesQuery) (ListCommentRepliesResult, error) {
	videoID := strings.TrimSpace(query.VideoID)
	parentID := strings.TrimSpace(query.ParentID)
	if videoID == "" || parentID == "" {
		return ListCommentRepliesResult{}, domainerrors.ErrInvalidCommentInput
	}
	limit := query.Limit
	if limit == 0 {
		limit = 20
	}
	if limit < 1 || limit > 100 {
		return ListCommentRepliesResult{}, domainerrors.ErrInvalidPageLimit
	}

	cursor, ok := decodeCommentCursor(query.Cursor)
	if !ok {
		return ListCommentRepliesResult{Comments: []entities.Comment{}}, nil
	}

	items, hasMore, err := u.Comments.ListReplies(ctx, videoID, parentID, cursor, limit)
	if err != nil {
		application.ResolveLogger(u.Logger).Error("comment reply listing failed",
			"event", "feed_list_comment_replies_failed",
			"module", "discovery/feed-ranking",
			"layer", "application",
			"video_id", videoID,
			"parent_id", parentID,
			"error", err.Error(),
		)
		return ListCommentRepliesResult{}, err
	}

	result := ListCommentRepliesResult{Comments: items}
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		result.NextCursor = keyset.Encode(ports.CommentCursor{
			UpdatedAt: last.UpdatedAt,
			CommentID: last.CommentID,
		})
	}
	return result, nil
}
