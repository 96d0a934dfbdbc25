package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"boostfeed/contexts/discovery/feed-ranking/application/queries"
	"boostfeed/contexts/discovery/feed-ranking/domain/entities"
	httptransport "boostfeed/contexts/discovery/feed-ranking/transport/http"
)

type Handler struct {
	ListRanked     queries.ListRankedUseCase
	GetVideo       queries.GetVideoUseCase
	CommentThreads queries.ListCommentThreadsUseCase
	CommentReplies queries.ListCommentRepliesUseCase
	Logger         *slog.Logger
}

func (h Handler) ListFeedHandler(ctx context.Context, req httptransport.ListFeedRequest) (httptransport.ListFeedResponse, error) {
	result, err := h.ListRanked.Execute(ctx, queries.ListRankedQuery{
		Cursor: req.Cursor,
		Limit:  req.Limit,
	})
	if err != nil {
		return httptransport.ListFeedResponse{}, err
	}

	resp := httptransport.ListFeedResponse{Status: "success"}
	resp.Data.Items = make([]httptransport.RankedVideoDTO, 0, len(result.Items))
	for _, item := range result.Items {
		resp.Data.Items = append(resp.Data.Items, httptransport.RankedVideoDTO{
			VideoID:      item.VideoID,
			Title:        item.Title,
			OwnerID:      item.OwnerID,
			Score:        item.Score,
			ViewCount:    item.ViewCount,
			RatingCount:  item.RatingCount,
			AvgRating:    item.AvgRating,
			CommentCount: item.CommentCount,
			UpdatedAt:    item.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	resp.Data.NextCursor = result.NextCursor
	return resp, nil
}

func (h Handler) GetVideoHandler(ctx context.Context, videoID string) (httptransport.VideoDetailResponse, error) {
	result, err := h.GetVideo.Execute(ctx, videoID)
	if err != nil {
		return httptransport.VideoDetailResponse{}, err
	}

	resp := httptransport.VideoDetailResponse{Status: "success"}
	resp.Data.VideoID = result.Detail.Video.VideoID
	resp.Data.OwnerID = result.Detail.Video.OwnerID
	resp.Data.Title = result.Detail.Video.Title
	resp.Data.Visibility = string(result.Detail.Video.Visibility)
	resp.Data.ProcessingStatus = string(result.Detail.Video.Status)
	resp.Data.IsFeatured = result.Detail.Video.IsFeatured
	resp.Data.Score = result.Score
	resp.Data.OwnerBoostPoints = result.Detail.OwnerBoostPoints
	resp.Data.ViewCount = result.Detail.ViewCount
	resp.Data.RatingCount = result.Detail.RatingCount
	resp.Data.AvgRating = result.Detail.AvgRating
	resp.Data.CommentCount = result.Detail.CommentCount
	resp.Data.UpdatedAt = result.Detail.Video.UpdatedAt.UTC().Format(time.RFC3339)
	return resp, nil
}

func (h Handler) ListCommentsHandler(ctx context.Context, videoID string, cursor string, limit int) (httptransport.ListCommentsResponse, error) {
	result, err := h.CommentThreads.Execute(ctx, queries.ListCommentThreadsQuery{
		VideoID: videoID,
		Cursor:  cursor,
		Limit:   limit,
	})
	if err != nil {
		return httptransport.ListCommentsResponse{}, err
	}

	resp := httptransport.ListCommentsResponse{Status: "success"}
	resp.Data.Comments = toCommentDTOs(result.Comments)
	resp.Data.CommentCount = result.CommentCount
	resp.Data.NextCursor = result.NextCursor
	return resp, nil
}

func (h Handler) ListRepliesHandler(ctx context.Context, videoID string, parentID string, cursor string, limit int) (httptransport.ListRepliesResponse, error) {
	result, err := h.CommentReplies.Execute(ctx, queries.ListCommentRepliesQuery{
		VideoID:  videoID,
		ParentID: parentID,
		Cursor:   cursor,
		Limit:    limit,
	})
	if err != nil {
		return httptransport.ListRepliesResponse{}, err
	}

	resp := httptransport.ListRepliesResponse{Status: "success"}
	resp.Data.Comments = toCommentDTOs(result.Comments)
	resp.Data.NextCursor = result.NextCursor
	return resp, nil
}

func toCommentDTOs(comments []entities.Comment) []httptransport.CommentDTO {
	items := make([]httptransport.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		items = append(items, httptransport.CommentDTO{
			CommentID: comment.CommentID,
			VideoID:   comment.VideoID,
			ParentID:  comment.ParentID,
			UserID:    comment.UserID,
			Body:      comment.Body,
			LikeCount: comment.LikeCount,
			UpdatedAt: comment.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return items
}
