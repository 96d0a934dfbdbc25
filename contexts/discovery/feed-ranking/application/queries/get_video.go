package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "boostfeed/contexts/discovery/feed-ranking/application"
	"boostfeed/contexts/discovery/feed-ranking/domain/entities"
	domainerrors "boostfeed/contexts/discovery/feed-ranking/domain/errors"
	"boostfeed/contexts/discovery/feed-ranking/domain/services"
	"boostfeed/contexts/discovery/feed-ranking/ports"
)

type GetVideoResult struct {
	Detail ports.VideoDetail
	Score  float64
}

type GetVideoUseCase struct {
	Catalog ports.VideoCatalog
	Logger  *slog.Logger
}

func (u GetVideoUseCase) Execute(ctx context.Context, videoID string) (GetVideoResult, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return GetVideoResult{}, domainerrors.ErrInvalidVideoID
	}

	detail, err := u.Catalog.GetVideoDetail(ctx, videoID)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrVideoNotFound) {
			application.ResolveLogger(u.Logger).Error("video detail read failed",
				"event", "feed_get_video_failed",
				"module", "discovery/feed-ranking",
				"layer", "application",
				"video_id", videoID,
				"error", err.Error(),
			)
		}
		return GetVideoResult{}, err
	}

	score := services.Score(entities.VideoSignals{
		VideoID:          detail.Video.VideoID,
		OwnerID:          detail.Video.OwnerID,
		OwnerBoostPoints: detail.OwnerBoostPoints,
		ViewCount:        detail.ViewCount,
		RatingCount:      detail.RatingCount,
		AvgRating:        detail.AvgRating,
		CommentCount:     detail.CommentCount,
	})
	return GetVideoResult{Detail: detail, Score: score}, nil
}
