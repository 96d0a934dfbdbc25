package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"boostfeed/contexts/discovery/feed-ranking/domain/entities"
	domainerrors "boostfeed/contexts/discovery/feed-ranking/domain/errors"
	"boostfeed/contexts/discovery/feed-ranking/ports"
	"boostfeed/internal/shared/keyset"

	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

type videoModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	UserID     string    `gorm:"column:user_id"`
	Title      string    `gorm:"column:title"`
	Visibility string    `gorm:"column:visibility"`
	Status     string    `gorm:"column:status"`
	IsFeatured bool      `gorm:"column:is_featured"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (videoModel) TableName() string { return "videos" }

type commentModel struct {
	CommentID string    `gorm:"column:comment_id;primaryKey"`
	VideoID   string    `gorm:"column:video_id"`
	ParentID  *string   `gorm:"column:parent_id"`
	UserID    string    `gorm:"column:user_id"`
	Body      string    `gorm:"column:body"`
	LikeCount int64     `gorm:"column:like_count"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (commentModel) TableName() string { return "comments" }

func (m commentModel) toEntity() entities.Comment {
	parentID := ""
	if m.ParentID != nil {
		parentID = *m.ParentID
	}
	return entities.Comment{
		CommentID: m.CommentID,
		VideoID:   m.VideoID,
		ParentID:  parentID,
		UserID:    m.UserID,
		Body:      m.Body,
		LikeCount: m.LikeCount,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type signalRow struct {
	VideoID          string    `gorm:"column:video_id"`
	OwnerID          string    `gorm:"column:owner_id"`
	Title            string    `gorm:"column:title"`
	OwnerBoostPoints int64     `gorm:"column:owner_boost_points"`
	ViewCount        int64     `gorm:"column:view_count"`
	RatingCount      int64     `gorm:"column:rating_count"`
	AvgRating        float64   `gorm:"column:avg_rating"`
	CommentCount     int64     `gorm:"column:comment_count"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

// CollectSignals batches every per-video aggregate into one read so the rank
// builder never issues per-item round trips.
func (r *Repository) CollectSignals(ctx context.Context) ([]entities.VideoSignals, error) {
	var rows []signalRow
	err := r.db.WithContext(ctx).
		Table("videos AS v").
		Select(`v.id AS video_id,
			v.user_id AS owner_id,
			v.title AS title,
			v.updated_at AS updated_at,
			COALESCE(u.boost_points, 0) AS owner_boost_points,
			COALESCE(vv.view_count, 0) AS view_count,
			COALESCE(ra.rating_count, 0) AS rating_count,
			COALESCE(ra.avg_rating, 0) AS avg_rating,
			COALESCE(ca.comment_count, 0) AS comment_count`).
		Joins("LEFT JOIN users AS u ON u.id = v.user_id").
		Joins("LEFT JOIN (SELECT video_id, SUM(seen) AS view_count FROM video_views GROUP BY video_id) AS vv ON vv.video_id = v.id").
		Joins("LEFT JOIN (SELECT video_id, COUNT(*) AS rating_count, AVG(rating) AS avg_rating FROM video_ratings GROUP BY video_id) AS ra ON ra.video_id = v.id").
		Joins("LEFT JOIN (SELECT video_id, COUNT(*) AS comment_count FROM comments GROUP BY video_id) AS ca ON ca.video_id = v.id").
		Where("v.visibility = ?", string(entities.VideoVisibilityPublic)).
		Where("v.status <> ?", string(entities.VideoStatusProcessing)).
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("feed_repo_collect_signals_failed", err)
	}

	items := make([]entities.VideoSignals, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.VideoSignals{
			VideoID:          row.VideoID,
			OwnerID:          row.OwnerID,
			Title:            row.Title,
			OwnerBoostPoints: row.OwnerBoostPoints,
			ViewCount:        row.ViewCount,
			RatingCount:      row.RatingCount,
			AvgRating:        row.AvgRating,
			CommentCount:     row.CommentCount,
			UpdatedAt:        row.UpdatedAt,
		})
	}
	return items, nil
}

func (r *Repository) GetVideoDetail(ctx context.Context, videoID string) (ports.VideoDetail, error) {
	videoID = strings.TrimSpace(videoID)

	var row videoModel
	err := r.db.WithContext(ctx).
		Where("id = ?", videoID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.VideoDetail{}, domainerrors.ErrVideoNotFound
		}
		return ports.VideoDetail{}, r.logError("feed_repo_get_video_failed", err, "video_id", videoID)
	}

	var aggregates signalRow
	err = r.db.WithContext(ctx).
		Table("videos AS v").
		Select(`COALESCE(u.boost_points, 0) AS owner_boost_points,
			COALESCE((SELECT SUM(seen) FROM video_views WHERE video_id = v.id), 0) AS view_count,
			COALESCE((SELECT COUNT(*) FROM video_ratings WHERE video_id = v.id), 0) AS rating_count,
			COALESCE((SELECT AVG(rating) FROM video_ratings WHERE video_id = v.id), 0) AS avg_rating,
			COALESCE((SELECT COUNT(*) FROM comments WHERE video_id = v.id), 0) AS comment_count`).
		Joins("LEFT JOIN users AS u ON u.id = v.user_id").
		Where("v.id = ?", videoID).
		Scan(&aggregates).
		Error
	if err != nil {
		return ports.VideoDetail{}, r.logError("feed_repo_get_video_aggregates_failed", err, "video_id", videoID)
	}

	return ports.VideoDetail{
		Video: entities.Video{
			VideoID:    row.ID,
			OwnerID:    row.UserID,
			Title:      row.Title,
			Visibility: entities.VideoVisibility(row.Visibility),
			Status:     entities.VideoStatus(row.Status),
			IsFeatured: row.IsFeatured,
			CreatedAt:  row.CreatedAt,
			UpdatedAt:  row.UpdatedAt,
		},
		OwnerBoostPoints: aggregates.OwnerBoostPoints,
		ViewCount:        aggregates.ViewCount,
		RatingCount:      aggregates.RatingCount,
		AvgRating:        aggregates.AvgRating,
		CommentCount:     aggregates.CommentCount,
	}, nil
}

func (r *Repository) ListThread(ctx context.Context, videoID string, cursor *ports.CommentCursor, limit int) ([]entities.Comment, bool, error) {
	tx := r.db.WithContext(ctx).Model(&commentModel{}).
		Where("video_id = ?", strings.TrimSpace(videoID)).
		Where("parent_id IS NULL")

	if cursor != nil {
		tx = tx.Where(
			"updated_at < ? OR (updated_at = ? AND comment_id < ?)",
			cursor.UpdatedAt, cursor.UpdatedAt, cursor.CommentID,
		)
	}

	var rows []commentModel
	err := tx.Order("updated_at DESC, comment_id DESC").
		Limit(limit + 1).
		Find(&rows).
		Error
	if err != nil {
		return nil, false, r.logError("feed_repo_list_thread_failed", err, "video_id", videoID)
	}

	page, hasMore := keyset.Cut(rows, limit)
	return toCommentEntities(page), hasMore, nil
}

func (r *Repository) ListReplies(ctx context.Context, videoID string, parentID string, cursor *ports.CommentCursor, limit int) ([]entities.Comment, bool, error) {
	tx := r.db.WithContext(ctx).Model(&commentModel{}).
		Where("video_id = ?", strings.TrimSpace(videoID)).
		Where("parent_id = ?", strings.TrimSpace(parentID))

	if cursor != nil {
		tx = tx.Where(
			"updated_at > ? OR (updated_at = ? AND comment_id > ?)",
			cursor.UpdatedAt, cursor.UpdatedAt, cursor.CommentID,
		)
	}

	var rows []commentModel
	err := tx.Order("updated_at ASC, comment_id ASC").
		Limit(limit + 1).
		Find(&rows).
		Error
	if err != nil {
		return nil, false, r.logError("feed_repo_list_replies_failed", err,
			"video_id", videoID,
			"parent_id", parentID,
		)
	}

	page, hasMore := keyset.Cut(rows, limit)
	return toCommentEntities(page), hasMore, nil
}

func (r *Repository) CountForVideo(ctx context.Context, videoID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&commentModel{}).
		Where("video_id = ?", strings.TrimSpace(videoID)).
		Count(&count).
		Error
	if err != nil {
		return 0, r.logError("feed_repo_count_comments_failed", err, "video_id", videoID)
	}
	return count, nil
}

func toCommentEntities(rows []commentModel) []entities.Comment {
	items := make([]entities.Comment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "discovery/feed-ranking",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("feed repository operation failed", fields...)
	return err
}
