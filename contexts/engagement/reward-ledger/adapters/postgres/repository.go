package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"boostfeed/contexts/engagement/reward-ledger/domain/entities"
	domainerrors "boostfeed/contexts/engagement/reward-ledger/domain/errors"
	"boostfeed/contexts/engagement/reward-ledger/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"

	// lockTimeout bounds FOR UPDATE waits so a contended viewer fails fast
	// with a retryable busy error instead of queueing behind abuse bursts.
	lockTimeout = "800ms"
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

type userModel struct {
	ID          string `gorm:"column:id;primaryKey"`
	BoostPoints int64  `gorm:"column:boost_points"`
}

func (userModel) TableName() string { return "users" }

type videoProjectionModel struct {
	ID         string `gorm:"column:id;primaryKey"`
	UserID     string `gorm:"column:user_id"`
	Visibility string `gorm:"column:visibility"`
	IsFeatured bool   `gorm:"column:is_featured"`
}

func (videoProjectionModel) TableName() string { return "videos" }

type rewardGrantModel struct {
	GrantID   string    `gorm:"column:grant_id;primaryKey"`
	UserID    string    `gorm:"column:user_id"`
	VideoID   string    `gorm:"column:video_id"`
	XPEarned  int       `gorm:"column:xp_earned"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (rewardGrantModel) TableName() string { return "rewarded_views" }

func (m rewardGrantModel) toEntity() entities.RewardGrant {
	return entities.RewardGrant{
		GrantID:   m.GrantID,
		UserID:    m.UserID,
		VideoID:   m.VideoID,
		XPEarned:  m.XPEarned,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type outboxModel struct {
	OutboxID  string     `gorm:"column:outbox_id;primaryKey"`
	EventType string     `gorm:"column:event_type"`
	Payload   []byte     `gorm:"column:payload"`
	Status    string     `gorm:"column:status"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	SentAt    *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string { return "reward_outbox" }

// InViewerTx wraps fn in one transaction that first takes SELECT ... FOR
// UPDATE on the viewer's users row. The lock is on the reputation row, not
// the grant row, because the trailing-window count spans all videos.
func (r *Repository) InViewerTx(ctx context.Context, userID string, fn func(tx ports.LedgerTx) error) error {
	userID = strings.TrimSpace(userID)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SET LOCAL lock_timeout = '" + lockTimeout + "'").Error; err != nil {
			return r.logError("reward_repo_set_lock_timeout_failed", err, "user_id", userID)
		}

		var viewer userModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", userID).
			First(&viewer).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrViewerNotFound
			}
			if isLockNotAvailable(err) {
				return domainerrors.ErrLedgerBusy
			}
			return r.logError("reward_repo_lock_viewer_failed", err, "user_id", userID)
		}

		return fn(ledgerTx{db: tx})
	})
}

type ledgerTx struct {
	db *gorm.DB
}

func (t ledgerTx) Video(_ context.Context, videoID string) (ports.VideoProjection, bool, error) {
	var row videoProjectionModel
	err := t.db.
		Where("id = ?", strings.TrimSpace(videoID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.VideoProjection{}, false, nil
		}
		return ports.VideoProjection{}, false, err
	}
	return ports.VideoProjection{
		VideoID:    row.ID,
		OwnerID:    row.UserID,
		IsFeatured: row.IsFeatured,
		Visibility: row.Visibility,
	}, true, nil
}

func (t ledgerTx) LastGrantAt(_ context.Context, userID string) (time.Time, bool, error) {
	var row rewardGrantModel
	err := t.db.
		Where("user_id = ?", strings.TrimSpace(userID)).
		Order("updated_at DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return row.UpdatedAt, true, nil
}

func (t ledgerTx) CountGrantsSince(_ context.Context, userID string, since time.Time) (int, error) {
	var count int64
	err := t.db.Model(&rewardGrantModel{}).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Where("updated_at >= ?", since).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (t ledgerTx) Grant(_ context.Context, userID string, videoID string) (entities.RewardGrant, bool, error) {
	var row rewardGrantModel
	err := t.db.
		Where("user_id = ?", strings.TrimSpace(userID)).
		Where("video_id = ?", strings.TrimSpace(videoID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.RewardGrant{}, false, nil
		}
		return entities.RewardGrant{}, false, err
	}
	return row.toEntity(), true, nil
}

func (t ledgerTx) UpsertGrant(_ context.Context, grant entities.RewardGrant) error {
	row := rewardGrantModel{
		GrantID:   grant.GrantID,
		UserID:    grant.UserID,
		VideoID:   grant.VideoID,
		XPEarned:  grant.XPEarned,
		CreatedAt: grant.CreatedAt,
		UpdatedAt: grant.UpdatedAt,
	}
	return t.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"xp_earned":  row.XPEarned,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error
}

func (t ledgerTx) AddBoostPoints(_ context.Context, userID string, delta int) error {
	return t.db.Model(&userModel{}).
		Where("id = ?", strings.TrimSpace(userID)).
		UpdateColumn("boost_points", gorm.Expr("boost_points + ?", delta)).
		Error
}

func (t ledgerTx) AppendOutbox(_ context.Context, message ports.OutboxMessage) error {
	return t.db.Create(&outboxModel{
		OutboxID:  message.OutboxID,
		EventType: message.EventType,
		Payload:   message.Payload,
		Status:    message.Status,
		CreatedAt: message.CreatedAt,
	}).Error
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("reward_repo_list_outbox_failed", err)
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			Status:    row.Status,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outboxStatusPublished,
			"sent_at": sentAt,
		}).
		Error
	if err != nil {
		return r.logError("reward_repo_mark_outbox_sent_failed", err, "outbox_id", outboxID)
	}
	return nil
}

func isLockNotAvailable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "55P03"
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "engagement/reward-ledger",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("reward repository operation failed", fields...)
	return err
}
