package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"boostfeed/contexts/identity-access/caller-resolver/domain/entities"

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

type callerModel struct {
	ID          string `gorm:"column:id;primaryKey"`
	DisplayName string `gorm:"column:display_name"`
}

func (callerModel) TableName() string { return "users" }

func (r *Repository) FindCaller(ctx context.Context, credential string) (entities.Caller, bool, error) {
	var row callerModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(credential)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Caller{}, false, nil
		}
		r.logger.Error("caller lookup query failed",
			"event", "caller_repo_find_failed",
			"module", "identity-access/caller-resolver",
			"layer", "adapter",
			"error", err.Error(),
		)
		return entities.Caller{}, false, err
	}
	return entities.Caller{
		UserID:      row.ID,
		DisplayName: row.DisplayName,
	}, true, nil
}
