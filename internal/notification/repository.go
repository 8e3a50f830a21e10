package notification

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateLog(ctx context.Context, log *NotificationLog) error
	ListLogs(ctx context.Context, siteID uint, applicationID *uint, limit, offset int) ([]NotificationLog, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateLog(ctx context.Context, log *NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) ListLogs(ctx context.Context, siteID uint, applicationID *uint, limit, offset int) ([]NotificationLog, int64, error) {
	var logs []NotificationLog
	var total int64

	query := r.db.WithContext(ctx).Model(&NotificationLog{}).Where("site_id = ?", siteID)
	if applicationID != nil {
		query = query.Where("application_id = ?", *applicationID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error
	return logs, total, err
}
