package services

import (
	"context"

	"outfitbot/models"

	"gorm.io/gorm"
)

// PushLogger records each delivery attempt.
type PushLogger interface {
	Record(ctx context.Context, entry *models.PushLog) error
}

type DBPushLog struct {
	DB *gorm.DB
}

func (l DBPushLog) Record(ctx context.Context, entry *models.PushLog) error {
	return l.DB.WithContext(ctx).Create(entry).Error
}

func (l DBPushLog) Recent(ctx context.Context, limit int) ([]models.PushLog, error) {
	var entries []models.PushLog
	err := l.DB.WithContext(ctx).Order("id desc").Limit(limit).Find(&entries).Error
	return entries, err
}
