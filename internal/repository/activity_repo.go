package repository

import (
	"context"

	"github.com/Eursukkul/staybook/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityRepository interface {
	Record(ctx context.Context, entry *models.ActivityEntry) error
	FindRecent(ctx context.Context, routingKeyPrefix string, limit int) ([]models.ActivityEntry, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Record inserts entry once per MessageID; redeliveries are ignored.
func (r *activityRepository) Record(ctx context.Context, entry *models.ActivityEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}},
			DoNothing: true,
		}).
		Create(entry).Error
}

func (r *activityRepository) FindRecent(ctx context.Context, routingKeyPrefix string, limit int) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	q := r.db.WithContext(ctx)
	if routingKeyPrefix != "" {
		q = q.Where("routing_key LIKE ?", routingKeyPrefix+"%")
	}
	if err := q.Order("occurred_at DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
