package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fundly/internal/models/db_models"
)

type ActivityRepositoryInterface interface {
	Create(ctx context.Context, activity *db_models.Activity) error
	ListByCollective(ctx context.Context, collectiveID uuid.UUID, limit int) ([]db_models.Activity, error)
}

func NewActivityRepository(db *gorm.DB) ActivityRepositoryInterface {
	return &ActivityRepository{db: db}
}

type ActivityRepository struct {
	db *gorm.DB
}

func (a ActivityRepository) Create(ctx context.Context, activity *db_models.Activity) error {
	return a.db.WithContext(ctx).Create(activity).Error
}

func (a ActivityRepository) ListByCollective(ctx context.Context, collectiveID uuid.UUID, limit int) ([]db_models.Activity, error) {
	var activities []db_models.Activity
	err := a.db.WithContext(ctx).
		Where("collective_id = ?", collectiveID).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}
