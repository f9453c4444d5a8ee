package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fundly/internal/models/db_models"
)

type SubscriptionRepositoryInterface interface {
	Create(ctx context.Context, subscription *db_models.Subscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepositoryInterface {
	return &SubscriptionRepository{db: db}
}

type SubscriptionRepository struct {
	db *gorm.DB
}

func (s SubscriptionRepository) Create(ctx context.Context, subscription *db_models.Subscription) error {
	return s.db.WithContext(ctx).Create(subscription).Error
}

func (s SubscriptionRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (s SubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Subscription, error) {
	var subscription db_models.Subscription
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subscription, nil
}
