package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fundly/internal/models/db_models"
)

type NotificationRepositoryInterface interface {
	SetInactive(ctx context.Context, userID, collectiveID uuid.UUID, activityType, channel string) error
	InactiveUserIDs(ctx context.Context, collectiveID uuid.UUID, activityType, channel string) (map[uuid.UUID]bool, error)
	ActiveCount(ctx context.Context, userID, collectiveID uuid.UUID, activityType, channel string) (int64, error)
}

func NewNotificationRepository(db *gorm.DB) NotificationRepositoryInterface {
	return &NotificationRepository{db: db}
}

type NotificationRepository struct {
	db *gorm.DB
}

// SetInactive flips the opt-out row for the exact (user, collective,
// type/channel) tuple to inactive, creating it when absent. Repeated calls
// converge on the same single inactive row.
func (n NotificationRepository) SetInactive(ctx context.Context, userID, collectiveID uuid.UUID, activityType, channel string) error {
	return n.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row db_models.Notification
		err := tx.Where(
			"user_id = ? AND collective_id = ? AND type = ? AND channel = ?",
			userID, collectiveID, activityType, channel,
		).First(&row).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = db_models.Notification{
				UserID:       userID,
				CollectiveID: collectiveID,
				Type:         activityType,
				Channel:      channel,
				Active:       false,
			}
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}
		if !row.Active {
			return nil
		}
		return tx.Model(&row).Update("active", false).Error
	})
}

// InactiveUserIDs returns the users who opted out of the exact
// (collective, type/channel) scope. The default-on model means everyone
// absent from this set is subscribed.
func (n NotificationRepository) InactiveUserIDs(ctx context.Context, collectiveID uuid.UUID, activityType, channel string) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := n.db.WithContext(ctx).
		Model(&db_models.Notification{}).
		Where("collective_id = ? AND type = ? AND channel = ? AND active = ?", collectiveID, activityType, channel, false).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}

	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (n NotificationRepository) ActiveCount(ctx context.Context, userID, collectiveID uuid.UUID, activityType, channel string) (int64, error) {
	var count int64
	err := n.db.WithContext(ctx).
		Model(&db_models.Notification{}).
		Where("user_id = ? AND collective_id = ? AND type = ? AND channel = ? AND active = ?",
			userID, collectiveID, activityType, channel, true).
		Count(&count).Error
	return count, err
}
