package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundly/internal/models/request_models"
	"fundly/internal/repositories"
	"fundly/pkg/utils"
)

type NotificationServiceInterface interface {
	Unsubscribe(ctx context.Context, actorID uuid.UUID, req request_models.UnsubscribeRequest) error
	ActiveCount(ctx context.Context, actorID uuid.UUID, collectiveSlug, activityType, channel string) (int64, error)
}

type NotificationService struct {
	notificationRepo repositories.NotificationRepositoryInterface
	collectiveRepo   repositories.CollectiveRepositoryInterface
	logger           *zap.Logger
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepositoryInterface,
	collectiveRepo repositories.CollectiveRepositoryInterface,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &NotificationService{
		notificationRepo: notificationRepo,
		collectiveRepo:   collectiveRepo,
		logger:           logger,
	}
}

// Unsubscribe flips the caller's opt-out row for one collective to inactive.
// Idempotent: repeated calls converge on the same single inactive row.
func (n *NotificationService) Unsubscribe(ctx context.Context, actorID uuid.UUID, req request_models.UnsubscribeRequest) error {
	if actorID == uuid.Nil {
		return utils.Unauthorizedf("You need to be logged in to manage notifications")
	}
	if (req.Type == "") == (req.Channel == "") {
		return utils.ValidationFailed("Provide exactly one of type or channel")
	}

	collective, err := n.collectiveRepo.FindBySlug(ctx, req.CollectiveSlug)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if collective == nil {
		return utils.NotFoundf("No collective found with id: %s", req.CollectiveSlug)
	}

	if err := n.notificationRepo.SetInactive(ctx, actorID, collective.ID, req.Type, req.Channel); err != nil {
		n.logger.Error("unsubscribe failed", zap.Error(err), zap.String("collective", req.CollectiveSlug))
		return utils.ErrDatabaseError
	}
	return nil
}

func (n *NotificationService) ActiveCount(ctx context.Context, actorID uuid.UUID, collectiveSlug, activityType, channel string) (int64, error) {
	collective, err := n.collectiveRepo.FindBySlug(ctx, collectiveSlug)
	if err != nil {
		return 0, utils.ErrDatabaseError
	}
	if collective == nil {
		return 0, utils.NotFoundf("No collective found with id: %s", collectiveSlug)
	}
	count, err := n.notificationRepo.ActiveCount(ctx, actorID, collective.ID, activityType, channel)
	if err != nil {
		return 0, utils.ErrDatabaseError
	}
	return count, nil
}
