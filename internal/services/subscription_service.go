package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundly/internal/models/db_models"
	"fundly/internal/repositories"
	"fundly/pkg/utils"
)

type SubscriptionManagerInterface interface {
	CreateFromTier(ctx context.Context, tier *db_models.Tier, provider string) (*db_models.Subscription, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type SubscriptionManager struct {
	subscriptionRepo repositories.SubscriptionRepositoryInterface
	logger           *zap.Logger
}

func NewSubscriptionManager(subscriptionRepo repositories.SubscriptionRepositoryInterface, logger *zap.Logger) SubscriptionManagerInterface {
	return &SubscriptionManager{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// CreateFromTier snapshots the tier's billing terms at call time. Later
// edits to the tier never touch an existing subscription.
func (s *SubscriptionManager) CreateFromTier(ctx context.Context, tier *db_models.Tier, provider string) (*db_models.Subscription, error) {
	if tier.Interval == nil {
		return nil, utils.ValidationFailed("tier has no billing interval")
	}

	meta, _ := json.Marshal(map[string]interface{}{
		"tier_id":   tier.ID,
		"tier_name": tier.Name,
	})

	subscription := &db_models.Subscription{
		AmountMinor: tier.AmountMinor,
		Currency:    tier.Currency,
		Interval:    *tier.Interval,
		IsActive:    true,
		Provider:    provider,
		Metadata:    meta,
	}

	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		s.logger.Error("create subscription failed", zap.Error(err), zap.String("tier_id", tier.ID.String()))
		return nil, utils.ErrDatabaseError
	}

	return subscription, nil
}

func (s *SubscriptionManager) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.subscriptionRepo.Deactivate(ctx, id); err != nil {
		s.logger.Error("deactivate subscription failed", zap.Error(err), zap.String("subscription_id", id.String()))
		return utils.ErrDatabaseError
	}
	return nil
}
