package services

import (
	"context"

	"fundly/internal/models/response_models"
	"fundly/internal/repositories"
	"fundly/pkg/utils"
)

type CollectiveServiceInterface interface {
	GetCollective(ctx context.Context, slug string) (*response_models.CollectiveResponse, error)
	ListActivities(ctx context.Context, slug string, limit int) ([]response_models.ActivityResponse, error)
}

type CollectiveService struct {
	collectiveRepo repositories.CollectiveRepositoryInterface
	tierRepo       repositories.TierRepositoryInterface
	activityRepo   repositories.ActivityRepositoryInterface
	guard          CapacityGuardInterface
}

func NewCollectiveService(
	collectiveRepo repositories.CollectiveRepositoryInterface,
	tierRepo repositories.TierRepositoryInterface,
	activityRepo repositories.ActivityRepositoryInterface,
	guard CapacityGuardInterface,
) CollectiveServiceInterface {
	return &CollectiveService{
		collectiveRepo: collectiveRepo,
		tierRepo:       tierRepo,
		activityRepo:   activityRepo,
		guard:          guard,
	}
}

// GetCollective returns the collective with its tier catalog and live
// remaining capacity per tier.
func (c *CollectiveService) GetCollective(ctx context.Context, slug string) (*response_models.CollectiveResponse, error) {
	collective, err := c.collectiveRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if collective == nil {
		return nil, utils.NotFoundf("No collective found with id: %s", slug)
	}

	tiers, err := c.tierRepo.ListByCollective(ctx, collective.ID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	resp := &response_models.CollectiveResponse{
		ID:          collective.ID,
		Slug:        collective.Slug,
		Name:        collective.Name,
		Description: collective.Description,
		Kind:        string(collective.Kind),
		Currency:    collective.Currency,
	}

	if collective.ParentCollectiveID != nil {
		if parent, err := c.collectiveRepo.FindByID(ctx, *collective.ParentCollectiveID); err == nil && parent != nil {
			resp.ParentSlug = parent.Slug
		}
	}

	for i := range tiers {
		tier := &tiers[i]
		available, err := c.guard.Available(ctx, tier)
		if err != nil {
			return nil, err
		}
		tierResp := response_models.TierResponse{
			ID:          tier.ID,
			Kind:        string(tier.Kind),
			Name:        tier.Name,
			AmountMinor: tier.AmountMinor,
			Currency:    tier.Currency,
			MaxQuantity: tier.MaxQuantity,
			Available:   available,
		}
		if tier.Interval != nil {
			interval := string(*tier.Interval)
			tierResp.Interval = &interval
		}
		resp.Tiers = append(resp.Tiers, tierResp)
	}

	return resp, nil
}

// ListActivities returns the collective's most recent outcome events, newest
// first.
func (c *CollectiveService) ListActivities(ctx context.Context, slug string, limit int) ([]response_models.ActivityResponse, error) {
	collective, err := c.collectiveRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if collective == nil {
		return nil, utils.NotFoundf("No collective found with id: %s", slug)
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	activities, err := c.activityRepo.ListByCollective(ctx, collective.ID, limit)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	responses := make([]response_models.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, response_models.ActivityResponse{
			ID:        activity.ID,
			Type:      activity.Type,
			CreatedAt: activity.CreatedAt,
			Payload:   activity.Payload,
		})
	}
	return responses, nil
}
