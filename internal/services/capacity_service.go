package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundly/internal/models/db_models"
	"fundly/internal/repositories"
	"fundly/pkg/utils"
)

// Reservation ties a created order to the tier capacity it consumed, so a
// failed charge can hand both back in one compensating action.
type Reservation struct {
	Order *db_models.Order
	Tier  *db_models.Tier
}

type CapacityGuardInterface interface {
	ResolveTier(ctx context.Context, collective *db_models.Collective, tierID uuid.UUID) (*db_models.Tier, error)
	Reserve(ctx context.Context, order *db_models.Order, tier *db_models.Tier) (*Reservation, error)
	Release(ctx context.Context, reservation *Reservation) error
	Available(ctx context.Context, tier *db_models.Tier) (*int64, error)
}

type CapacityGuard struct {
	collectiveRepo repositories.CollectiveRepositoryInterface
	tierRepo       repositories.TierRepositoryInterface
	orderRepo      repositories.OrderRepositoryInterface
	logger         *zap.Logger
}

func NewCapacityGuard(
	collectiveRepo repositories.CollectiveRepositoryInterface,
	tierRepo repositories.TierRepositoryInterface,
	orderRepo repositories.OrderRepositoryInterface,
	logger *zap.Logger,
) CapacityGuardInterface {
	return &CapacityGuard{
		collectiveRepo: collectiveRepo,
		tierRepo:       tierRepo,
		orderRepo:      orderRepo,
		logger:         logger,
	}
}

// ResolveTier looks the tier up in the collective's catalog, which includes
// tiers attached to the collective's own EVENT children.
func (g *CapacityGuard) ResolveTier(ctx context.Context, collective *db_models.Collective, tierID uuid.UUID) (*db_models.Tier, error) {
	catalog := []uuid.UUID{collective.ID}

	childIDs, err := g.collectiveRepo.EventChildIDs(ctx, collective.ID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	catalog = append(catalog, childIDs...)

	tier, err := g.tierRepo.FindForCollectives(ctx, tierID, catalog)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if tier == nil {
		return nil, utils.NotFoundf("No tier found with tier id: %s for collective slug %s", tierID, collective.Slug)
	}
	return tier, nil
}

// Reserve inserts the order and consumes capacity atomically. Unlimited
// tiers always succeed.
func (g *CapacityGuard) Reserve(ctx context.Context, order *db_models.Order, tier *db_models.Tier) (*Reservation, error) {
	err := g.orderRepo.CreateWithReservation(ctx, order, tier)
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientCapacity) {
			return nil, utils.CapacityExceededf("No more tickets left for %s", tier.Name)
		}
		g.logger.Error("capacity reservation failed", zap.Error(err), zap.String("tier_id", tier.ID.String()))
		return nil, utils.ErrDatabaseError
	}
	return &Reservation{Order: order, Tier: tier}, nil
}

func (g *CapacityGuard) Release(ctx context.Context, reservation *Reservation) error {
	if err := g.orderRepo.ReleaseAndDelete(ctx, reservation.Order); err != nil {
		g.logger.Error("capacity release failed", zap.Error(err), zap.String("order_id", reservation.Order.ID.String()))
		return utils.ErrDatabaseError
	}
	return nil
}

func (g *CapacityGuard) Available(ctx context.Context, tier *db_models.Tier) (*int64, error) {
	available, err := g.tierRepo.Available(ctx, tier)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return available, nil
}
