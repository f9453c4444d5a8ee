package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fundly/internal/models/db_models"
)

type TierRepositoryInterface interface {
	FindByID(ctx context.Context, tierID uuid.UUID) (*db_models.Tier, error)
	FindForCollectives(ctx context.Context, tierID uuid.UUID, collectiveIDs []uuid.UUID) (*db_models.Tier, error)
	ListByCollective(ctx context.Context, collectiveID uuid.UUID) ([]db_models.Tier, error)
	Available(ctx context.Context, tier *db_models.Tier) (*int64, error)
	Update(tier *db_models.Tier, ctx context.Context) error
}

func NewTierRepository(db *gorm.DB) TierRepositoryInterface {
	return &TierRepository{db: db}
}

type TierRepository struct {
	db *gorm.DB
}

func (t TierRepository) FindByID(ctx context.Context, tierID uuid.UUID) (*db_models.Tier, error) {
	var tier db_models.Tier
	err := t.db.WithContext(ctx).Where("id = ?", tierID).First(&tier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tier, nil
}

// FindForCollectives resolves a tier only if it belongs to one of the given
// collectives (the ordered collective or one of its EVENT children).
func (t TierRepository) FindForCollectives(ctx context.Context, tierID uuid.UUID, collectiveIDs []uuid.UUID) (*db_models.Tier, error) {
	var tier db_models.Tier
	err := t.db.WithContext(ctx).
		Where("id = ? AND collective_id IN ?", tierID, collectiveIDs).
		First(&tier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tier, nil
}

func (t TierRepository) ListByCollective(ctx context.Context, collectiveID uuid.UUID) ([]db_models.Tier, error) {
	var tiers []db_models.Tier
	err := t.db.WithContext(ctx).Where("collective_id = ?", collectiveID).Find(&tiers).Error
	if err != nil {
		return nil, err
	}
	return tiers, nil
}

// Available computes remaining capacity from the orders actually placed
// against the tier. Unlimited tiers return nil.
func (t TierRepository) Available(ctx context.Context, tier *db_models.Tier) (*int64, error) {
	if tier.MaxQuantity == nil {
		return nil, nil
	}

	var taken int64
	err := t.db.WithContext(ctx).
		Model(&db_models.Order{}).
		Where("tier_id = ?", tier.ID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&taken).Error
	if err != nil {
		return nil, err
	}

	available := *tier.MaxQuantity - taken
	return &available, nil
}

func (t TierRepository) Update(tier *db_models.Tier, ctx context.Context) error {
	return t.db.WithContext(ctx).Save(tier).Error
}
