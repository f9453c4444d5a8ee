package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fundly/internal/models/db_models"
)

type CollectiveRepositoryInterface interface {
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Collective, error)
	FindBySlug(ctx context.Context, slug string) (*db_models.Collective, error)
	Create(collective *db_models.Collective, ctx context.Context) error
	EventChildIDs(ctx context.Context, collectiveID uuid.UUID) ([]uuid.UUID, error)
}

func NewCollectiveRepository(db *gorm.DB) CollectiveRepositoryInterface {
	return &CollectiveRepository{db: db}
}

type CollectiveRepository struct {
	db *gorm.DB
}

func (r CollectiveRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Collective, error) {
	var collective db_models.Collective
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&collective).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &collective, nil
}

func (r CollectiveRepository) FindBySlug(ctx context.Context, slug string) (*db_models.Collective, error) {
	var collective db_models.Collective
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&collective).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &collective, nil
}

func (r CollectiveRepository) Create(collective *db_models.Collective, ctx context.Context) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.WithContext(ctx).Create(collective).Error
	})
}

// EventChildIDs returns the ids of EVENT collectives owned by the given
// collective. The hierarchy is one level deep, so no recursion.
func (r CollectiveRepository) EventChildIDs(ctx context.Context, collectiveID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&db_models.Collective{}).
		Where("parent_collective_id = ? AND kind = ?", collectiveID, db_models.CollectiveKindEvent).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
