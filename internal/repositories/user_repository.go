package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fundly/internal/models/db_models"
)

type UserRepositoryInterface interface {
	FindByEmail(ctx context.Context, email string) (*db_models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error)
	FindByCollectiveIDs(ctx context.Context, collectiveIDs []uuid.UUID) ([]db_models.User, error)
	CreateWithCollective(ctx context.Context, user *db_models.User, collective *db_models.Collective) error
}

func NewUserRepository(db *gorm.DB) UserRepositoryInterface {
	return &UserRepository{db: db}
}

type UserRepository struct {
	db *gorm.DB
}

func (u UserRepository) FindByEmail(ctx context.Context, email string) (*db_models.User, error) {
	var user db_models.User
	err := u.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (u UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	var user db_models.User
	err := u.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByCollectiveIDs maps backing collectives to the users behind them.
func (u UserRepository) FindByCollectiveIDs(ctx context.Context, collectiveIDs []uuid.UUID) ([]db_models.User, error) {
	var users []db_models.User
	err := u.db.WithContext(ctx).Where("collective_id IN ?", collectiveIDs).Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CreateWithCollective inserts the personal collective and the user pointing
// at it in one transaction.
func (u UserRepository) CreateWithCollective(ctx context.Context, user *db_models.User, collective *db_models.Collective) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(collective).Error; err != nil {
			return err
		}
		user.CollectiveID = collective.ID
		return tx.Create(user).Error
	})
}
