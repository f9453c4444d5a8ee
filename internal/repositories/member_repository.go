package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fundly/internal/models/db_models"
)

type MemberRepositoryInterface interface {
	Create(ctx context.Context, member *db_models.Member) error
	Exists(ctx context.Context, collectiveID, memberCollectiveID uuid.UUID, role db_models.MemberRole) (bool, error)
	HasAnyRole(ctx context.Context, collectiveID, memberCollectiveID uuid.UUID, roles []db_models.MemberRole) (bool, error)
	ListByCollective(ctx context.Context, collectiveID uuid.UUID) ([]db_models.Member, error)
	UsersWithRoles(ctx context.Context, collectiveIDs []uuid.UUID, roles []db_models.MemberRole) ([]db_models.User, error)
}

func NewMemberRepository(db *gorm.DB) MemberRepositoryInterface {
	return &MemberRepository{db: db}
}

type MemberRepository struct {
	db *gorm.DB
}

func (m MemberRepository) Create(ctx context.Context, member *db_models.Member) error {
	return m.db.WithContext(ctx).Create(member).Error
}

func (m MemberRepository) Exists(ctx context.Context, collectiveID, memberCollectiveID uuid.UUID, role db_models.MemberRole) (bool, error) {
	return m.HasAnyRole(ctx, collectiveID, memberCollectiveID, []db_models.MemberRole{role})
}

func (m MemberRepository) HasAnyRole(ctx context.Context, collectiveID, memberCollectiveID uuid.UUID, roles []db_models.MemberRole) (bool, error) {
	var count int64
	err := m.db.WithContext(ctx).
		Model(&db_models.Member{}).
		Where("collective_id = ? AND member_collective_id = ? AND role IN ?", collectiveID, memberCollectiveID, roles).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (m MemberRepository) ListByCollective(ctx context.Context, collectiveID uuid.UUID) ([]db_models.Member, error) {
	var members []db_models.Member
	err := m.db.WithContext(ctx).
		Preload("MemberCollective").
		Where("collective_id = ?", collectiveID).
		Order("created_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// UsersWithRoles returns the distinct users standing behind member rows with
// the given roles on the given collectives. Personal and organization
// backing collectives both resolve through users.collective_id.
func (m MemberRepository) UsersWithRoles(ctx context.Context, collectiveIDs []uuid.UUID, roles []db_models.MemberRole) ([]db_models.User, error) {
	var users []db_models.User
	err := m.db.WithContext(ctx).
		Model(&db_models.User{}).
		Distinct("users.*").
		Joins("JOIN members ON members.member_collective_id = users.collective_id AND members.deleted_at IS NULL").
		Where("members.collective_id IN ? AND members.role IN ?", collectiveIDs, roles).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
