package db_models

import (
	"github.com/google/uuid"
)

type MemberRole string

const (
	RoleHost     MemberRole = "HOST"
	RoleAdmin    MemberRole = "ADMIN"
	RoleBacker   MemberRole = "BACKER"
	RoleAttendee MemberRole = "ATTENDEE"
	RoleFollower MemberRole = "FOLLOWER"
)

// Member is a standing role relationship between a backing collective and a
// target collective. A (collective, memberCollective) pair may hold several
// roles as separate rows.
type Member struct {
	BaseModel
	CollectiveID       uuid.UUID `gorm:"index"`
	MemberCollectiveID uuid.UUID `gorm:"index"`
	CreatedByUserID    uuid.UUID
	Role               MemberRole `gorm:"index"`
	TierID             *uuid.UUID
	Description        *string

	Collective       Collective `gorm:"foreignKey:CollectiveID"`
	MemberCollective Collective `gorm:"foreignKey:MemberCollectiveID"`
}
