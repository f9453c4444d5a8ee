package request_models

import (
	"github.com/google/uuid"
)

// CreateMemberRequest is the membership-management entry point outside the
// order path: admins grant ADMIN/FOLLOWER/HOST roles directly.
type CreateMemberRequest struct {
	MemberCollectiveID *uuid.UUID `json:"member_collective_id,omitempty"`
	Email              string     `json:"email,omitempty"`
	Name               string     `json:"name,omitempty"`
	Role               string     `json:"role" binding:"required"`
}
