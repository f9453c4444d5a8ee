package response_models

import (
	"github.com/google/uuid"
)

// MemberResponse is the read shape for membership listings. Email is nulled
// (not omitted) for viewers without edit rights on the collective so the
// response shape stays stable for callers.
type MemberResponse struct {
	ID             uuid.UUID `json:"id"`
	CollectiveSlug string    `json:"collective_slug"`
	MemberSlug     string    `json:"member_slug"`
	MemberName     string    `json:"member_name"`
	Role           string    `json:"role"`
	TierID         *uuid.UUID `json:"tier_id,omitempty"`
	Email          *string   `json:"email"`
	CreatedAt      int64     `json:"created_at"`
}
