package response_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CollectiveResponse struct {
	ID          uuid.UUID  `json:"id"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Kind        string     `json:"kind"`
	Currency    string     `json:"currency"`
	ParentSlug  string     `json:"parent_slug,omitempty"`
	Tiers       []TierResponse `json:"tiers,omitempty"`
}

type TierResponse struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	AmountMinor int64     `json:"amount_minor"`
	Currency    string    `json:"currency"`
	Interval    *string   `json:"interval,omitempty"`
	MaxQuantity *int64    `json:"max_quantity,omitempty"`

	// Remaining capacity; nil when the tier is unlimited.
	Available *int64 `json:"available,omitempty"`
}

// ActivityResponse is one feed entry; the payload is the summary document
// built when the activity was emitted.
type ActivityResponse struct {
	ID        uuid.UUID      `json:"id"`
	Type      string         `json:"type"`
	CreatedAt int64          `json:"created_at"`
	Payload   datatypes.JSON `json:"payload"`
}
