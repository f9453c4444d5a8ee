package response_models

import (
	"github.com/google/uuid"
)

type OrderResponse struct {
	ID               uuid.UUID  `json:"id"`
	CollectiveSlug   string     `json:"collective_slug"`
	FromCollective   string     `json:"from_collective_slug"`
	TierName         string     `json:"tier_name,omitempty"`
	Quantity         int64      `json:"quantity"`
	TotalAmountMinor int64      `json:"total_amount_minor"`
	Currency         string     `json:"currency"`
	PublicMessage    *string    `json:"public_message,omitempty"`
	ProcessedAt      *int64     `json:"processed_at,omitempty"`
	SubscriptionID   *uuid.UUID `json:"subscription_id,omitempty"`
	MemberRole       string     `json:"member_role,omitempty"`

	// Non-fatal problems after the order was durably processed, e.g. a
	// notification fan-out failure. The order itself remains valid.
	Warnings []string `json:"warnings,omitempty"`
}
