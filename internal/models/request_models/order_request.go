package request_models

import (
	"github.com/google/uuid"
)

// PaymentMethodDescriptor is the opaque payment handle supplied by the
// client. The token never contains raw card data.
type PaymentMethodDescriptor struct {
	Token    string            `json:"token" binding:"required"`
	Provider string            `json:"provider" binding:"required"`
	Billing  map[string]string `json:"billing,omitempty"`
}

// FromCollectiveDescriptor points at an existing backing collective or
// carries inline creation data for a new organization.
type FromCollectiveDescriptor struct {
	ID   *uuid.UUID `json:"id,omitempty"`
	Name string     `json:"name,omitempty"`
	Slug string     `json:"slug,omitempty"`
}

// UserDescriptor identifies the ordering user when no session exists. A
// matching user is looked up by email; otherwise one is auto-provisioned.
type UserDescriptor struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name,omitempty"`
}

type CreateOrderRequest struct {
	// Collective reference, id or slug. Exactly one is required.
	CollectiveID   *uuid.UUID `json:"collective_id,omitempty"`
	CollectiveSlug string     `json:"collective_slug,omitempty"`

	TierID   *uuid.UUID `json:"tier_id,omitempty"`
	Quantity int64      `json:"quantity,omitempty"`

	// Explicit amount for tierless donations; ignored when a tier is set.
	TotalAmountMinor int64  `json:"total_amount_minor,omitempty"`
	Currency         string `json:"currency,omitempty"`

	PaymentMethod  *PaymentMethodDescriptor  `json:"payment_method,omitempty"`
	FromCollective *FromCollectiveDescriptor `json:"from_collective,omitempty"`
	User           *UserDescriptor           `json:"user,omitempty"`
	PublicMessage  *string                   `json:"public_message,omitempty"`
}
