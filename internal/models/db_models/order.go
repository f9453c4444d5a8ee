package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Order struct {
	BaseModel
	CollectiveID     uuid.UUID `gorm:"index"`
	FromCollectiveID uuid.UUID `gorm:"index"`
	CreatedByUserID  uuid.UUID `gorm:"index"`
	TierID           *uuid.UUID `gorm:"index"`
	Quantity         int64      `gorm:"default:1"`
	TotalAmountMinor int64
	Currency         string `gorm:"size:3"`
	PublicMessage    *string

	// Unprocessed until ProcessedAt is set. Free orders are processed
	// immediately; paid orders only after the gateway settles funds.
	ProcessedAt    *int64
	SubscriptionID *uuid.UUID `gorm:"index"`

	// Gateway fields
	PaymentProvider  string `gorm:"index"`
	PaymentMethodRef string // token ref / last4, never raw card data
	ProviderTxnID    string `gorm:"index"`

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Collective     Collective    `gorm:"foreignKey:CollectiveID"`
	FromCollective Collective    `gorm:"foreignKey:FromCollectiveID"`
	Tier           *Tier         `gorm:"foreignKey:TierID"`
	Subscription   *Subscription `gorm:"foreignKey:SubscriptionID"`
}

func (o *Order) IsProcessed() bool {
	return o.ProcessedAt != nil
}

func (o *Order) IsFree() bool {
	return o.TotalAmountMinor == 0
}
