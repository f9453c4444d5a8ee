package db_models

import (
	"github.com/google/uuid"
)

type TierKind string

const (
	TierKindTicket TierKind = "TICKET"
	TierKindTier   TierKind = "TIER"
)

type BillingInterval string

const (
	IntervalMonth BillingInterval = "month"
	IntervalYear  BillingInterval = "year"
)

type Tier struct {
	BaseModel
	CollectiveID uuid.UUID `gorm:"index"`
	Kind         TierKind  `gorm:"index"`
	Name         string
	Description  *string
	AmountMinor  int64            // minor units, e.g. 999 = $9.99
	Currency     string           `gorm:"size:3"`
	Interval     *BillingInterval // non-nil means recurring billing
	MaxQuantity  *int64           // nil means unlimited
	Goal         *int64

	// Reservation counter kept equal to the sum of order quantities for
	// this tier. Updated with a conditional increment so concurrent
	// near-last-slot orders cannot both succeed.
	QuantitySold int64 `gorm:"default:0"`

	Collective Collective `gorm:"foreignKey:CollectiveID"`
}

func (t *Tier) IsRecurring() bool {
	return t.Interval != nil
}

func (t *Tier) IsFree() bool {
	return t.AmountMinor == 0
}
