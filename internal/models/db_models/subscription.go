package db_models

import (
	"gorm.io/datatypes"
)

// Subscription is a snapshot of a tier's billing terms taken at order time.
// Amount, currency and interval are copied, never re-derived from the live
// tier, so later tier edits cannot touch existing billing records.
type Subscription struct {
	BaseModel
	AmountMinor int64
	Currency    string          `gorm:"size:3"`
	Interval    BillingInterval `gorm:"index"`
	IsActive    bool            `gorm:"default:true"`

	// Provider coupling for recurring charges
	Provider      string `gorm:"index"`
	ProviderSubID string `gorm:"index"`

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
