package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ActivityOrderProcessed   = "order.processed"
	ActivityMemberCreated    = "collective.member.created"
	ActivitySubscriptionStarted = "subscription.started"
)

// Activity is an outcome event built after an order settles. The payload
// carries the collective, member and order summaries handed to the notifier.
type Activity struct {
	BaseModel
	Type         string    `gorm:"index"`
	CollectiveID uuid.UUID `gorm:"index"`
	OrderID      *uuid.UUID
	UserID       *uuid.UUID

	Payload datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
