package db_models

import (
	"github.com/google/uuid"
)

// Notification is a sparse per-(user, collective) opt-out override. Absence
// of a row means "subscribed" (default-on). Two independent axes exist: a
// channel opt-out (Channel set, Type empty) suppresses one mailing channel,
// a type opt-out (Type set, Channel empty) suppresses one activity type
// regardless of channel. Re-toggling updates the existing row in place.
type Notification struct {
	BaseModel
	UserID       uuid.UUID `gorm:"index;uniqueIndex:idx_notification_scope"`
	CollectiveID uuid.UUID `gorm:"index;uniqueIndex:idx_notification_scope"`
	Type         string    `gorm:"uniqueIndex:idx_notification_scope"`
	Channel      string    `gorm:"uniqueIndex:idx_notification_scope"`
	Active       bool      `gorm:"default:true"`
}
