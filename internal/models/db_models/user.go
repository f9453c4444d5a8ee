package db_models

import (
	"github.com/google/uuid"
)

// User is the login identity behind a personal collective. Users created by
// order provisioning carry an unguessable password hash and are never
// authenticated by virtue of appearing in an order.
type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex"`
	Name         string
	PasswordHash string

	// Personal collective owned by this user (kind PERSON).
	CollectiveID uuid.UUID `gorm:"index"`

	Collective Collective `gorm:"foreignKey:CollectiveID"`
}
