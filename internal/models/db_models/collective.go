package db_models

import (
	"github.com/google/uuid"
)

type CollectiveKind string

const (
	CollectiveKindPerson       CollectiveKind = "PERSON"
	CollectiveKindOrganization CollectiveKind = "ORGANIZATION"
	CollectiveKindCollective   CollectiveKind = "COLLECTIVE"
	CollectiveKindEvent        CollectiveKind = "EVENT"
)

type Collective struct {
	BaseModel
	Slug        string `gorm:"uniqueIndex"`
	Name        string
	Description *string
	Kind        CollectiveKind `gorm:"index"`
	Currency    string         `gorm:"size:3;default:'USD'"`

	// EVENT collectives point at their owning COLLECTIVE. Single optional
	// parent link, one level only (no inheritance).
	ParentCollectiveID *uuid.UUID `gorm:"index"`
	HostCollectiveID   *uuid.UUID `gorm:"index"`

	Parent *Collective `gorm:"foreignKey:ParentCollectiveID"`
	Tiers  []Tier      `gorm:"foreignKey:CollectiveID"`
}

func (c *Collective) IsEvent() bool {
	return c.Kind == CollectiveKindEvent
}
