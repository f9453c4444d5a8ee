package testutil

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fundly/internal/models/db_models"
)

// SeedCollective inserts a collective of the given kind.
func SeedCollective(t *testing.T, db *gorm.DB, slug string, kind db_models.CollectiveKind) *db_models.Collective {
	t.Helper()
	collective := &db_models.Collective{
		Slug:     slug,
		Name:     slug,
		Kind:     kind,
		Currency: "USD",
	}
	if err := db.Create(collective).Error; err != nil {
		t.Fatalf("seed collective %s: %v", slug, err)
	}
	return collective
}

// SeedEvent inserts an EVENT collective linked to its parent.
func SeedEvent(t *testing.T, db *gorm.DB, slug string, parent *db_models.Collective) *db_models.Collective {
	t.Helper()
	event := &db_models.Collective{
		Slug:               slug,
		Name:               slug,
		Kind:               db_models.CollectiveKindEvent,
		Currency:           parent.Currency,
		ParentCollectiveID: &parent.ID,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("seed event %s: %v", slug, err)
	}
	return event
}

// SeedTier inserts a tier; maxQuantity 0 means unlimited.
func SeedTier(t *testing.T, db *gorm.DB, collective *db_models.Collective, name string, kind db_models.TierKind, amountMinor, maxQuantity int64) *db_models.Tier {
	t.Helper()
	tier := &db_models.Tier{
		CollectiveID: collective.ID,
		Kind:         kind,
		Name:         name,
		AmountMinor:  amountMinor,
		Currency:     collective.Currency,
	}
	if maxQuantity > 0 {
		tier.MaxQuantity = &maxQuantity
	}
	if err := db.Create(tier).Error; err != nil {
		t.Fatalf("seed tier %s: %v", name, err)
	}
	return tier
}

// SeedUser inserts a user together with their personal collective.
func SeedUser(t *testing.T, db *gorm.DB, email string) *db_models.User {
	t.Helper()
	personal := SeedCollective(t, db, "user-"+uuid.New().String()[:8], db_models.CollectiveKindPerson)
	user := &db_models.User{
		Email:        email,
		Name:         email,
		PasswordHash: "x",
		CollectiveID: personal.ID,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

// SeedMember inserts a role row linking the user's personal collective to
// the target collective.
func SeedMember(t *testing.T, db *gorm.DB, collective *db_models.Collective, user *db_models.User, role db_models.MemberRole) *db_models.Member {
	t.Helper()
	member := &db_models.Member{
		CollectiveID:       collective.ID,
		MemberCollectiveID: user.CollectiveID,
		CreatedByUserID:    user.ID,
		Role:               role,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return member
}
