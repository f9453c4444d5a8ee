package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fundly/internal/models/db_models"
	"fundly/internal/repositories"
	"fundly/internal/testutil"
)

type emitterFixture struct {
	db        *gorm.DB
	notifier  *fakeNotifier
	notifRepo repositories.NotificationRepositoryInterface
}

func newEmitter(t *testing.T) (ActivityEmitterInterface, *emitterFixture) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	f := &emitterFixture{
		db:        db,
		notifier:  &fakeNotifier{},
		notifRepo: repositories.NewNotificationRepository(db),
	}
	collectiveRepo := repositories.NewCollectiveRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	emitter := NewActivityEmitter(
		repositories.NewActivityRepository(db),
		collectiveRepo,
		f.notifRepo,
		NewSubscriberResolver(collectiveRepo, memberRepo, f.notifRepo),
		f.notifier,
		zap.NewNop(),
	)
	return emitter, f
}

func TestEmitDispatchesToAudience(t *testing.T) {
	emitter, f := newEmitter(t)
	ctx := context.Background()

	collective := testutil.SeedCollective(t, f.db, "zine", db_models.CollectiveKindCollective)
	alice := testutil.SeedUser(t, f.db, "alice@example.com")
	bob := testutil.SeedUser(t, f.db, "bob@example.com")
	testutil.SeedMember(t, f.db, collective, alice, db_models.RoleBacker)
	testutil.SeedMember(t, f.db, collective, bob, db_models.RoleBacker)

	message := "keep it up"
	order := &db_models.Order{
		CollectiveID:     collective.ID,
		FromCollectiveID: alice.CollectiveID,
		CreatedByUserID:  alice.ID,
		Quantity:         1,
		TotalAmountMinor: 500,
		Currency:         "USD",
		PublicMessage:    &message,
	}
	require.NoError(t, f.db.Create(order).Error)

	dispatched, err := emitter.Emit(ctx, db_models.ActivityOrderProcessed, collective, order, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, dispatched)
	assert.Len(t, f.notifier.delivered, 2)

	// The event row carries the summary payload.
	var activities []db_models.Activity
	require.NoError(t, f.db.Find(&activities).Error)
	require.Len(t, activities, 1)
	assert.Equal(t, db_models.ActivityOrderProcessed, activities[0].Type)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(activities[0].Payload, &payload))
	orderSummary, ok := payload["order"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "keep it up", orderSummary["public_message"])
	assert.Equal(t, "USD", orderSummary["currency"])
}

func TestEmitHonorsTypeOptOut(t *testing.T) {
	emitter, f := newEmitter(t)
	ctx := context.Background()

	collective := testutil.SeedCollective(t, f.db, "zine", db_models.CollectiveKindCollective)
	alice := testutil.SeedUser(t, f.db, "alice@example.com")
	bob := testutil.SeedUser(t, f.db, "bob@example.com")
	testutil.SeedMember(t, f.db, collective, alice, db_models.RoleBacker)
	testutil.SeedMember(t, f.db, collective, bob, db_models.RoleBacker)

	// Alice suppresses this activity type; the channel subscription stays.
	require.NoError(t, f.notifRepo.SetInactive(ctx, alice.ID, collective.ID, db_models.ActivityOrderProcessed, ""))

	dispatched, err := emitter.Emit(ctx, db_models.ActivityOrderProcessed, collective, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, dispatched)
	require.Len(t, f.notifier.delivered, 1)
	assert.Equal(t, bob.ID, f.notifier.delivered[0])

	// A different activity type on the same channel still reaches her.
	f.notifier.delivered = nil
	dispatched, err = emitter.Emit(ctx, db_models.ActivityMemberCreated, collective, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, dispatched)
}

func TestEmitEventUsesMailingList(t *testing.T) {
	emitter, f := newEmitter(t)
	ctx := context.Background()

	parent := testutil.SeedCollective(t, f.db, "guild", db_models.CollectiveKindCollective)
	event := testutil.SeedEvent(t, f.db, "guild-summit", parent)

	attendee := testutil.SeedUser(t, f.db, "attendee@example.com")
	admin := testutil.SeedUser(t, f.db, "admin@example.com")
	testutil.SeedMember(t, f.db, event, attendee, db_models.RoleAttendee)
	testutil.SeedMember(t, f.db, parent, admin, db_models.RoleAdmin)

	dispatched, err := emitter.Emit(ctx, db_models.ActivityOrderProcessed, event, nil, nil, nil)
	require.NoError(t, err)
	// Event activity reaches the attendee and the parent's admin.
	assert.Equal(t, 2, dispatched)
}
