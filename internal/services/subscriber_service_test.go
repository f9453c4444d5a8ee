package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fundly/internal/models/db_models"
	"fundly/internal/repositories"
	"fundly/internal/testutil"
	"fundly/pkg/utils"
)

func newResolver(t *testing.T) (SubscriberResolverInterface, *resolverFixture) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	f := &resolverFixture{
		db:        db,
		notifRepo: repositories.NewNotificationRepository(db),
	}
	resolver := NewSubscriberResolver(
		repositories.NewCollectiveRepository(db),
		repositories.NewMemberRepository(db),
		f.notifRepo,
	)
	return resolver, f
}

type resolverFixture struct {
	db        *gorm.DB
	notifRepo repositories.NotificationRepositoryInterface
}

func TestResolveBackersChannel(t *testing.T) {
	resolver, f := newResolver(t)
	ctx := context.Background()

	collective := testutil.SeedCollective(t, f.db, "zine", db_models.CollectiveKindCollective)
	other := testutil.SeedCollective(t, f.db, "tribune", db_models.CollectiveKindCollective)

	alice := testutil.SeedUser(t, f.db, "alice@example.com")
	bob := testutil.SeedUser(t, f.db, "bob@example.com")
	testutil.SeedMember(t, f.db, collective, alice, db_models.RoleBacker)
	testutil.SeedMember(t, f.db, collective, bob, db_models.RoleBacker)
	testutil.SeedMember(t, f.db, other, alice, db_models.RoleBacker)

	users, err := resolver.Resolve(ctx, "zine", ChannelBackers)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	// Alice opts out of the zine's backers channel.
	require.NoError(t, f.notifRepo.SetInactive(ctx, alice.ID, collective.ID, "", ChannelBackers))

	users, err = resolver.Resolve(ctx, "zine", ChannelBackers)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, bob.ID, users[0].ID)

	// Her standing on the other collective is untouched.
	users, err = resolver.Resolve(ctx, "tribune", ChannelBackers)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, alice.ID, users[0].ID)
}

func TestResolveDeduplicatesRoles(t *testing.T) {
	resolver, f := newResolver(t)
	ctx := context.Background()

	collective := testutil.SeedCollective(t, f.db, "guild", db_models.CollectiveKindCollective)
	carol := testutil.SeedUser(t, f.db, "carol@example.com")
	// Duplicate follower rows still yield one recipient.
	testutil.SeedMember(t, f.db, collective, carol, db_models.RoleFollower)
	testutil.SeedMember(t, f.db, collective, carol, db_models.RoleFollower)

	users, err := resolver.Resolve(ctx, "guild", ChannelFollowers)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestResolveEventMailingListIncludesParentAdmins(t *testing.T) {
	resolver, f := newResolver(t)
	ctx := context.Background()

	parent := testutil.SeedCollective(t, f.db, "guild", db_models.CollectiveKindCollective)
	event := testutil.SeedEvent(t, f.db, "guild-summit", parent)

	attendee := testutil.SeedUser(t, f.db, "attendee@example.com")
	follower := testutil.SeedUser(t, f.db, "follower@example.com")
	admin := testutil.SeedUser(t, f.db, "admin@example.com")
	backer := testutil.SeedUser(t, f.db, "backer@example.com")

	testutil.SeedMember(t, f.db, event, attendee, db_models.RoleAttendee)
	testutil.SeedMember(t, f.db, event, follower, db_models.RoleFollower)
	testutil.SeedMember(t, f.db, parent, admin, db_models.RoleAdmin)
	// Backers of the parent are not on the event's mailing list.
	testutil.SeedMember(t, f.db, parent, backer, db_models.RoleBacker)

	users, err := resolver.Resolve(ctx, "guild-summit", ChannelMailingList)
	require.NoError(t, err)
	ids := make(map[uuid.UUID]bool, len(users))
	for _, u := range users {
		ids[u.ID] = true
	}
	assert.Len(t, users, 3)
	assert.True(t, ids[attendee.ID])
	assert.True(t, ids[follower.ID])
	assert.True(t, ids[admin.ID])
	assert.False(t, ids[backer.ID])

	// A follower unsubscribing from the event shrinks the list by one.
	require.NoError(t, f.notifRepo.SetInactive(ctx, follower.ID, event.ID, "", ChannelMailingList))
	users, err = resolver.Resolve(ctx, "guild-summit", ChannelMailingList)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestResolveUnknownChannel(t *testing.T) {
	resolver, f := newResolver(t)
	testutil.SeedCollective(t, f.db, "guild", db_models.CollectiveKindCollective)

	_, err := resolver.Resolve(context.Background(), "guild", "carrier-pigeon")
	require.ErrorIs(t, err, utils.ErrValidationFailed)
}
