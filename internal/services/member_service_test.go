package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fundly/internal/models/db_models"
	"fundly/internal/models/request_models"
	"fundly/internal/repositories"
	"fundly/internal/testutil"
	"fundly/pkg/utils"
)

func newMemberService(t *testing.T) (MemberServiceInterface, *gorm.DB) {
	t.Helper()
	db := testutil.OpenTestDB(t)
	svc := NewMemberService(
		repositories.NewMemberRepository(db),
		repositories.NewUserRepository(db),
		repositories.NewCollectiveRepository(db),
		zap.NewNop(),
	)
	return svc, db
}

func TestResolveBackerIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("existing user is matched by email", func(t *testing.T) {
		svc, db := newMemberService(t)
		existing := testutil.SeedUser(t, db, "known@example.com")

		user, fromID, err := svc.ResolveBackerIdentity(ctx, uuid.Nil, request_models.CreateOrderRequest{
			User: &request_models.UserDescriptor{Email: "known@example.com"},
		})
		require.NoError(t, err)
		assert.Equal(t, existing.ID, user.ID)
		assert.Equal(t, existing.CollectiveID, fromID)
	})

	t.Run("unknown email provisions a user and personal collective", func(t *testing.T) {
		svc, db := newMemberService(t)

		user, fromID, err := svc.ResolveBackerIdentity(ctx, uuid.Nil, request_models.CreateOrderRequest{
			User: &request_models.UserDescriptor{Email: "new@example.com", Name: "New Backer"},
		})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", user.Email)
		assert.Equal(t, user.CollectiveID, fromID)
		assert.NotEmpty(t, user.PasswordHash)

		var personal db_models.Collective
		require.NoError(t, db.First(&personal, "id = ?", user.CollectiveID).Error)
		assert.Equal(t, db_models.CollectiveKindPerson, personal.Kind)
		assert.Equal(t, "New Backer", personal.Name)
	})

	t.Run("guest order without email is rejected", func(t *testing.T) {
		svc, _ := newMemberService(t)
		_, _, err := svc.ResolveBackerIdentity(ctx, uuid.Nil, request_models.CreateOrderRequest{})
		require.ErrorIs(t, err, utils.ErrValidationFailed)
	})

	t.Run("backing as an organization requires a seat", func(t *testing.T) {
		svc, db := newMemberService(t)
		org := testutil.SeedCollective(t, db, "acme", db_models.CollectiveKindOrganization)
		outsider := testutil.SeedUser(t, db, "outsider@example.com")
		insider := testutil.SeedUser(t, db, "insider@example.com")
		testutil.SeedMember(t, db, org, insider, db_models.RoleAdmin)

		_, _, err := svc.ResolveBackerIdentity(ctx, outsider.ID, request_models.CreateOrderRequest{
			FromCollective: &request_models.FromCollectiveDescriptor{ID: &org.ID},
		})
		require.ErrorIs(t, err, utils.ErrUnauthorized)
		assert.Equal(t, "You must be a member of the acme collective", err.Error())

		_, fromID, err := svc.ResolveBackerIdentity(ctx, insider.ID, request_models.CreateOrderRequest{
			FromCollective: &request_models.FromCollectiveDescriptor{ID: &org.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, org.ID, fromID)
	})

	t.Run("inline organization is created with the actor as admin", func(t *testing.T) {
		svc, db := newMemberService(t)
		founder := testutil.SeedUser(t, db, "founder@example.com")

		_, fromID, err := svc.ResolveBackerIdentity(ctx, founder.ID, request_models.CreateOrderRequest{
			FromCollective: &request_models.FromCollectiveDescriptor{Name: "Night Shift Labs"},
		})
		require.NoError(t, err)

		var org db_models.Collective
		require.NoError(t, db.First(&org, "id = ?", fromID).Error)
		assert.Equal(t, db_models.CollectiveKindOrganization, org.Kind)
		assert.Equal(t, "Night Shift Labs", org.Name)

		var admin db_models.Member
		require.NoError(t, db.Where("collective_id = ? AND member_collective_id = ?", org.ID, founder.CollectiveID).
			First(&admin).Error)
		assert.Equal(t, db_models.RoleAdmin, admin.Role)
	})
}

func TestCreateMember(t *testing.T) {
	ctx := context.Background()

	t.Run("self-follow needs no standing", func(t *testing.T) {
		svc, db := newMemberService(t)
		collective := testutil.SeedCollective(t, db, "zine", db_models.CollectiveKindCollective)
		fan := testutil.SeedUser(t, db, "fan@example.com")

		resp, err := svc.CreateMember(ctx, fan.ID, collective.Slug, request_models.CreateMemberRequest{
			Role: "follower",
		})
		require.NoError(t, err)
		assert.Equal(t, string(db_models.RoleFollower), resp.Role)
	})

	t.Run("granting roles requires an admin seat", func(t *testing.T) {
		svc, db := newMemberService(t)
		collective := testutil.SeedCollective(t, db, "zine", db_models.CollectiveKindCollective)
		stranger := testutil.SeedUser(t, db, "stranger@example.com")
		target := testutil.SeedUser(t, db, "target@example.com")

		_, err := svc.CreateMember(ctx, stranger.ID, collective.Slug, request_models.CreateMemberRequest{
			MemberCollectiveID: &target.CollectiveID,
			Role:               "admin",
		})
		require.ErrorIs(t, err, utils.ErrUnauthorized)

		_, err = svc.CreateMember(ctx, stranger.ID, collective.Slug, request_models.CreateMemberRequest{
			MemberCollectiveID: &target.CollectiveID,
			Role:               "host",
		})
		require.ErrorIs(t, err, utils.ErrUnauthorized)
		assert.Equal(t, "You must be a host of the zine collective", err.Error())
	})

	t.Run("admin grants by email provision the member", func(t *testing.T) {
		svc, db := newMemberService(t)
		collective := testutil.SeedCollective(t, db, "zine", db_models.CollectiveKindCollective)
		admin := testutil.SeedUser(t, db, "admin@example.com")
		testutil.SeedMember(t, db, collective, admin, db_models.RoleAdmin)

		resp, err := svc.CreateMember(ctx, admin.ID, collective.Slug, request_models.CreateMemberRequest{
			Email: "editor@example.com",
			Role:  "admin",
		})
		require.NoError(t, err)
		assert.Equal(t, string(db_models.RoleAdmin), resp.Role)

		var user db_models.User
		require.NoError(t, db.First(&user, "email = ?", "editor@example.com").Error)
	})

	t.Run("invalid role", func(t *testing.T) {
		svc, db := newMemberService(t)
		testutil.SeedCollective(t, db, "zine", db_models.CollectiveKindCollective)
		actor := testutil.SeedUser(t, db, "actor@example.com")

		_, err := svc.CreateMember(ctx, actor.ID, "zine", request_models.CreateMemberRequest{
			Role: "emperor",
		})
		require.ErrorIs(t, err, utils.ErrValidationFailed)
	})
}

func TestListMembersEmailVisibility(t *testing.T) {
	ctx := context.Background()
	svc, db := newMemberService(t)
	collective := testutil.SeedCollective(t, db, "zine", db_models.CollectiveKindCollective)

	admin := testutil.SeedUser(t, db, "admin@example.com")
	backer := testutil.SeedUser(t, db, "backer@example.com")
	testutil.SeedMember(t, db, collective, admin, db_models.RoleAdmin)
	testutil.SeedMember(t, db, collective, backer, db_models.RoleBacker)

	// Anonymous viewers get nulled emails, not a different shape.
	members, err := svc.ListMembers(ctx, uuid.Nil, "zine")
	require.NoError(t, err)
	require.Len(t, members, 2)
	for _, m := range members {
		assert.Nil(t, m.Email)
	}

	// The backer holds no admin seat, so the list stays redacted.
	members, err = svc.ListMembers(ctx, backer.ID, "zine")
	require.NoError(t, err)
	for _, m := range members {
		assert.Nil(t, m.Email)
	}

	// Admin viewers see the addresses.
	members, err = svc.ListMembers(ctx, admin.ID, "zine")
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, m := range members {
		require.NotNil(t, m.Email)
		seen[*m.Email] = true
	}
	assert.True(t, seen["admin@example.com"])
	assert.True(t, seen["backer@example.com"])
}
