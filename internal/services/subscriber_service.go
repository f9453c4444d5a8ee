package services

import (
	"context"

	"github.com/google/uuid"

	"fundly/internal/models/db_models"
	"fundly/internal/repositories"
	"fundly/pkg/utils"
)

// Channels a collective can notify on. The channel decides which member
// roles make up the base audience.
const (
	ChannelBackers     = "backers"
	ChannelAttendees   = "attendees"
	ChannelFollowers   = "followers"
	ChannelAdmins      = "admins"
	ChannelMailingList = "mailinglist"
)

type SubscriberResolverInterface interface {
	Resolve(ctx context.Context, collectiveSlug, channel string) ([]db_models.User, error)
}

type SubscriberResolver struct {
	collectiveRepo   repositories.CollectiveRepositoryInterface
	memberRepo       repositories.MemberRepositoryInterface
	notificationRepo repositories.NotificationRepositoryInterface
}

func NewSubscriberResolver(
	collectiveRepo repositories.CollectiveRepositoryInterface,
	memberRepo repositories.MemberRepositoryInterface,
	notificationRepo repositories.NotificationRepositoryInterface,
) SubscriberResolverInterface {
	return &SubscriberResolver{
		collectiveRepo:   collectiveRepo,
		memberRepo:       memberRepo,
		notificationRepo: notificationRepo,
	}
}

// Resolve computes the audience for a collective + channel: the distinct
// users holding the channel's roles, minus per-channel opt-outs. For EVENT
// collectives the default mailinglist channel also walks the single parent
// link and adds the parent's admins and hosts.
func (r *SubscriberResolver) Resolve(ctx context.Context, collectiveSlug, channel string) ([]db_models.User, error) {
	collective, err := r.collectiveRepo.FindBySlug(ctx, collectiveSlug)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if collective == nil {
		return nil, utils.NotFoundf("No collective found with id: %s", collectiveSlug)
	}

	roles := rolesForChannel(channel)
	if len(roles) == 0 {
		return nil, utils.ValidationFailed("Unknown notification channel: " + channel)
	}

	users, err := r.memberRepo.UsersWithRoles(ctx, []uuid.UUID{collective.ID}, roles)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	if collective.IsEvent() && channel == ChannelMailingList && collective.ParentCollectiveID != nil {
		parentUsers, err := r.memberRepo.UsersWithRoles(ctx,
			[]uuid.UUID{*collective.ParentCollectiveID},
			[]db_models.MemberRole{db_models.RoleAdmin, db_models.RoleHost})
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		users = append(users, parentUsers...)
	}

	// Opt-outs are scoped to the exact (user, collective, channel) tuple of
	// the resolved collective; unsubscribing here touches no other
	// collective's audience.
	optedOut, err := r.notificationRepo.InactiveUserIDs(ctx, collective.ID, "", channel)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	seen := make(map[uuid.UUID]bool, len(users))
	resolved := make([]db_models.User, 0, len(users))
	for _, user := range users {
		if seen[user.ID] || optedOut[user.ID] {
			continue
		}
		seen[user.ID] = true
		resolved = append(resolved, user)
	}
	return resolved, nil
}

func rolesForChannel(channel string) []db_models.MemberRole {
	switch channel {
	case ChannelBackers:
		return []db_models.MemberRole{db_models.RoleBacker}
	case ChannelAttendees:
		return []db_models.MemberRole{db_models.RoleAttendee}
	case ChannelFollowers:
		return []db_models.MemberRole{db_models.RoleFollower}
	case ChannelAdmins:
		return []db_models.MemberRole{db_models.RoleAdmin}
	case ChannelMailingList:
		return []db_models.MemberRole{db_models.RoleFollower, db_models.RoleAttendee}
	default:
		return nil
	}
}
