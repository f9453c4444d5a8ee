package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundly/internal/models/db_models"
	"fundly/internal/models/request_models"
	"fundly/internal/models/response_models"
	"fundly/internal/repositories"
	"fundly/pkg/utils"
)

type MemberServiceInterface interface {
	ResolveBackerIdentity(ctx context.Context, actorID uuid.UUID, req request_models.CreateOrderRequest) (*db_models.User, uuid.UUID, error)
	Provision(ctx context.Context, order *db_models.Order, tier *db_models.Tier) (*db_models.Member, error)
	CreateMember(ctx context.Context, actorID uuid.UUID, collectiveSlug string, req request_models.CreateMemberRequest) (*response_models.MemberResponse, error)
	ListMembers(ctx context.Context, actorID uuid.UUID, collectiveSlug string) ([]response_models.MemberResponse, error)
}

type MemberService struct {
	memberRepo     repositories.MemberRepositoryInterface
	userRepo       repositories.UserRepositoryInterface
	collectiveRepo repositories.CollectiveRepositoryInterface
	logger         *zap.Logger
}

func NewMemberService(
	memberRepo repositories.MemberRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	collectiveRepo repositories.CollectiveRepositoryInterface,
	logger *zap.Logger,
) MemberServiceInterface {
	return &MemberService{
		memberRepo:     memberRepo,
		userRepo:       userRepo,
		collectiveRepo: collectiveRepo,
		logger:         logger,
	}
}

// ResolveBackerIdentity determines which collective backs the order. The
// acting user is resolved by session, or found-or-created from the supplied
// email; inline organization data creates the organization first and attaches
// the acting user as its admin. The returned id becomes the order's
// fromCollectiveId.
func (m *MemberService) ResolveBackerIdentity(ctx context.Context, actorID uuid.UUID, req request_models.CreateOrderRequest) (*db_models.User, uuid.UUID, error) {
	user, err := m.resolveActingUser(ctx, actorID, req.User)
	if err != nil {
		return nil, uuid.Nil, err
	}

	if req.FromCollective == nil {
		return user, user.CollectiveID, nil
	}

	if req.FromCollective.ID != nil {
		fromID := *req.FromCollective.ID
		if fromID == user.CollectiveID {
			return user, fromID, nil
		}
		from, err := m.collectiveRepo.FindByID(ctx, fromID)
		if err != nil {
			return nil, uuid.Nil, utils.ErrDatabaseError
		}
		if from == nil {
			return nil, uuid.Nil, utils.NotFoundf("No collective found with id: %s", fromID)
		}
		allowed, err := m.memberRepo.HasAnyRole(ctx, from.ID, user.CollectiveID,
			[]db_models.MemberRole{db_models.RoleAdmin, db_models.RoleHost})
		if err != nil {
			return nil, uuid.Nil, utils.ErrDatabaseError
		}
		if !allowed {
			return nil, uuid.Nil, utils.Unauthorizedf("You must be a member of the %s collective", from.Slug)
		}
		return user, from.ID, nil
	}

	// Inline organization creation.
	org, err := m.createOrganization(ctx, user, *req.FromCollective)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return user, org.ID, nil
}

func (m *MemberService) resolveActingUser(ctx context.Context, actorID uuid.UUID, descriptor *request_models.UserDescriptor) (*db_models.User, error) {
	if actorID != uuid.Nil {
		user, err := m.userRepo.FindByID(ctx, actorID)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		if user == nil {
			return nil, utils.NotFoundf("No user found with id: %s", actorID)
		}
		return user, nil
	}

	if descriptor == nil || descriptor.Email == "" {
		return nil, utils.ValidationFailed("An email is required to place this order")
	}

	email := strings.ToLower(strings.TrimSpace(descriptor.Email))
	user, err := m.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user != nil {
		return user, nil
	}

	return m.provisionUser(ctx, email, descriptor.Name)
}

// provisionUser creates a user plus personal collective from a bare email.
// The password is seeded from a random token that is thrown away, so the
// identity exists but is never authenticated by appearing in an order.
func (m *MemberService) provisionUser(ctx context.Context, email, name string) (*db_models.User, error) {
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	seed, err := utils.GenerateSecureToken(24)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	hash, err := utils.HashPassword(seed)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	collective := &db_models.Collective{
		Slug: uniqueSlug(name),
		Name: name,
		Kind: db_models.CollectiveKindPerson,
	}
	user := &db_models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}

	if err := m.userRepo.CreateWithCollective(ctx, user, collective); err != nil {
		m.logger.Error("auto-provision user failed", zap.Error(err), zap.String("email", email))
		return nil, utils.ErrDatabaseError
	}

	m.logger.Info("provisioned backing identity",
		zap.String("user_id", user.ID.String()),
		zap.String("collective_slug", collective.Slug),
	)
	return user, nil
}

func (m *MemberService) createOrganization(ctx context.Context, user *db_models.User, descriptor request_models.FromCollectiveDescriptor) (*db_models.Collective, error) {
	if descriptor.Name == "" {
		return nil, utils.ValidationFailed("An organization name is required")
	}

	slug := descriptor.Slug
	if slug == "" {
		slug = uniqueSlug(descriptor.Name)
	}

	org := &db_models.Collective{
		Slug: slug,
		Name: descriptor.Name,
		Kind: db_models.CollectiveKindOrganization,
	}
	if err := m.collectiveRepo.Create(org, ctx); err != nil {
		m.logger.Error("create organization failed", zap.Error(err), zap.String("slug", slug))
		return nil, utils.ErrDatabaseError
	}

	isAdmin, err := m.memberRepo.Exists(ctx, org.ID, user.CollectiveID, db_models.RoleAdmin)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if !isAdmin {
		admin := &db_models.Member{
			CollectiveID:       org.ID,
			MemberCollectiveID: user.CollectiveID,
			CreatedByUserID:    user.ID,
			Role:               db_models.RoleAdmin,
		}
		if err := m.memberRepo.Create(ctx, admin); err != nil {
			return nil, utils.ErrDatabaseError
		}
	}

	return org, nil
}

// Provision turns a settled order into a membership row. TICKET tiers grant
// ATTENDEE, everything else BACKER. There is no dedup key: provisioning the
// same logical order twice creates two rows.
func (m *MemberService) Provision(ctx context.Context, order *db_models.Order, tier *db_models.Tier) (*db_models.Member, error) {
	role := db_models.RoleBacker
	if tier != nil && tier.Kind == db_models.TierKindTicket {
		role = db_models.RoleAttendee
	}

	member := &db_models.Member{
		CollectiveID:       order.CollectiveID,
		MemberCollectiveID: order.FromCollectiveID,
		CreatedByUserID:    order.CreatedByUserID,
		Role:               role,
		TierID:             order.TierID,
	}

	if err := m.memberRepo.Create(ctx, member); err != nil {
		m.logger.Error("provision member failed", zap.Error(err), zap.String("order_id", order.ID.String()))
		return nil, utils.ErrDatabaseError
	}
	return member, nil
}

// CreateMember is the management entry point outside the order path: direct
// grants of ADMIN, FOLLOWER and HOST roles.
func (m *MemberService) CreateMember(ctx context.Context, actorID uuid.UUID, collectiveSlug string, req request_models.CreateMemberRequest) (*response_models.MemberResponse, error) {
	if actorID == uuid.Nil {
		return nil, utils.Unauthorizedf("You need to be logged in to manage members")
	}

	collective, err := m.collectiveRepo.FindBySlug(ctx, collectiveSlug)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if collective == nil {
		return nil, utils.NotFoundf("No collective found with id: %s", collectiveSlug)
	}

	role := db_models.MemberRole(strings.ToUpper(req.Role))
	switch role {
	case db_models.RoleAdmin, db_models.RoleFollower, db_models.RoleHost, db_models.RoleBacker:
	default:
		return nil, utils.ValidationFailed("Invalid member role: " + req.Role)
	}

	actor, err := m.userRepo.FindByID(ctx, actorID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if actor == nil {
		return nil, utils.Unauthorizedf("You need to be logged in to manage members")
	}

	memberCollectiveID, err := m.resolveMemberCollective(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	// Following yourself needs no standing; everything else requires the
	// actor to already hold an admin or host seat on the collective.
	selfFollow := role == db_models.RoleFollower && memberCollectiveID == actor.CollectiveID
	if !selfFollow {
		allowed, err := m.memberRepo.HasAnyRole(ctx, collective.ID, actor.CollectiveID,
			[]db_models.MemberRole{db_models.RoleAdmin, db_models.RoleHost})
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		if !allowed {
			if role == db_models.RoleHost {
				return nil, utils.Unauthorizedf("You must be a host of the %s collective", collective.Slug)
			}
			return nil, utils.Unauthorizedf("You must be a member of the %s collective", collective.Slug)
		}
	}

	member := &db_models.Member{
		CollectiveID:       collective.ID,
		MemberCollectiveID: memberCollectiveID,
		CreatedByUserID:    actor.ID,
		Role:               role,
	}
	if err := m.memberRepo.Create(ctx, member); err != nil {
		return nil, utils.ErrDatabaseError
	}

	memberCollective, err := m.collectiveRepo.FindByID(ctx, memberCollectiveID)
	if err != nil || memberCollective == nil {
		return nil, utils.ErrDatabaseError
	}

	resp := toMemberResponse(member, collective, memberCollective, nil)
	return &resp, nil
}

func (m *MemberService) resolveMemberCollective(ctx context.Context, actor *db_models.User, req request_models.CreateMemberRequest) (uuid.UUID, error) {
	if req.MemberCollectiveID != nil {
		existing, err := m.collectiveRepo.FindByID(ctx, *req.MemberCollectiveID)
		if err != nil {
			return uuid.Nil, utils.ErrDatabaseError
		}
		if existing == nil {
			return uuid.Nil, utils.NotFoundf("No collective found with id: %s", *req.MemberCollectiveID)
		}
		return existing.ID, nil
	}

	if req.Email != "" {
		user, err := m.resolveActingUser(ctx, uuid.Nil, &request_models.UserDescriptor{Email: req.Email, Name: req.Name})
		if err != nil {
			return uuid.Nil, err
		}
		return user.CollectiveID, nil
	}

	return actor.CollectiveID, nil
}

// ListMembers returns the membership rows of a collective. Emails are only
// revealed to viewers holding an admin or host seat; for everyone else the
// field is nulled rather than omitted so the response shape stays stable.
func (m *MemberService) ListMembers(ctx context.Context, actorID uuid.UUID, collectiveSlug string) ([]response_models.MemberResponse, error) {
	collective, err := m.collectiveRepo.FindBySlug(ctx, collectiveSlug)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if collective == nil {
		return nil, utils.NotFoundf("No collective found with id: %s", collectiveSlug)
	}

	members, err := m.memberRepo.ListByCollective(ctx, collective.ID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	canSeeEmail := false
	if actorID != uuid.Nil {
		if actor, err := m.userRepo.FindByID(ctx, actorID); err == nil && actor != nil {
			canSeeEmail, _ = m.memberRepo.HasAnyRole(ctx, collective.ID, actor.CollectiveID,
				[]db_models.MemberRole{db_models.RoleAdmin, db_models.RoleHost})
		}
	}

	emailByCollective := map[uuid.UUID]string{}
	if canSeeEmail {
		collectiveIDs := make([]uuid.UUID, 0, len(members))
		for _, member := range members {
			collectiveIDs = append(collectiveIDs, member.MemberCollectiveID)
		}
		users, err := m.userRepo.FindByCollectiveIDs(ctx, collectiveIDs)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		for _, user := range users {
			emailByCollective[user.CollectiveID] = user.Email
		}
	}

	responses := make([]response_models.MemberResponse, 0, len(members))
	for i := range members {
		member := &members[i]
		var email *string
		if canSeeEmail {
			if addr, ok := emailByCollective[member.MemberCollectiveID]; ok {
				email = &addr
			}
		}
		responses = append(responses, toMemberResponse(member, collective, &member.MemberCollective, email))
	}
	return responses, nil
}

func toMemberResponse(member *db_models.Member, collective, memberCollective *db_models.Collective, email *string) response_models.MemberResponse {
	return response_models.MemberResponse{
		ID:             member.ID,
		CollectiveSlug: collective.Slug,
		MemberSlug:     memberCollective.Slug,
		MemberName:     memberCollective.Name,
		Role:           string(member.Role),
		TierID:         member.TierID,
		Email:          email,
		CreatedAt:      member.CreatedAt,
	}
}

// uniqueSlug derives a url-safe slug and appends a short random suffix to
// dodge collisions without a read-check cycle.
func uniqueSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '.':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "collective"
	}
	return slug + "-" + uuid.New().String()[:8]
}
