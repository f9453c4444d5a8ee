package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"fundly/internal/models/db_models"
	"fundly/internal/models/request_models"
	"fundly/internal/repositories"
	"fundly/pkg/utils"
)

type AccountServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (string, error)
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) error
}

type AccountService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewAccountService(userRepo repositories.UserRepositoryInterface, logger *zap.Logger) AccountServiceInterface {
	return &AccountService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (string, error) {
	user, err := a.userRepo.FindByEmail(ctx, strings.ToLower(request.Email))
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if user == nil {
		return "", utils.Unauthorizedf("Invalid credentials")
	}

	if err := utils.ComparePasswords(user.PasswordHash, request.Password); err != nil {
		return "", utils.Unauthorizedf("Invalid credentials")
	}

	token, err := utils.CreateToken(user.ID)
	if err != nil {
		a.logger.Error("token generation failed", zap.Error(err))
		return "", utils.ErrDatabaseError
	}

	return token, nil
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) error {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existing != nil {
		return utils.ValidationFailed("An account with this email already exists")
	}

	hash, err := utils.HashPassword(request.Password)
	if err != nil {
		return utils.ErrDatabaseError
	}

	collective := &db_models.Collective{
		Slug: uniqueSlug(request.DisplayName),
		Name: request.DisplayName,
		Kind: db_models.CollectiveKindPerson,
	}
	user := &db_models.User{
		Email:        email,
		Name:         request.DisplayName,
		PasswordHash: hash,
	}

	if err := a.userRepo.CreateWithCollective(ctx, user, collective); err != nil {
		a.logger.Error("create account failed", zap.Error(err), zap.String("email", email))
		return utils.ErrDatabaseError
	}
	return nil
}
