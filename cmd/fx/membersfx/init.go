package membersfx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fundly/internal/repositories"
	"fundly/internal/services"
)

var Module = fx.Provide(
	provideMemberRepo, provideUserRepo, provideMemberService, provideAccountService)

func provideMemberRepo(db *gorm.DB) repositories.MemberRepositoryInterface {
	return repositories.NewMemberRepository(db)
}

func provideUserRepo(db *gorm.DB) repositories.UserRepositoryInterface {
	return repositories.NewUserRepository(db)
}

func provideMemberService(
	memberRepo repositories.MemberRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	collectiveRepo repositories.CollectiveRepositoryInterface,
	logger *zap.Logger,
) services.MemberServiceInterface {
	return services.NewMemberService(memberRepo, userRepo, collectiveRepo, logger)
}

func provideAccountService(
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(userRepo, logger)
}
