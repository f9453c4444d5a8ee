package ordersfx

import (
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fundly/internal/repositories"
	"fundly/internal/services"
)

var Module = fx.Provide(
	provideOrderRepo,
	provideSubscriptionRepo,
	provideCapacityGuard,
	provideSubscriptionManager,
	provideGateways,
	providePaymentExecutor,
	provideOrderService,
)

func provideOrderRepo(db *gorm.DB) repositories.OrderRepositoryInterface {
	return repositories.NewOrderRepository(db)
}

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepositoryInterface {
	return repositories.NewSubscriptionRepository(db)
}

func provideCapacityGuard(
	collectiveRepo repositories.CollectiveRepositoryInterface,
	tierRepo repositories.TierRepositoryInterface,
	orderRepo repositories.OrderRepositoryInterface,
	logger *zap.Logger,
) services.CapacityGuardInterface {
	return services.NewCapacityGuard(collectiveRepo, tierRepo, orderRepo, logger)
}

func provideSubscriptionManager(
	subscriptionRepo repositories.SubscriptionRepositoryInterface,
	logger *zap.Logger,
) services.SubscriptionManagerInterface {
	return services.NewSubscriptionManager(subscriptionRepo, logger)
}

// provideGateways builds the provider registry. The free gateway is always
// available; paid providers register only when their credentials are set.
func provideGateways(logger *zap.Logger) map[string]services.PaymentGateway {
	gateways := map[string]services.PaymentGateway{
		services.ProviderFree: services.NewFreeGateway(),
	}

	if key := os.Getenv("STRIPE_SECRET_KEY"); key != "" {
		gateways[services.ProviderStripe] = services.NewStripeGateway(services.StripeConfig{SecretKey: key})
	}

	payosCfg := services.PayOSConfig{
		ClientID:    os.Getenv("PAYOS_CLIENT_ID"),
		ApiKey:      os.Getenv("PAYOS_API_KEY"),
		ChecksumKey: os.Getenv("PAYOS_CHECKSUM_KEY"),
		ReturnURL:   os.Getenv("PAYOS_RETURN_URL"),
		CancelURL:   os.Getenv("PAYOS_CANCEL_URL"),
	}
	if payosCfg.ClientID != "" && payosCfg.ApiKey != "" && payosCfg.ChecksumKey != "" {
		gateway, err := services.NewPayOSGateway(payosCfg)
		if err != nil {
			logger.Warn("payos gateway unavailable", zap.Error(err))
		} else {
			gateways[services.ProviderPayOS] = gateway
		}
	}

	return gateways
}

func providePaymentExecutor(
	gateways map[string]services.PaymentGateway,
	subscriptions services.SubscriptionManagerInterface,
	orderRepo repositories.OrderRepositoryInterface,
	logger *zap.Logger,
) services.PaymentExecutorInterface {
	return services.NewPaymentExecutor(gateways, subscriptions, orderRepo, logger)
}

func provideOrderService(
	collectiveRepo repositories.CollectiveRepositoryInterface,
	orderRepo repositories.OrderRepositoryInterface,
	guard services.CapacityGuardInterface,
	payments services.PaymentExecutorInterface,
	members services.MemberServiceInterface,
	activities services.ActivityEmitterInterface,
	logger *zap.Logger,
) services.OrderServiceInterface {
	return services.NewOrderService(collectiveRepo, orderRepo, guard, payments, members, activities, logger)
}
