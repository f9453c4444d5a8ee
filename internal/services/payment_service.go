package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundly/internal/models/db_models"
	"fundly/internal/models/request_models"
	"fundly/internal/repositories"
	"fundly/pkg/utils"
)

// ChargeResult is what a gateway reports back after settling funds.
type ChargeResult struct {
	ProviderTxnID string
	ProviderSubID string
}

// PaymentGateway settles one charge against a concrete provider. Each
// provider owns its own request shaping; the executor never branches on
// provider identity beyond this registry lookup.
type PaymentGateway interface {
	Execute(ctx context.Context, actor uuid.UUID, order *db_models.Order, method request_models.PaymentMethodDescriptor) (*ChargeResult, error)
}

type PaymentExecutorInterface interface {
	Execute(ctx context.Context, actor uuid.UUID, order *db_models.Order, tier *db_models.Tier, method *request_models.PaymentMethodDescriptor) error
}

type PaymentExecutor struct {
	gateways      map[string]PaymentGateway
	subscriptions SubscriptionManagerInterface
	orderRepo     repositories.OrderRepositoryInterface
	logger        *zap.Logger
}

func NewPaymentExecutor(
	gateways map[string]PaymentGateway,
	subscriptions SubscriptionManagerInterface,
	orderRepo repositories.OrderRepositoryInterface,
	logger *zap.Logger,
) PaymentExecutorInterface {
	return &PaymentExecutor{
		gateways:      gateways,
		subscriptions: subscriptions,
		orderRepo:     orderRepo,
		logger:        logger,
	}
}

// Execute settles an order. For recurring tiers the subscription snapshot is
// created before settlement, then funds are settled, then processedAt and
// subscriptionId are persisted together. Gateway errors propagate unchanged
// as PaymentError; there is no automatic retry here, the caller resubmits.
func (p *PaymentExecutor) Execute(ctx context.Context, actor uuid.UUID, order *db_models.Order, tier *db_models.Tier, method *request_models.PaymentMethodDescriptor) error {
	gateway, err := p.gatewayFor(order, method)
	if err != nil {
		return err
	}

	var subscriptionID *uuid.UUID
	if tier != nil && tier.IsRecurring() {
		subscription, err := p.subscriptions.CreateFromTier(ctx, tier, order.PaymentProvider)
		if err != nil {
			return err
		}
		subscriptionID = &subscription.ID
	}

	var desc request_models.PaymentMethodDescriptor
	if method != nil {
		desc = *method
	}

	result, err := gateway.Execute(ctx, actor, order, desc)
	if err != nil {
		if subscriptionID != nil {
			// The snapshot must not survive as an active record when no
			// order ever settled against it.
			if derr := p.subscriptions.Deactivate(ctx, *subscriptionID); derr != nil {
				p.logger.Warn("orphan subscription left active", zap.Error(derr), zap.String("subscription_id", subscriptionID.String()))
			}
		}
		return utils.PaymentFailed(err)
	}

	order.ProviderTxnID = result.ProviderTxnID
	if err := p.orderRepo.MarkProcessed(ctx, order, time.Now().Unix(), subscriptionID); err != nil {
		p.logger.Error("mark order processed failed", zap.Error(err), zap.String("order_id", order.ID.String()))
		return utils.ErrDatabaseError
	}

	return nil
}

func (p *PaymentExecutor) gatewayFor(order *db_models.Order, method *request_models.PaymentMethodDescriptor) (PaymentGateway, error) {
	provider := ProviderFree
	if !order.IsFree() {
		if method == nil {
			return nil, utils.ValidationFailed("This order requires a payment method")
		}
		provider = method.Provider
	}

	gateway, ok := p.gateways[provider]
	if !ok {
		return nil, utils.ValidationFailed(fmt.Sprintf("Unsupported payment provider: %s", provider))
	}
	order.PaymentProvider = provider
	return gateway, nil
}

// ProviderFree is the registry key of the no-op gateway used for zero-amount
// settlements outside the pipeline's free shortcut (e.g. comped tickets).
const ProviderFree = "free"

// FreeGateway is the no-op settlement path.
type FreeGateway struct{}

func NewFreeGateway() PaymentGateway { return &FreeGateway{} }

func (f *FreeGateway) Execute(ctx context.Context, actor uuid.UUID, order *db_models.Order, method request_models.PaymentMethodDescriptor) (*ChargeResult, error) {
	if !order.IsFree() {
		return nil, fmt.Errorf("free gateway cannot settle amount %d", order.TotalAmountMinor)
	}
	return &ChargeResult{}, nil
}
