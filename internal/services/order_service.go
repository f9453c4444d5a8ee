package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fundly/internal/models/db_models"
	"fundly/internal/models/request_models"
	"fundly/internal/models/response_models"
	"fundly/internal/repositories"
	"fundly/pkg/utils"
)

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, actorID uuid.UUID, req request_models.CreateOrderRequest) (*response_models.OrderResponse, error)
}

// OrderService is the fulfillment pipeline: validate, reserve, charge,
// provision, notify. Validation problems are collected and returned together
// before anything is written; once the order is durably processed, downstream
// failures degrade to warnings instead of rollbacks.
type OrderService struct {
	collectiveRepo repositories.CollectiveRepositoryInterface
	orderRepo      repositories.OrderRepositoryInterface
	guard          CapacityGuardInterface
	payments       PaymentExecutorInterface
	members        MemberServiceInterface
	activities     ActivityEmitterInterface
	logger         *zap.Logger
}

func NewOrderService(
	collectiveRepo repositories.CollectiveRepositoryInterface,
	orderRepo repositories.OrderRepositoryInterface,
	guard CapacityGuardInterface,
	payments PaymentExecutorInterface,
	members MemberServiceInterface,
	activities ActivityEmitterInterface,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{
		collectiveRepo: collectiveRepo,
		orderRepo:      orderRepo,
		guard:          guard,
		payments:       payments,
		members:        members,
		activities:     activities,
		logger:         logger,
	}
}

func (o *OrderService) CreateOrder(ctx context.Context, actorID uuid.UUID, req request_models.CreateOrderRequest) (*response_models.OrderResponse, error) {
	errs := &utils.ErrorList{}

	collective := o.resolveCollective(ctx, req, errs)

	var tier *db_models.Tier
	if collective != nil && req.TierID != nil {
		resolved, err := o.guard.ResolveTier(ctx, collective, *req.TierID)
		if err != nil {
			errs.Add(utils.AsErrorList(err).Errors[0])
		} else {
			tier = resolved
		}
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	amount := req.TotalAmountMinor
	currency := req.Currency
	if tier != nil {
		amount = tier.AmountMinor * quantity
		currency = tier.Currency
	}
	if currency == "" && collective != nil {
		currency = collective.Currency
	}

	if amount > 0 && req.PaymentMethod == nil {
		errs.Add(utils.ValidationFailed("This order requires a payment method"))
	}

	if errs.HasErrors() {
		return nil, errs
	}

	user, fromCollectiveID, err := o.members.ResolveBackerIdentity(ctx, actorID, req)
	if err != nil {
		return nil, err
	}

	order := &db_models.Order{
		CollectiveID:     collective.ID,
		FromCollectiveID: fromCollectiveID,
		CreatedByUserID:  user.ID,
		TierID:           req.TierID,
		Quantity:         quantity,
		TotalAmountMinor: amount,
		Currency:         currency,
		PublicMessage:    req.PublicMessage,
	}
	if req.PaymentMethod != nil {
		order.PaymentProvider = req.PaymentMethod.Provider
		order.PaymentMethodRef = req.PaymentMethod.Token
	}

	// Reserve capacity and insert the order as one unit; the tier is the
	// only contended resource in the pipeline.
	var reservation *Reservation
	if tier != nil {
		reservation, err = o.guard.Reserve(ctx, order, tier)
		if err != nil {
			return nil, err
		}
	} else {
		if err := o.orderRepo.Create(ctx, order); err != nil {
			o.logger.Error("create order failed", zap.Error(err))
			return nil, utils.ErrDatabaseError
		}
	}

	if order.IsFree() {
		// Free orders settle immediately, no executor round-trip.
		if err := o.orderRepo.MarkProcessed(ctx, order, time.Now().Unix(), nil); err != nil {
			o.logger.Error("mark free order processed failed", zap.Error(err), zap.String("order_id", order.ID.String()))
			return nil, utils.ErrDatabaseError
		}
	} else {
		// The charge is a blocking round-trip to the gateway; no data-store
		// lock is held across it. On failure the reservation is handed back
		// and the order row removed, so the caller can resubmit.
		if err := o.payments.Execute(ctx, actorID, order, tier, req.PaymentMethod); err != nil {
			o.release(ctx, order, reservation)
			return nil, err
		}
	}

	resp := &response_models.OrderResponse{
		ID:               order.ID,
		CollectiveSlug:   collective.Slug,
		Quantity:         order.Quantity,
		TotalAmountMinor: order.TotalAmountMinor,
		Currency:         order.Currency,
		PublicMessage:    order.PublicMessage,
		ProcessedAt:      order.ProcessedAt,
		SubscriptionID:   order.SubscriptionID,
	}
	if tier != nil {
		resp.TierName = tier.Name
	}
	if from, err := o.collectiveRepo.FindByID(ctx, fromCollectiveID); err == nil && from != nil {
		resp.FromCollective = from.Slug
	}

	// Past this point the order and its capacity are committed; membership
	// and notification problems surface as warnings, never rollbacks.
	member, err := o.members.Provision(ctx, order, tier)
	if err != nil {
		o.logger.Warn("membership provisioning failed after settlement",
			zap.Error(err), zap.String("order_id", order.ID.String()))
		resp.Warnings = append(resp.Warnings, "membership provisioning failed")
	} else {
		resp.MemberRole = string(member.Role)
	}

	if _, err := o.activities.Emit(ctx, db_models.ActivityOrderProcessed, collective, order, member, tier); err != nil {
		o.logger.Warn("activity dispatch incomplete",
			zap.Error(err), zap.String("order_id", order.ID.String()))
		resp.Warnings = append(resp.Warnings, "some notifications were not dispatched")
	}

	return resp, nil
}

func (o *OrderService) resolveCollective(ctx context.Context, req request_models.CreateOrderRequest, errs *utils.ErrorList) *db_models.Collective {
	if req.CollectiveID != nil {
		collective, err := o.collectiveRepo.FindByID(ctx, *req.CollectiveID)
		if err != nil {
			errs.Add(utils.ErrDatabaseError)
			return nil
		}
		if collective == nil {
			errs.Add(utils.NotFoundf("No collective found with id: %s", *req.CollectiveID))
			return nil
		}
		return collective
	}

	if req.CollectiveSlug != "" {
		collective, err := o.collectiveRepo.FindBySlug(ctx, req.CollectiveSlug)
		if err != nil {
			errs.Add(utils.ErrDatabaseError)
			return nil
		}
		if collective == nil {
			errs.Add(utils.NotFoundf("No collective found with id: %s", req.CollectiveSlug))
			return nil
		}
		return collective
	}

	errs.Add(utils.ValidationFailed("A collective reference is required"))
	return nil
}

func (o *OrderService) release(ctx context.Context, order *db_models.Order, reservation *Reservation) {
	var err error
	if reservation != nil {
		err = o.guard.Release(ctx, reservation)
	} else {
		err = o.orderRepo.ReleaseAndDelete(ctx, order)
	}
	if err != nil {
		o.logger.Error("reservation release failed", zap.Error(err), zap.String("order_id", order.ID.String()))
	}
}
