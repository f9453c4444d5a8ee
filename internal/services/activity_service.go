package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"fundly/internal/models/db_models"
	"fundly/internal/repositories"
	"fundly/pkg/utils"
)

type ActivityEmitterInterface interface {
	Emit(ctx context.Context, activityType string, collective *db_models.Collective, order *db_models.Order, member *db_models.Member, tier *db_models.Tier) (int, error)
}

type ActivityEmitter struct {
	activityRepo     repositories.ActivityRepositoryInterface
	collectiveRepo   repositories.CollectiveRepositoryInterface
	notificationRepo repositories.NotificationRepositoryInterface
	resolver         SubscriberResolverInterface
	notifier         NotifierInterface
	logger           *zap.Logger
}

func NewActivityEmitter(
	activityRepo repositories.ActivityRepositoryInterface,
	collectiveRepo repositories.CollectiveRepositoryInterface,
	notificationRepo repositories.NotificationRepositoryInterface,
	resolver SubscriberResolverInterface,
	notifier NotifierInterface,
	logger *zap.Logger,
) ActivityEmitterInterface {
	return &ActivityEmitter{
		activityRepo:     activityRepo,
		collectiveRepo:   collectiveRepo,
		notificationRepo: notificationRepo,
		resolver:         resolver,
		notifier:         notifier,
		logger:           logger,
	}
}

// Emit persists the outcome event and fans it out: one hand-off to the
// notifier per resolved recipient per event. Delivery past that point is
// at-least-once and owned by the notifier. The dispatched count is returned
// so partial failures surface to the caller as a warning, never a rollback.
func (e *ActivityEmitter) Emit(ctx context.Context, activityType string, collective *db_models.Collective, order *db_models.Order, member *db_models.Member, tier *db_models.Tier) (int, error) {
	payload, err := e.buildPayload(ctx, collective, order, member, tier)
	if err != nil {
		return 0, err
	}

	activity := &db_models.Activity{
		Type:         activityType,
		CollectiveID: collective.ID,
		Payload:      payload,
	}
	if order != nil {
		activity.OrderID = &order.ID
		activity.UserID = &order.CreatedByUserID
	}
	if err := e.activityRepo.Create(ctx, activity); err != nil {
		e.logger.Error("persist activity failed", zap.Error(err), zap.String("type", activityType))
		return 0, utils.ErrDatabaseError
	}

	channel := e.channelFor(collective, tier)
	recipients, err := e.resolver.Resolve(ctx, collective.Slug, channel)
	if err != nil {
		return 0, err
	}

	// Second opt-out axis: a (user, collective, type) row suppresses this
	// activity type on every channel.
	typeOptOuts, err := e.notificationRepo.InactiveUserIDs(ctx, collective.ID, activityType, "")
	if err != nil {
		return 0, utils.ErrDatabaseError
	}

	subject, body := e.renderSummary(activityType, collective, order, member, tier)

	dispatched := 0
	var lastErr error
	for _, recipient := range recipients {
		if typeOptOuts[recipient.ID] {
			continue
		}
		if err := e.notifier.Notify(ctx, recipient, activity, collective.Slug, subject, body); err != nil {
			e.logger.Warn("notification dispatch failed",
				zap.Error(err),
				zap.String("recipient", recipient.ID.String()),
				zap.String("activity_type", activityType),
			)
			lastErr = err
			continue
		}
		dispatched++
	}

	return dispatched, lastErr
}

func (e *ActivityEmitter) channelFor(collective *db_models.Collective, tier *db_models.Tier) string {
	if collective.IsEvent() {
		return ChannelMailingList
	}
	if tier != nil && tier.Kind == db_models.TierKindTicket {
		return ChannelAttendees
	}
	return ChannelBackers
}

func (e *ActivityEmitter) buildPayload(ctx context.Context, collective *db_models.Collective, order *db_models.Order, member *db_models.Member, tier *db_models.Tier) ([]byte, error) {
	data := map[string]interface{}{
		"collective": map[string]interface{}{
			"id":   collective.ID,
			"slug": collective.Slug,
			"name": collective.Name,
			"kind": collective.Kind,
		},
	}

	if member != nil {
		memberSummary := map[string]interface{}{
			"id":   member.ID,
			"role": member.Role,
		}
		if backer, err := e.collectiveRepo.FindByID(ctx, member.MemberCollectiveID); err == nil && backer != nil {
			memberSummary["collective_slug"] = backer.Slug
		}
		data["member"] = memberSummary
	}

	if order != nil {
		orderSummary := map[string]interface{}{
			"id":           order.ID,
			"quantity":     order.Quantity,
			"total_amount": order.TotalAmountMinor,
			"currency":     order.Currency,
		}
		if order.PublicMessage != nil {
			orderSummary["public_message"] = *order.PublicMessage
		}
		if tier != nil {
			orderSummary["tier"] = tier.Name
			if tier.Interval != nil {
				orderSummary["interval"] = *tier.Interval
			}
		}
		data["order"] = orderSummary
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return raw, nil
}

func (e *ActivityEmitter) renderSummary(activityType string, collective *db_models.Collective, order *db_models.Order, member *db_models.Member, tier *db_models.Tier) (string, string) {
	subject := fmt.Sprintf("New activity on %s", collective.Name)
	body := fmt.Sprintf("Something happened on %s (%s).", collective.Name, activityType)

	if order != nil {
		tierName := "a contribution"
		if tier != nil {
			tierName = tier.Name
		}
		subject = fmt.Sprintf("New contribution to %s", collective.Name)
		body = fmt.Sprintf("%s received an order for %s (x%d).", collective.Name, tierName, order.Quantity)
		if order.PublicMessage != nil && *order.PublicMessage != "" {
			body += "\n\n" + *order.PublicMessage
		}
	}
	return subject, body
}
