package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fundly/internal/models/db_models"
)

// ErrInsufficientCapacity reports that the conditional reservation found no
// remaining slots. The capacity guard translates it into the caller-facing
// message naming the tier.
var ErrInsufficientCapacity = errors.New("insufficient tier capacity")

type OrderRepositoryInterface interface {
	CreateWithReservation(ctx context.Context, order *db_models.Order, tier *db_models.Tier) error
	Create(ctx context.Context, order *db_models.Order) error
	ReleaseAndDelete(ctx context.Context, order *db_models.Order) error
	MarkProcessed(ctx context.Context, order *db_models.Order, processedAt int64, subscriptionID *uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Order, error)
}

func NewOrderRepository(db *gorm.DB) OrderRepositoryInterface {
	return &OrderRepository{db: db}
}

type OrderRepository struct {
	db *gorm.DB
}

// CreateWithReservation inserts the order and consumes tier capacity in one
// all-or-nothing unit. The reservation is a conditional compare-and-increment
// on the tier's counter, so two concurrent near-last-slot requests cannot
// both succeed; the loser sees zero affected rows and gets
// ErrInsufficientCapacity with no order row written.
func (o OrderRepository) CreateWithReservation(ctx context.Context, order *db_models.Order, tier *db_models.Tier) error {
	return o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&db_models.Tier{}).
			Where("id = ?", tier.ID).
			Where("max_quantity IS NULL OR quantity_sold + ? <= max_quantity", order.Quantity).
			UpdateColumn("quantity_sold", gorm.Expr("quantity_sold + ?", order.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientCapacity
		}

		return tx.Create(order).Error
	})
}

// Create inserts a tierless order; no capacity is involved.
func (o OrderRepository) Create(ctx context.Context, order *db_models.Order) error {
	return o.db.WithContext(ctx).Create(order).Error
}

// ReleaseAndDelete is the compensating action after a failed charge: the
// unprocessed order row is removed and the reserved capacity returned in the
// same transaction, keeping the counter equal to the surviving order sum.
func (o OrderRepository) ReleaseAndDelete(ctx context.Context, order *db_models.Order) error {
	return o.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if order.TierID != nil {
			res := tx.Model(&db_models.Tier{}).
				Where("id = ?", *order.TierID).
				UpdateColumn("quantity_sold", gorm.Expr("quantity_sold - ?", order.Quantity))
			if res.Error != nil {
				return res.Error
			}
		}
		return tx.Delete(order).Error
	})
}

func (o OrderRepository) MarkProcessed(ctx context.Context, order *db_models.Order, processedAt int64, subscriptionID *uuid.UUID) error {
	updates := map[string]interface{}{
		"processed_at":    processedAt,
		"provider_txn_id": order.ProviderTxnID,
	}
	if subscriptionID != nil {
		updates["subscription_id"] = *subscriptionID
	}
	err := o.db.WithContext(ctx).Model(order).Updates(updates).Error
	if err != nil {
		return err
	}
	order.ProcessedAt = &processedAt
	order.SubscriptionID = subscriptionID
	return nil
}

func (o OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Order, error) {
	var order db_models.Order
	err := o.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}
