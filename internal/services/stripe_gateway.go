package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"

	"fundly/internal/models/db_models"
	"fundly/internal/models/request_models"
)

const ProviderStripe = "stripe"

type StripeConfig struct {
	SecretKey string
}

// StripeGateway settles card charges through a confirmed PaymentIntent.
type StripeGateway struct {
	cfg StripeConfig
}

func NewStripeGateway(cfg StripeConfig) PaymentGateway {
	stripe.Key = cfg.SecretKey
	return &StripeGateway{cfg: cfg}
}

func (s *StripeGateway) Execute(ctx context.Context, actor uuid.UUID, order *db_models.Order, method request_models.PaymentMethodDescriptor) (*ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(order.TotalAmountMinor),
		Currency:      stripe.String(strings.ToLower(order.Currency)),
		PaymentMethod: stripe.String(method.Token),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(fmt.Sprintf("Order %s", order.ID)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("charge not settled, intent status %s", intent.Status)
	}

	return &ChargeResult{ProviderTxnID: intent.ID}, nil
}
