package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/payOSHQ/payos-lib-golang"

	"fundly/internal/models/db_models"
	"fundly/internal/models/request_models"
)

const ProviderPayOS = "payos"

type PayOSConfig struct {
	ClientID    string
	ApiKey      string
	ChecksumKey string
	ReturnURL   string
	CancelURL   string
}

// PayOSGateway settles wallet charges through a payOS payment link.
type PayOSGateway struct {
	cfg PayOSConfig
}

func NewPayOSGateway(cfg PayOSConfig) (PaymentGateway, error) {
	if err := payos.Key(cfg.ClientID, cfg.ApiKey, cfg.ChecksumKey); err != nil {
		return nil, fmt.Errorf("payos client init: %w", err)
	}
	return &PayOSGateway{cfg: cfg}, nil
}

func (p *PayOSGateway) Execute(ctx context.Context, actor uuid.UUID, order *db_models.Order, method request_models.PaymentMethodDescriptor) (*ChargeResult, error) {
	// payOS expects an int64 order code within 13 digits. Unix seconds plus
	// a short random suffix keeps collisions unlikely.
	orderCode := time.Now().Unix()%1_000_000_000 + int64(rand.Intn(9000)+1000)

	item := payos.Item{
		Name:     fmt.Sprintf("Order %s", order.ID),
		Price:    int(order.TotalAmountMinor),
		Quantity: int(order.Quantity),
	}

	body := payos.CheckoutRequestType{
		OrderCode:   orderCode,
		Amount:      int(order.TotalAmountMinor),
		Items:       []payos.Item{item},
		Description: fmt.Sprintf("Contribution %s", order.ID),
		CancelUrl:   p.cfg.CancelURL,
		ReturnUrl:   p.cfg.ReturnURL,
	}

	resp, err := payos.CreatePaymentLink(body)
	if err != nil {
		return nil, fmt.Errorf("payos create link: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("payos returned no checkout data")
	}

	return &ChargeResult{ProviderTxnID: fmt.Sprintf("payos:%d", orderCode)}, nil
}
