package remote

import (
	"context"

	"gtech/internal/domain"
	"gtech/internal/repository"
)

// Payments реализует repository.PaymentGateway через payment/*
type Payments struct{ c *Client }

func NewPayments(c *Client) *Payments { return &Payments{c: c} }

var _ repository.PaymentGateway = (*Payments)(nil)

type createPaymentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func (p *Payments) CreateOrder(ctx context.Context, amount int64, currency string) (*domain.PaymentOrder, error) {
	if currency == "" {
		currency = "INR"
	}
	var out domain.PaymentOrder
	if err := p.c.post(ctx, "payment/create-order", createPaymentRequest{Amount: amount, Currency: currency}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *Payments) Verify(ctx context.Context, c domain.PaymentConfirmation) error {
	var resp struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if err := p.c.post(ctx, "payment/verify-payment", c, &resp); err != nil {
		return err
	}
	if resp.Success != nil && !*resp.Success {
		return repository.ErrPaymentRejected
	}
	return nil
}
