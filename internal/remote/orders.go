package remote

import (
	"context"

	"gtech/internal/domain"
	"gtech/internal/repository"
)

// Orders реализует repository.OrderRepository через orders/*.
// Бэкенд сам фильтрует заказы по токену; произвольная смена статуса недоступна.
type Orders struct{ c *Client }

func NewOrders(c *Client) *Orders { return &Orders{c: c} }

var _ repository.OrderRepository = (*Orders)(nil)

func (r *Orders) Create(ctx context.Context, o *domain.Order) error {
	req := newOrderRequest{
		UserID:            o.UserID,
		UserName:          o.UserName,
		UserEmail:         o.UserEmail,
		UserPhone:         o.UserPhone,
		ProductID:         o.ProductID,
		ProductName:       o.ProductName,
		ProductPrice:      o.ProductPrice,
		Quantity:          o.Quantity,
		TotalAmount:       o.TotalAmount,
		Status:            o.Status,
		Address:           o.Address,
		PaymentID:         o.PaymentID,
		TrackingHistory:   o.Tracking,
		EstimatedDelivery: o.EstimatedDelivery,
	}
	var resp orderEnvelope
	if err := r.c.post(ctx, "orders/neworder", req, &resp); err != nil {
		return err
	}
	created := resp.domain()
	o.ID = created.ID
	if !created.CreatedAt.IsZero() {
		o.CreatedAt = created.CreatedAt
		o.UpdatedAt = created.UpdatedAt
	}
	return nil
}

func (r *Orders) mine(ctx context.Context) ([]domain.Order, error) {
	var list []wireOrder
	if err := r.c.get(ctx, "orders/myorders", &list); err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(list))
	for _, w := range list {
		out = append(out, w.domain())
	}
	return out, nil
}

func (r *Orders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	list, err := r.mine(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range list {
		if o.ID == id {
			cp := o
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Orders) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	list, err := r.mine(ctx)
	if err != nil {
		return nil, err
	}
	out := list[:0]
	for _, o := range list {
		if o.UserID == "" || o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// Update only knows how to cancel.
func (r *Orders) Update(ctx context.Context, o *domain.Order) error {
	if o.Status != domain.OrderStatusCancelled {
		return repository.ErrNotSupported
	}
	var resp orderEnvelope
	if err := r.c.post(ctx, "orders/cancelorder", cancelRequest{OrderID: o.ID, Reason: o.CancellationReason}, &resp); err != nil {
		return err
	}
	if updated := resp.domain(); !updated.UpdatedAt.IsZero() {
		o.UpdatedAt = updated.UpdatedAt
	}
	return nil
}
