package remote

import (
	"context"

	"gtech/internal/domain"
	"gtech/internal/repository"
)

// Cart серверная корзина: cart, cart/add, cart/remove
type Cart struct{ c *Client }

func NewCart(c *Client) *Cart { return &Cart{c: c} }

var _ repository.CartRepository = (*Cart)(nil)

type cartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity,omitempty"`
}

func (r *Cart) Items(ctx context.Context) ([]domain.CartItem, error) {
	var resp cartResponse
	if err := r.c.get(ctx, "cart", &resp); err != nil {
		return nil, err
	}
	out := make([]domain.CartItem, 0, len(resp))
	for _, it := range resp {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		out = append(out, domain.CartItem{ProductID: first(it.ProductID, it.Product), Quantity: qty})
	}
	return out, nil
}

func (r *Cart) Add(ctx context.Context, productID string, quantity int64) error {
	return r.c.post(ctx, "cart/add", cartRequest{ProductID: productID, Quantity: quantity}, nil)
}

func (r *Cart) Remove(ctx context.Context, productID string) error {
	return r.c.post(ctx, "cart/remove", cartRequest{ProductID: productID}, nil)
}
