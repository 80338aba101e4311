// Package kv is the client-local persistent state: plain key/value records
// under fixed key names, values stored as JSON.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Fixed record keys.
const (
	KeyCurrentUser = "gtech_current_user"
	KeyToken       = "gtech_token"
	KeyCart        = "gtech_cart"
	KeyWishlist    = "gtech_wishlist"
	KeyUsers       = "gtech_users"
	KeyProducts    = "gtech_products"
	KeyOrders      = "gtech_orders"
	KeyPayments    = "gtech_pending_payments"
)

// ErrMissing возвращается, когда ключа нет
var ErrMissing = errors.New("kv: key not found")

// Store is the minimal key/value surface the client state needs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetJSON decodes the record under key into v. found is false when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, v any) (found bool, err error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrMissing) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("kv: decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
