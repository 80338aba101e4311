package service

import (
	"context"
	"sync"

	"gtech/internal/domain"
	"gtech/internal/kv"
)

// Session состояние клиента: текущий пользователь, токен, корзина, избранное.
// Единственный путь изменения этих записей.
type Session struct {
	mu sync.Mutex
	kv kv.Store
}

func NewSession(store kv.Store) *Session {
	return &Session{kv: store}
}

// User returns nil without error when nobody is signed in.
func (s *Session) User(ctx context.Context) (*domain.User, error) {
	var u domain.User
	found, err := kv.GetJSON(ctx, s.kv, kv.KeyCurrentUser, &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

func (s *Session) Token(ctx context.Context) (string, error) {
	var token string
	if _, err := kv.GetJSON(ctx, s.kv, kv.KeyToken, &token); err != nil {
		return "", err
	}
	return token, nil
}

// SignIn сохраняет пользователя и токен (для локального бэкенда токен пуст)
func (s *Session) SignIn(ctx context.Context, u domain.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := kv.SetJSON(ctx, s.kv, kv.KeyCurrentUser, u); err != nil {
		return err
	}
	if token == "" {
		return s.kv.Delete(ctx, kv.KeyToken)
	}
	return kv.SetJSON(ctx, s.kv, kv.KeyToken, token)
}

// Clear drops the user and token. Cart and wishlist stay with the device.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(ctx, kv.KeyCurrentUser); err != nil {
		return err
	}
	return s.kv.Delete(ctx, kv.KeyToken)
}

func (s *Session) Cart(ctx context.Context) ([]domain.CartItem, error) {
	items := make([]domain.CartItem, 0)
	if _, err := kv.GetJSON(ctx, s.kv, kv.KeyCart, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Session) SetCart(ctx context.Context, items []domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return kv.SetJSON(ctx, s.kv, kv.KeyCart, dedupeCart(items))
}

// UpdateCart applies fn under the session lock and returns the state before it.
func (s *Session) UpdateCart(ctx context.Context, fn func([]domain.CartItem) []domain.CartItem) (before []domain.CartItem, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before, err = s.Cart(ctx)
	if err != nil {
		return nil, err
	}
	next := fn(append([]domain.CartItem(nil), before...))
	return before, kv.SetJSON(ctx, s.kv, kv.KeyCart, dedupeCart(next))
}

func (s *Session) Wishlist(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	if _, err := kv.GetJSON(ctx, s.kv, kv.KeyWishlist, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateWishlist applies fn under the session lock.
func (s *Session) UpdateWishlist(ctx context.Context, fn func([]string) []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.Wishlist(ctx)
	if err != nil {
		return nil, err
	}
	next := dedupeIDs(fn(ids))
	return next, kv.SetJSON(ctx, s.kv, kv.KeyWishlist, next)
}

// PendingPayment заказ платёжного шлюза, ожидающий подтверждения.
// Хранит то, за что именно выставлен счёт.
type PendingPayment struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
	Amount    int64  `json:"amount"`
}

func (s *Session) payments(ctx context.Context) (map[string]PendingPayment, error) {
	m := make(map[string]PendingPayment)
	if _, err := kv.GetJSON(ctx, s.kv, kv.KeyPayments, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Session) SavePayment(ctx context.Context, p PendingPayment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.payments(ctx)
	if err != nil {
		return err
	}
	m[p.ID] = p
	return kv.SetJSON(ctx, s.kv, kv.KeyPayments, m)
}

// Payment returns nil without error for an unknown id.
func (s *Session) Payment(ctx context.Context, id string) (*PendingPayment, error) {
	m, err := s.payments(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := m[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// TakePayment удаляет ожидающий платёж и возвращает его; ok=false, если его уже нет.
func (s *Session) TakePayment(ctx context.Context, id string) (p PendingPayment, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.payments(ctx)
	if err != nil {
		return PendingPayment{}, false, err
	}
	p, ok = m[id]
	if !ok {
		return PendingPayment{}, false, nil
	}
	delete(m, id)
	return p, true, kv.SetJSON(ctx, s.kv, kv.KeyPayments, m)
}

func dedupeCart(items []domain.CartItem) []domain.CartItem {
	seen := make(map[string]bool, len(items))
	out := make([]domain.CartItem, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" || seen[it.ProductID] {
			continue
		}
		seen[it.ProductID] = true
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		out = append(out, it)
	}
	return out
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
