package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"gtech/internal/domain"
	"gtech/internal/repository"
)

// CartService корзина и избранное. Изменения сразу применяются к сессии;
// при серверной корзине следом идёт сетевой вызов.
type CartService struct {
	session  *Session
	products repository.ProductRepository
	remote   repository.CartRepository // nil для локального бэкенда
	log      *zap.Logger
}

func NewCartService(session *Session, products repository.ProductRepository, remote repository.CartRepository, log *zap.Logger) *CartService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartService{session: session, products: products, remote: remote, log: log}
}

// CartLine позиция корзины вместе с товаром
type CartLine struct {
	Product  domain.Product `json:"product"`
	Quantity int64          `json:"quantity"`
}

func (s *CartService) Items(ctx context.Context) ([]domain.CartItem, error) {
	return s.session.Cart(ctx)
}

// Count число позиций (не единиц товара)
func (s *CartService) Count(ctx context.Context) (int, error) {
	items, err := s.session.Cart(ctx)
	return len(items), err
}

// Add добавляет товар. Повторное добавление увеличивает количество.
func (s *CartService) Add(ctx context.Context, productID string, quantity int64) ([]domain.CartItem, error) {
	if productID == "" {
		return nil, ErrInvalidInput
	}
	if quantity < 1 {
		quantity = 1
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	before, err := s.session.UpdateCart(ctx, func(items []domain.CartItem) []domain.CartItem {
		for i := range items {
			if items[i].ProductID == productID {
				items[i].Quantity += quantity
				return items
			}
		}
		return append(items, domain.CartItem{ProductID: productID, Quantity: quantity})
	})
	if err != nil {
		return nil, err
	}
	if s.remote != nil {
		if err := s.remote.Add(ctx, productID, quantity); err != nil {
			return nil, s.reconcile(ctx, before, err)
		}
	}
	return s.session.Cart(ctx)
}

func (s *CartService) Remove(ctx context.Context, productID string) ([]domain.CartItem, error) {
	if productID == "" {
		return nil, ErrInvalidInput
	}
	before, err := s.session.UpdateCart(ctx, func(items []domain.CartItem) []domain.CartItem {
		out := items[:0]
		for _, it := range items {
			if it.ProductID != productID {
				out = append(out, it)
			}
		}
		return out
	})
	if err != nil {
		return nil, err
	}
	if s.remote != nil {
		if err := s.remote.Remove(ctx, productID); err != nil {
			return nil, s.reconcile(ctx, before, err)
		}
	}
	return s.session.Cart(ctx)
}

// Clear empties the cart. The remote cart has no bulk endpoint, so each line
// is removed in turn.
func (s *CartService) Clear(ctx context.Context) error {
	before, err := s.session.UpdateCart(ctx, func([]domain.CartItem) []domain.CartItem { return nil })
	if err != nil {
		return err
	}
	if s.remote == nil {
		return nil
	}
	for _, it := range before {
		if err := s.remote.Remove(ctx, it.ProductID); err != nil {
			return s.reconcile(ctx, before, err)
		}
	}
	return nil
}

// Sync replaces the local cart with the remote one. No-op for the local backend.
func (s *CartService) Sync(ctx context.Context) ([]domain.CartItem, error) {
	if s.remote == nil {
		return s.session.Cart(ctx)
	}
	items, err := s.remote.Items(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.session.SetCart(ctx, items); err != nil {
		return nil, err
	}
	return s.session.Cart(ctx)
}

// reconcile runs after a failed remote mutation: adopt the server's cart, or
// restore the pre-mutation state if the server can't be read either. cause is
// always returned.
func (s *CartService) reconcile(ctx context.Context, before []domain.CartItem, cause error) error {
	items, err := s.remote.Items(ctx)
	if err == nil {
		err = s.session.SetCart(ctx, items)
		s.log.Warn("cart mutation failed, adopted remote cart", zap.Error(cause), zap.Int("items", len(items)))
	} else {
		s.log.Warn("cart mutation failed, rolling back", zap.Error(cause), zap.NamedError("refetch", err))
		err = s.session.SetCart(ctx, before)
	}
	if err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// Products разворачивает корзину в товары. Удалённые из каталога позиции пропускаются.
func (s *CartService) Products(ctx context.Context) ([]CartLine, error) {
	items, err := s.session.Cart(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CartLine, 0, len(items))
	for _, it := range items {
		p, err := s.products.GetByID(ctx, it.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, CartLine{Product: *p, Quantity: it.Quantity})
	}
	return out, nil
}

// ToggleWishlist добавляет или убирает товар; возвращает новое состояние
func (s *CartService) ToggleWishlist(ctx context.Context, productID string) (bool, error) {
	if productID == "" {
		return false, ErrInvalidInput
	}
	var added bool
	_, err := s.session.UpdateWishlist(ctx, func(ids []string) []string {
		for i, id := range ids {
			if id == productID {
				return append(ids[:i], ids[i+1:]...)
			}
		}
		added = true
		return append(ids, productID)
	})
	return added, err
}

func (s *CartService) InWishlist(ctx context.Context, productID string) (bool, error) {
	ids, err := s.session.Wishlist(ctx)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == productID {
			return true, nil
		}
	}
	return false, nil
}

// WishlistProducts товары из избранного в порядке добавления
func (s *CartService) WishlistProducts(ctx context.Context) ([]domain.Product, error) {
	ids, err := s.session.Wishlist(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.products.GetByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}
