package repository

import (
	"context"
	"errors"
	"sort"
	"strings"

	"gtech/internal/domain"
)

var (
	// ErrNotFound возвращается, когда сущность не найдена
	ErrNotFound           = errors.New("not found")
	// ErrConflict сущность с таким ключом уже существует
	ErrConflict           = errors.New("already exists")
	// ErrInvalidCredentials неверный email или пароль
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotSupported операция недоступна для этого бэкенда
	ErrNotSupported       = errors.New("not supported by backend")
	// ErrPaymentRejected шлюз не подтвердил подпись платежа
	ErrPaymentRejected    = errors.New("payment verification failed")
)

// SortOrder порядок сортировки каталога
type SortOrder string

const (
	SortNewest    SortOrder = "date"
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
)

// ProductFilter параметры фильтрации списка товаров
type ProductFilter struct {
	Query        string
	Category     domain.ProductCategory
	Brands       []domain.Brand
	Conditions   []domain.ProductCondition
	Locations    []domain.City
	MinPrice     *int64
	MaxPrice     *int64
	FeaturedOnly bool
	Sort         SortOrder
}

// ProductRepository интерфейс репозитория товаров
type ProductRepository interface {
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
}

// UserRepository аутентификация и регистрация. token пуст для локального хранилища.
type UserRepository interface {
	Authenticate(ctx context.Context, email, password string) (*domain.User, string, error)
	Register(ctx context.Context, r domain.Registration) (*domain.User, string, error)
}

// CartRepository серверная корзина
type CartRepository interface {
	Items(ctx context.Context) ([]domain.CartItem, error)
	Add(ctx context.Context, productID string, quantity int64) error
	Remove(ctx context.Context, productID string) error
}

// PaymentGateway создание и проверка оплаты через бэкенд
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency string) (*domain.PaymentOrder, error)
	Verify(ctx context.Context, c domain.PaymentConfirmation) error
}

// TxManager абстракция транзакции. Для локального хранилища это глобальная блокировка записи.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Match reports whether p passes every set criterion of f.
func (f ProductFilter) Match(p domain.Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.FeaturedOnly && !p.Featured {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if len(f.Brands) > 0 && !in(f.Brands, p.Brand) {
		return false
	}
	if len(f.Conditions) > 0 && !in(f.Conditions, p.Condition) {
		return false
	}
	if len(f.Locations) > 0 && !in(f.Locations, p.Location) {
		return false
	}
	return matchesQuery(p, f.Query)
}

// Apply filters and sorts list, returning a new slice.
func (f ProductFilter) Apply(list []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(list))
	for _, p := range list {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	SortProducts(out, f.Sort)
	return out
}

// SortProducts сортирует на месте. Пустой порядок: сначала новые.
func SortProducts(list []domain.Product, order SortOrder) {
	switch order {
	case SortPriceLow:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Price < list[j].Price })
	case SortPriceHigh:
		sort.SliceStable(list, func(i, j int) bool { return list[i].Price > list[j].Price })
	default:
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	}
}

func matchesQuery(p domain.Product, q string) bool {
	if q == "" {
		return true
	}
	if containsIgnoreCase(p.Name, q) || containsIgnoreCase(p.Description, q) {
		return true
	}
	for _, s := range p.Specs {
		if containsIgnoreCase(s, q) {
			return true
		}
	}
	return false
}

func in[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
