package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"gtech/internal/domain"
	"gtech/internal/repository"
)

// OrderService реализует логику заказов: создание, отмена, смена статуса
type OrderService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	tx       repository.TxManager
	log      *zap.Logger

	now     func() time.Time
	eta     time.Duration
	enforce bool
}

// OrderOption настройка OrderService
type OrderOption func(*OrderService)

func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) { s.now = now }
}

// WithDeliveryETA срок доставки, добавляемый к дате заказа
func WithDeliveryETA(d time.Duration) OrderOption {
	return func(s *OrderService) { s.eta = d }
}

// WithTransitionEnforcement включает проверку переходов по таблице статусов
func WithTransitionEnforcement(on bool) OrderOption {
	return func(s *OrderService) { s.enforce = on }
}

func WithOrderLogger(l *zap.Logger) OrderOption {
	return func(s *OrderService) { s.log = l }
}

func NewOrderService(products repository.ProductRepository, orders repository.OrderRepository, tx repository.TxManager, opts ...OrderOption) *OrderService {
	s := &OrderService{
		products: products,
		orders:   orders,
		tx:       tx,
		log:      zap.NewNop(),
		now:      time.Now,
		eta:      7 * 24 * time.Hour,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

var (
	ErrNotCancellable    = errors.New("order can no longer be cancelled")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// CreateOrderInput параметры оформления заказа
type CreateOrderInput struct {
	User      domain.User
	ProductID string
	Quantity  int64
	Address   domain.Address
	// Status пуст для оплаты при получении (Pending)
	Status    domain.OrderStatus
	PaymentID string
}

// CreateOrder снимает снимок товара и пользователя, считает сумму и ставит срок доставки
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if in.User.ID == "" || in.ProductID == "" || in.Quantity < 1 {
		return nil, ErrInvalidInput
	}
	status := in.Status
	if status == "" {
		status = domain.OrderStatusPending
	}
	if !status.Valid() || status.Terminal() {
		return nil, ErrInvalidInput
	}
	if err := domain.ValidateAddress(in.Address); err != nil {
		return nil, err
	}

	var created *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		p, err := s.products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		eta := now.Add(s.eta)
		addr := in.Address
		addr.PhoneNumber = domain.NormalizePhone(addr.PhoneNumber)
		o := domain.Order{
			UserID:            in.User.ID,
			UserName:          in.User.Name,
			UserEmail:         in.User.Email,
			UserPhone:         in.User.Phone,
			ProductID:         p.ID,
			ProductName:       p.Name,
			ProductPrice:      p.Price,
			Quantity:          in.Quantity,
			TotalAmount:       p.Price * in.Quantity,
			Status:            status,
			Address:           addr,
			PaymentID:         in.PaymentID,
			Tracking:          []domain.TrackingEvent{{Status: status, Message: domain.TrackingMessage(status, ""), Timestamp: now}},
			EstimatedDelivery: &eta,
			CreatedAt:         now,
		}
		if err := s.orders.Create(ctx, &o); err != nil {
			return err
		}
		created = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order created",
		zap.String("order_id", created.ID),
		zap.String("user_id", created.UserID),
		zap.String("status", string(created.Status)),
		zap.Int64("total", created.TotalAmount),
	)
	return created, nil
}

// GetOrder возвращает заказ по id
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.orders.GetByID(ctx, id)
}

// GetOrderForUser скрывает чужие заказы как несуществующие
func (s *OrderService) GetOrderForUser(ctx context.Context, id, userID string) (*domain.Order, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != "" && o.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

// CancelOrder разрешён только из Pending, Confirmed и Processing
func (s *OrderService) CancelOrder(ctx context.Context, id, reason string) (*domain.Order, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	reason = strings.TrimSpace(reason)
	var updated *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !o.Status.Cancellable() {
			return ErrNotCancellable
		}
		o.Status = domain.OrderStatusCancelled
		o.CancellationReason = reason
		o.Tracking = append(o.Tracking, domain.TrackingEvent{
			Status:    domain.OrderStatusCancelled,
			Message:   domain.TrackingMessage(domain.OrderStatusCancelled, reason),
			Timestamp: s.now().UTC(),
		})
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order cancelled", zap.String("order_id", id), zap.String("reason", reason))
	return updated, nil
}

// UpdateStatus меняет статус и дописывает событие в историю.
// Без WithTransitionEnforcement переход не проверяется.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if id == "" || !status.Valid() {
		return nil, ErrInvalidInput
	}
	var updated *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s.enforce && !domain.CanTransition(o.Status, status) {
			return ErrInvalidTransition
		}
		from := o.Status
		o.Status = status
		o.Tracking = append(o.Tracking, domain.TrackingEvent{
			Status:    status,
			Message:   domain.TrackingMessage(status, ""),
			Timestamp: s.now().UTC(),
		})
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		s.log.Info("order status changed",
			zap.String("order_id", id),
			zap.String("from", string(from)),
			zap.String("to", string(status)),
		)
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListForUser заказы пользователя, новые первыми
func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	list, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// PendingCount число заказов пользователя в статусе Pending
func (s *OrderService) PendingCount(ctx context.Context, userID string) (int, error) {
	list, err := s.ListForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, o := range list {
		if o.Status == domain.OrderStatusPending {
			n++
		}
	}
	return n, nil
}
