package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"gtech/internal/domain"
	"gtech/internal/repository"
)

// CheckoutService онлайн-оплата: заказ в шлюзе, проверка подписи, затем заказ в магазине.
// Оплата при получении идёт напрямую через OrderService.CreateOrder.
type CheckoutService struct {
	session  *Session
	products repository.ProductRepository
	orders   *OrderService
	gateway  repository.PaymentGateway // nil: онлайн-оплата недоступна
	currency string
	log      *zap.Logger
}

func NewCheckoutService(session *Session, products repository.ProductRepository, orders *OrderService, gateway repository.PaymentGateway, log *zap.Logger) *CheckoutService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckoutService{session: session, products: products, orders: orders, gateway: gateway, currency: "INR", log: log}
}

// Available reports whether online payment can be used.
func (s *CheckoutService) Available() bool { return s.gateway != nil }

// StartPayment создаёт заказ в платёжном шлюзе на сумму price × qty и запоминает,
// за какой товар и количество выставлен счёт.
func (s *CheckoutService) StartPayment(ctx context.Context, userID, productID string, quantity int64) (*domain.PaymentOrder, error) {
	if s.gateway == nil {
		return nil, repository.ErrNotSupported
	}
	if userID == "" || productID == "" || quantity < 1 {
		return nil, ErrInvalidInput
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	po, err := s.gateway.CreateOrder(ctx, p.Price*quantity, s.currency)
	if err != nil {
		return nil, err
	}
	pending := PendingPayment{ID: po.ID, UserID: userID, ProductID: productID, Quantity: quantity, Amount: po.Amount}
	if err := s.session.SavePayment(ctx, pending); err != nil {
		return nil, err
	}
	s.log.Info("payment started", zap.String("payment_order", po.ID), zap.Int64("amount", po.Amount))
	return po, nil
}

// CompletePaymentInput ответ виджета оплаты. ProductID и Quantity необязательны:
// если заданы, они должны совпадать с оплаченным товаром.
type CompletePaymentInput struct {
	User         domain.User
	ProductID    string
	Quantity     int64
	Address      domain.Address
	Confirmation domain.PaymentConfirmation
}

// CompletePayment проверяет платёж и оформляет оплаченный товар сразу в статусе Confirmed.
// Каждый заказ шлюза превращается не более чем в один заказ магазина.
func (s *CheckoutService) CompletePayment(ctx context.Context, in CompletePaymentInput) (*domain.Order, error) {
	if s.gateway == nil {
		return nil, repository.ErrNotSupported
	}
	c := in.Confirmation
	if c.OrderID == "" || c.PaymentID == "" || c.Signature == "" {
		return nil, ErrInvalidInput
	}
	if err := domain.ValidateAddress(in.Address); err != nil {
		return nil, err
	}

	pending, err := s.session.Payment(ctx, c.OrderID)
	if err != nil {
		return nil, err
	}
	if pending == nil || pending.UserID != in.User.ID {
		return nil, fmt.Errorf("%w: unknown payment order %s", repository.ErrPaymentRejected, c.OrderID)
	}
	if (in.ProductID != "" && in.ProductID != pending.ProductID) || (in.Quantity != 0 && in.Quantity != pending.Quantity) {
		return nil, fmt.Errorf("%w: item differs from the paid one", ErrInvalidInput)
	}
	p, err := s.products.GetByID(ctx, pending.ProductID)
	if err != nil {
		return nil, err
	}
	if p.Price*pending.Quantity != pending.Amount {
		s.log.Warn("price changed after payment started",
			zap.String("payment_order", pending.ID), zap.Int64("paid", pending.Amount), zap.Int64("now", p.Price*pending.Quantity))
		return nil, fmt.Errorf("%w: amount no longer matches", repository.ErrPaymentRejected)
	}

	if err := s.gateway.Verify(ctx, c); err != nil {
		s.log.Warn("payment verification failed", zap.String("payment_id", c.PaymentID), zap.Error(err))
		return nil, err
	}

	taken, ok, err := s.session.TakePayment(ctx, c.OrderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// a concurrent completion already used this payment
		return nil, fmt.Errorf("%w: payment order %s already used", repository.ErrPaymentRejected, c.OrderID)
	}
	o, err := s.orders.CreateOrder(ctx, CreateOrderInput{
		User:      in.User,
		ProductID: taken.ProductID,
		Quantity:  taken.Quantity,
		Address:   in.Address,
		Status:    domain.OrderStatusConfirmed,
		PaymentID: c.PaymentID,
	})
	if err != nil {
		if serr := s.session.SavePayment(ctx, taken); serr != nil {
			return nil, errors.Join(err, serr)
		}
		return nil, err
	}
	return o, nil
}
