package domain

// OrderStatus тип статуса заказа
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "Pending"
	OrderStatusConfirmed      OrderStatus = "Confirmed"
	OrderStatusApproved       OrderStatus = "Approved"
	OrderStatusProcessing     OrderStatus = "Processing"
	OrderStatusShipped        OrderStatus = "Shipped"
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
	OrderStatusCancelled      OrderStatus = "Cancelled"
)

// transitions таблица допустимых переходов. Approved остался от ранней схемы статусов.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusProcessing, OrderStatusApproved, OrderStatusCancelled},
	OrderStatusApproved:       {OrderStatusProcessing, OrderStatusDelivered},
	OrderStatusProcessing:     {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:        {OrderStatusOutForDelivery},
	OrderStatusOutForDelivery: {OrderStatusDelivered},
	OrderStatusDelivered:      nil,
	OrderStatusCancelled:      nil,
}

var trackingMessages = map[OrderStatus]string{
	OrderStatusPending:        "Order placed",
	OrderStatusConfirmed:      "Order confirmed",
	OrderStatusApproved:       "Order approved",
	OrderStatusProcessing:     "Order is being processed",
	OrderStatusShipped:        "Order has been shipped",
	OrderStatusOutForDelivery: "Order is out for delivery",
	OrderStatusDelivered:      "Order delivered",
	OrderStatusCancelled:      "Order cancelled",
}

// Valid сообщает, известен ли статус
func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal: из Delivered и Cancelled переходов нет
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Cancellable: отмена разрешена только на ранних стадиях
func (s OrderStatus) Cancellable() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing:
		return true
	}
	return false
}

// CanTransition проверяет переход по таблице
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from s in one step.
func NextStatuses(s OrderStatus) []OrderStatus {
	out := make([]OrderStatus, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

// TrackingMessage текст события трекинга для статуса
func TrackingMessage(s OrderStatus, reason string) string {
	msg, ok := trackingMessages[s]
	if !ok {
		msg = "Status updated to " + string(s)
	}
	if s == OrderStatusCancelled && reason != "" {
		msg += ": " + reason
	}
	return msg
}
