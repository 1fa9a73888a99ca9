package domain

import "fmt"

// OrderStatus тип статуса заказа
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusConfirmed  OrderStatus = "Confirmed"
	OrderStatusDispatched OrderStatus = "Dispatched"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusDispatched,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// allowed transitions; Delivered and Cancelled are terminal
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusDispatched, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusDispatched, OrderStatusCancelled},
	OrderStatusDispatched: {OrderStatusDelivered, OrderStatusCancelled},
}

// CanTransition reports whether an order may move from one status to another
// under the strict lifecycle. Setting the current status again is always allowed.
func CanTransition(from, to OrderStatus) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PaymentMethodType вид сохранённого способа оплаты
type PaymentMethodType string

const (
	PaymentMethodTypeCard PaymentMethodType = "card"
	PaymentMethodTypeUPI  PaymentMethodType = "upi"
)

// IsValid reports whether the value is known.
func (p PaymentMethodType) IsValid() bool {
	return p == PaymentMethodTypeCard || p == PaymentMethodTypeUPI
}
