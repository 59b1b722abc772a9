package enums

import "fmt"

// OrderStatus tracks the delivery lifecycle of an order. It is advanced by
// administrative action only, never by the payment flow.
type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusConfirmed,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the delivery lifecycle allows the move.
// placed -> confirmed -> delivered, with cancellation allowed any time
// before delivery. Delivered and cancelled are terminal.
func (o OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if o == next {
		return false
	}
	switch next {
	case OrderStatusConfirmed:
		return o == OrderStatusPlaced
	case OrderStatusDelivered:
		return o == OrderStatusConfirmed
	case OrderStatusCancelled:
		return o == OrderStatusPlaced || o == OrderStatusConfirmed
	default:
		return false
	}
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
