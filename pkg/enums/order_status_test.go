package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPlaced, OrderStatusConfirmed, true},
		{OrderStatusConfirmed, OrderStatusDelivered, true},
		{OrderStatusPlaced, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusPlaced, OrderStatusDelivered, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		{OrderStatusDelivered, OrderStatusDelivered, false},
	}

	for _, tc := range tests {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	if _, err := ParseOrderStatus("placed"); err != nil {
		t.Fatalf("expected placed to parse, got %v", err)
	}
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestPaymentStatusIsValid(t *testing.T) {
	for _, status := range []PaymentStatus{PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed} {
		if !status.IsValid() {
			t.Fatalf("expected %s to be valid", status)
		}
	}
	if PaymentStatus("refunded").IsValid() {
		t.Fatal("expected refunded to be invalid")
	}
}
