package payments

import (
	"github.com/google/uuid"

	"github.com/campusmart/campusmart-backend/pkg/enums"
)

// CheckoutSessionDTO is everything a client needs to open the gateway widget.
type CheckoutSessionDTO struct {
	OrderID        uuid.UUID `json:"order_id"`
	GatewayOrderID string    `json:"gateway_order_id"`
	GatewayKeyID   string    `json:"gateway_key_id"`
	AmountCents    int       `json:"amount_cents"`
	Currency       string    `json:"currency"`
}

// CreateCheckoutInput is the request body for opening a checkout session.
type CreateCheckoutInput struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

// ConfirmInput is the client-side payment confirmation callback body.
type ConfirmInput struct {
	OrderID          uuid.UUID `json:"order_id" validate:"required"`
	GatewayOrderID   string    `json:"gateway_order_id" validate:"required"`
	GatewayPaymentID string    `json:"gateway_payment_id" validate:"required"`
	Signature        string    `json:"signature" validate:"required"`
}

// ConfirmResultDTO reports the order's payment state after confirmation.
// Replayed confirmations return the same shape without further mutation.
type ConfirmResultDTO struct {
	OrderID       uuid.UUID           `json:"order_id"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
}
