package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusmart/campusmart-backend/pkg/enums"
)

// PaymentTransaction records one gateway checkout attempt for an order. The
// gateway payment id stays null until the payment is captured; the signature
// is stored opaquely for audit.
type PaymentTransaction struct {
	ID               uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID          uuid.UUID               `gorm:"column:order_id;type:uuid;not null;index" json:"order_id"`
	GatewayOrderID   string                  `gorm:"column:gateway_order_id;not null;index" json:"gateway_order_id"`
	GatewayPaymentID *string                 `gorm:"column:gateway_payment_id" json:"gateway_payment_id,omitempty"`
	AmountCents      int                     `gorm:"column:amount_cents;not null" json:"amount_cents"`
	Status           enums.TransactionStatus `gorm:"column:status;not null;default:'created'" json:"status"`
	Signature        *string                 `gorm:"column:signature" json:"signature,omitempty"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
