package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusmart/campusmart-backend/internal/products"
	"github.com/campusmart/campusmart-backend/internal/users"
	"github.com/campusmart/campusmart-backend/pkg/db/models"
	"github.com/campusmart/campusmart-backend/pkg/enums"
)

// OrderDTO is the transport shape for an order.
type OrderDTO struct {
	ID               uuid.UUID            `json:"id"`
	ProductID        *uuid.UUID           `json:"product_id,omitempty"`
	Product          *products.ProductDTO `json:"product,omitempty"`
	Buyer            *users.PublicUserDTO `json:"buyer,omitempty"`
	Seller           *users.PublicUserDTO `json:"seller,omitempty"`
	Status           enums.OrderStatus    `json:"status"`
	TotalAmountCents int                  `json:"total_amount_cents"`
	PaymentStatus    enums.PaymentStatus  `json:"payment_status"`
	Transactions     []TransactionDTO     `json:"transactions,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// TransactionDTO is the transport shape for a gateway checkout attempt.
type TransactionDTO struct {
	ID               uuid.UUID               `json:"id"`
	GatewayOrderID   string                  `json:"gateway_order_id"`
	GatewayPaymentID *string                 `json:"gateway_payment_id,omitempty"`
	AmountCents      int                     `json:"amount_cents"`
	Status           enums.TransactionStatus `json:"status"`
	CreatedAt        time.Time               `json:"created_at"`
}

// OrderListDTO is a cursor-paginated page of orders.
type OrderListDTO struct {
	Items      []OrderDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// CreateOrderInput is the request body for placing an order.
type CreateOrderInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// UpdateStatusInput is the admin request body for moving the delivery lifecycle.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// FromModel maps a persisted order onto its transport shape.
func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:               o.ID,
		ProductID:        o.ProductID,
		Product:          products.FromModel(o.Product),
		Buyer:            users.PublicFromModel(o.Buyer),
		Seller:           users.PublicFromModel(o.Seller),
		Status:           o.Status,
		TotalAmountCents: o.TotalAmountCents,
		PaymentStatus:    o.PaymentStatus,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
	for i := range o.Transactions {
		tx := &o.Transactions[i]
		dto.Transactions = append(dto.Transactions, TransactionDTO{
			ID:               tx.ID,
			GatewayOrderID:   tx.GatewayOrderID,
			GatewayPaymentID: tx.GatewayPaymentID,
			AmountCents:      tx.AmountCents,
			Status:           tx.Status,
			CreatedAt:        tx.CreatedAt,
		})
	}
	return dto
}
