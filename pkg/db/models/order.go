package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusmart/campusmart-backend/pkg/enums"
)

// Order is a proposed sale of one product between a buyer and seller. Orders
// are an audit trail and are never hard-deleted; the product reference is
// nullable because a listing can be removed after the fact.
//
// TotalAmountCents is snapshotted from the product price at creation and is
// never recomputed. PaymentStatus only moves pending->paid or pending->failed.
type Order struct {
	ID               uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID        *uuid.UUID           `gorm:"column:product_id;type:uuid;index" json:"product_id,omitempty"`
	BuyerID          uuid.UUID            `gorm:"column:buyer_id;type:uuid;not null;index" json:"buyer_id"`
	SellerID         uuid.UUID            `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	Status           enums.OrderStatus    `gorm:"column:status;not null;default:'placed'" json:"status"`
	TotalAmountCents int                  `gorm:"column:total_amount_cents;not null" json:"total_amount_cents"`
	PaymentStatus    enums.PaymentStatus  `gorm:"column:payment_status;not null;default:'pending'" json:"payment_status"`
	Product          *Product             `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Buyer            *User                `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	Seller           *User                `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Transactions     []PaymentTransaction `gorm:"foreignKey:OrderID" json:"transactions,omitempty"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
