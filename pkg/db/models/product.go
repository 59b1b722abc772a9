package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusmart/campusmart-backend/pkg/enums"
	"github.com/campusmart/campusmart-backend/pkg/types"
)

// Product is a marketplace listing. New listings start in pending and become
// available only after moderation; a paid order flips them to sold.
type Product struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Title       string                  `gorm:"column:title;not null" json:"title"`
	Slug        string                  `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Description *string                 `gorm:"column:description" json:"description,omitempty"`
	PriceCents  int                     `gorm:"column:price_cents;not null" json:"price_cents"`
	Currency    string                  `gorm:"column:currency;not null;default:'INR'" json:"currency"`
	Category    *string                 `gorm:"column:category" json:"category,omitempty"`
	Condition   *enums.ProductCondition `gorm:"column:condition" json:"condition,omitempty"`
	Images      types.StringList        `gorm:"column:images;type:jsonb;serializer:json" json:"images"`
	Location    *string                 `gorm:"column:location" json:"location,omitempty"`
	Status      enums.ProductStatus     `gorm:"column:status;not null;default:'pending';index" json:"status"`
	ViewsCount  int                     `gorm:"column:views_count;not null;default:0" json:"views_count"`
	Owner       *User                   `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
