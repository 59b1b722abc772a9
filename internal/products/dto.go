package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusmart/campusmart-backend/internal/users"
	"github.com/campusmart/campusmart-backend/pkg/db/models"
	"github.com/campusmart/campusmart-backend/pkg/enums"
	"github.com/campusmart/campusmart-backend/pkg/types"
)

// ProductDTO is the transport shape for a listing.
type ProductDTO struct {
	ID          uuid.UUID               `json:"id"`
	Title       string                  `json:"title"`
	Slug        string                  `json:"slug"`
	Description *string                 `json:"description,omitempty"`
	PriceCents  int                     `json:"price_cents"`
	Currency    string                  `json:"currency"`
	Category    *string                 `json:"category,omitempty"`
	Condition   *enums.ProductCondition `json:"condition,omitempty"`
	Images      types.StringList        `json:"images"`
	Location    *string                 `json:"location,omitempty"`
	Status      enums.ProductStatus     `json:"status"`
	ViewsCount  int                     `json:"views_count"`
	Owner       *users.PublicUserDTO    `json:"owner,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// ProductListDTO is a cursor-paginated page of listings.
type ProductListDTO struct {
	Items      []ProductDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// CreateProductInput carries the fields a seller supplies for a new listing.
type CreateProductInput struct {
	Title       string   `json:"title" validate:"required,min=3,max=140"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	PriceCents  int      `json:"price_cents" validate:"required,gt=0"`
	Currency    string   `json:"currency" validate:"omitempty,len=3"`
	Category    *string  `json:"category" validate:"omitempty,max=64"`
	Condition   *string  `json:"condition" validate:"omitempty"`
	Images      []string `json:"images" validate:"omitempty,max=8,dive,url"`
	Location    *string  `json:"location" validate:"omitempty,max=140"`
}

// UpdateProductInput carries optional listing mutations.
type UpdateProductInput struct {
	Title       *string  `json:"title" validate:"omitempty,min=3,max=140"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	PriceCents  *int     `json:"price_cents" validate:"omitempty,gt=0"`
	Category    *string  `json:"category" validate:"omitempty,max=64"`
	Condition   *string  `json:"condition" validate:"omitempty"`
	Images      []string `json:"images" validate:"omitempty,max=8,dive,url"`
	Location    *string  `json:"location" validate:"omitempty,max=140"`
}

// FromModel maps a persisted product onto its transport shape.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Currency:    p.Currency,
		Category:    p.Category,
		Condition:   p.Condition,
		Images:      p.Images,
		Location:    p.Location,
		Status:      p.Status,
		ViewsCount:  p.ViewsCount,
		Owner:       users.PublicFromModel(p.Owner),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
