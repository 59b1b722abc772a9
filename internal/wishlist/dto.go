package wishlist

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusmart/campusmart-backend/internal/products"
	"github.com/campusmart/campusmart-backend/pkg/db/models"
)

// ItemDTO is one saved listing on a user's wishlist.
type ItemDTO struct {
	ID        uuid.UUID            `json:"id"`
	Product   *products.ProductDTO `json:"product,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// ListDTO is a cursor-paginated page of wishlist items.
type ListDTO struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

func itemFromModel(item *models.WishlistItem) ItemDTO {
	return ItemDTO{
		ID:        item.ID,
		Product:   products.FromModel(item.Product),
		CreatedAt: item.CreatedAt,
	}
}
