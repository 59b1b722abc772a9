package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusmart/campusmart-backend/pkg/db/models"
	"github.com/campusmart/campusmart-backend/pkg/enums"
	"github.com/campusmart/campusmart-backend/pkg/pagination"
)

// AdminFilters are the typed query inputs for the admin order listing.
type AdminFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	BuyerID       *uuid.UUID
	SellerID      *uuid.UUID
}

// Repository defines persistence operations for order rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, string, error)
	ListAdmin(ctx context.Context, params pagination.Params, filters AdminFilters) ([]models.Order, string, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	// MarkPaymentStatusIfPending is the single write path for payment state.
	// The WHERE payment_status='pending' guard makes racing confirm and
	// webhook writers commute.
	MarkPaymentStatusIfPending(ctx context.Context, id uuid.UUID, to enums.PaymentStatus) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountByPaymentStatus(ctx context.Context, status enums.PaymentStatus) (int64, error)
}
