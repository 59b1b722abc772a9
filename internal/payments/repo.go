package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusmart/campusmart-backend/pkg/db/models"
	"github.com/campusmart/campusmart-backend/pkg/enums"
)

// Repository defines persistence operations for payment transactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, txn *models.PaymentTransaction) (*models.PaymentTransaction, error)
	// FindLatestByGatewayOrderID returns the newest attempt row; re-initiated
	// checkouts leave stale created rows behind as audit records.
	FindLatestByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.PaymentTransaction, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	// MarkStatusUnlessPaid updates the attempt status but never demotes a
	// paid row.
	MarkStatusUnlessPaid(ctx context.Context, id uuid.UUID, status enums.TransactionStatus, updates map[string]any) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, txn *models.PaymentTransaction) (*models.PaymentTransaction, error) {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *repository) FindLatestByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("gateway_order_id = ?", gatewayOrderID).
		Order("created_at DESC").
		Order("id DESC").
		First(&txn).Error
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.PaymentTransaction{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

func (r *repository) MarkStatusUnlessPaid(ctx context.Context, id uuid.UUID, status enums.TransactionStatus, updates map[string]any) (bool, error) {
	values := map[string]any{"status": status}
	for k, v := range updates {
		values[k] = v
	}
	result := r.db.WithContext(ctx).
		Model(&models.PaymentTransaction{}).
		Where("id = ? AND status <> ?", id, enums.TransactionStatusPaid).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
