package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campusmart/campusmart-backend/pkg/db/models"
	"github.com/campusmart/campusmart-backend/pkg/enums"
	"github.com/campusmart/campusmart-backend/pkg/pagination"
)

// SortOrder names the supported public listing sort modes.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

// PublicFilters are the typed query inputs for the public catalog listing.
type PublicFilters struct {
	Query         string
	Category      string
	Condition     *enums.ProductCondition
	MinPriceCents *int
	MaxPriceCents *int
	Sort          SortOrder
}

// Repository exposes product persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new listing.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a listing with its owner.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Owner").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate loads a listing under a row lock. Callers must run inside
// a transaction. SQLite has no row locks and serializes on the database lock,
// so the clause is skipped there.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var product models.Product
	if err := query.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListPublic returns available listings matching the typed filters.
func (r *Repository) ListPublic(ctx context.Context, params pagination.Params, filters PublicFilters) ([]models.Product, string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Owner").
		Where("status = ?", enums.ProductStatusAvailable)

	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.Condition != nil {
		query = query.Where("condition = ?", *filters.Condition)
	}
	if filters.MinPriceCents != nil {
		query = query.Where("price_cents >= ?", *filters.MinPriceCents)
	}
	if filters.MaxPriceCents != nil {
		query = query.Where("price_cents <= ?", *filters.MaxPriceCents)
	}

	switch filters.Sort {
	case SortPriceAsc:
		return r.pageByPrice(query, params, true)
	case SortPriceDesc:
		return r.pageByPrice(query, params, false)
	}
	return r.pageByCreatedAt(query, params)
}

// ListByOwner returns every listing a seller owns, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) ([]models.Product, string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("user_id = ?", ownerID)
	return r.pageByCreatedAt(query, params)
}

// ListByStatus returns listings in a given moderation state for the admin queue.
func (r *Repository) ListByStatus(ctx context.Context, status enums.ProductStatus, params pagination.Params) ([]models.Product, string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Owner").
		Where("status = ?", status)
	return r.pageByCreatedAt(query, params)
}

func (r *Repository) pageByCreatedAt(query *gorm.DB, params pagination.Params) ([]models.Product, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	rows, hasMore := pagination.TrimPage(rows, params.Limit)
	nextCursor := ""
	if hasMore {
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

// pageByPrice keysets on (price_cents, id) so price-sorted pages neither
// repeat nor skip rows when listings share a price.
func (r *Repository) pageByPrice(query *gorm.DB, params pagination.Params, ascending bool) ([]models.Product, string, error) {
	cursor, err := pagination.ParseKeyCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		if ascending {
			query = query.Where("(price_cents > ?) OR (price_cents = ? AND id < ?)", cursor.Key, cursor.Key, cursor.ID)
		} else {
			query = query.Where("(price_cents < ?) OR (price_cents = ? AND id < ?)", cursor.Key, cursor.Key, cursor.ID)
		}
	}

	priceOrder := "price_cents ASC"
	if !ascending {
		priceOrder = "price_cents DESC"
	}

	var rows []models.Product
	err = query.
		Order(priceOrder).
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	rows, hasMore := pagination.TrimPage(rows, params.Limit)
	nextCursor := ""
	if hasMore {
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeKeyCursor(pagination.KeyCursor{Key: int64(last.PriceCents), ID: last.ID})
	}
	return rows, nextCursor, nil
}

// IncrementViews bumps the listing's view counter without racing readers.
func (r *Repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).
		Error
}

// Update applies the given column updates to a listing.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

// UpdateStatusIf flips a listing's status only when it still holds the
// expected current value. Returns false when another writer got there first.
func (r *Repository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to enums.ProductStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a listing.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// Count reports the total number of listings.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// CountByStatus reports listings in a given moderation state.
func (r *Repository) CountByStatus(ctx context.Context, status enums.ProductStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
