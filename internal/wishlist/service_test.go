package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campusmart/campusmart-backend/internal/products"
	"github.com/campusmart/campusmart-backend/pkg/db/models"
	"github.com/campusmart/campusmart-backend/pkg/enums"
	pkgerrors "github.com/campusmart/campusmart-backend/pkg/errors"
	"github.com/campusmart/campusmart-backend/pkg/pagination"
)

func setupWishlistTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  avatar_url TEXT,
  university_id TEXT,
  bio TEXT,
  is_admin INTEGER NOT NULL DEFAULT 0,
  is_blocked INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  title TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  price_cents INTEGER NOT NULL,
  currency TEXT NOT NULL DEFAULT 'INR',
  category TEXT,
  condition TEXT,
  images TEXT NOT NULL DEFAULT '[]',
  location TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  views_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS wishlist_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME,
  CONSTRAINT wishlist_items_user_product_key UNIQUE (user_id, product_id)
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type wishlistFixture struct {
	db      *gorm.DB
	svc     Service
	user    *models.User
	seller  *models.User
	product *models.Product
}

func newWishlistFixture(t *testing.T) *wishlistFixture {
	t.Helper()
	db := setupWishlistTestDB(t)

	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(db),
		Products: products.NewRepository(db),
	})
	require.NoError(t, err)

	seller := &models.User{ID: uuid.New(), Name: "Seller", Email: uuid.NewString() + "@uni.edu"}
	user := &models.User{ID: uuid.New(), Name: "Buyer", Email: uuid.NewString() + "@uni.edu"}
	require.NoError(t, db.Create(seller).Error)
	require.NoError(t, db.Create(user).Error)

	product := &models.Product{
		ID:         uuid.New(),
		UserID:     seller.ID,
		Title:      "Calculus Textbook",
		Slug:       "calculus-textbook-" + uuid.NewString()[:8],
		PriceCents: 45000,
		Currency:   "INR",
		Status:     enums.ProductStatusAvailable,
	}
	require.NoError(t, db.Create(product).Error)

	return &wishlistFixture{db: db, svc: svc, user: user, seller: seller, product: product}
}

func TestAddAndList(t *testing.T) {
	f := newWishlistFixture(t)
	ctx := context.Background()

	item, err := f.svc.Add(ctx, f.user.ID, f.product.ID)
	require.NoError(t, err)
	require.NotNil(t, item.Product)
	assert.Equal(t, f.product.ID, item.Product.ID)

	page, err := f.svc.List(ctx, f.user.ID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].Product)
	assert.Equal(t, "Calculus Textbook", page.Items[0].Product.Title)
	require.NotNil(t, page.Items[0].Product.Owner)
	assert.Equal(t, f.seller.ID, page.Items[0].Product.Owner.ID)
	assert.Empty(t, page.NextCursor)
}

func TestAddRejectsMissingProduct(t *testing.T) {
	f := newWishlistFixture(t)

	_, err := f.svc.Add(context.Background(), f.user.ID, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestAddRejectsDuplicate(t *testing.T) {
	f := newWishlistFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, f.user.ID, f.product.ID)
	require.NoError(t, err)

	_, err = f.svc.Add(ctx, f.user.ID, f.product.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	var count int64
	require.NoError(t, f.db.Model(&models.WishlistItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRemove(t *testing.T) {
	f := newWishlistFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, f.user.ID, f.product.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Remove(ctx, f.user.ID, f.product.ID))

	err = f.svc.Remove(ctx, f.user.ID, f.product.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListPaginates(t *testing.T) {
	f := newWishlistFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		product := &models.Product{
			ID:         uuid.New(),
			UserID:     f.seller.ID,
			Title:      "Listing",
			Slug:       "listing-" + uuid.NewString()[:8],
			PriceCents: 1000,
			Currency:   "INR",
			Status:     enums.ProductStatusAvailable,
		}
		require.NoError(t, f.db.Create(product).Error)
		_, err := f.svc.Add(ctx, f.user.ID, product.ID)
		require.NoError(t, err)
	}

	first, err := f.svc.List(ctx, f.user.ID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, first.Items, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := f.svc.List(ctx, f.user.ID, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	assert.Len(t, second.Items, 1)
	assert.Empty(t, second.NextCursor)
}
