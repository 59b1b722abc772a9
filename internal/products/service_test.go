package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campusmart/campusmart-backend/pkg/db/models"
	"github.com/campusmart/campusmart-backend/pkg/enums"
	pkgerrors "github.com/campusmart/campusmart-backend/pkg/errors"
	"github.com/campusmart/campusmart-backend/pkg/pagination"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
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
);`
	products := `
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
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, isAdmin bool) *models.User {
	t.Helper()
	user := &models.User{
		ID:      uuid.New(),
		Name:    "Seller",
		Email:   uuid.NewString() + "@uni.edu",
		IsAdmin: isAdmin,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newProductsService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: NewRepository(db)})
	require.NoError(t, err)
	return svc
}

func createListing(t *testing.T, svc Service, ownerID uuid.UUID, title string, priceCents int) *ProductDTO {
	t.Helper()
	dto, err := svc.Create(context.Background(), ownerID, CreateProductInput{
		Title:      title,
		PriceCents: priceCents,
	})
	require.NoError(t, err)
	return dto
}

func publish(t *testing.T, db *gorm.DB, id uuid.UUID) {
	t.Helper()
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", id).
		Update("status", enums.ProductStatusAvailable).Error)
}

func TestCreateStartsPendingWithSlug(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)
	owner := seedUser(t, db, false)

	dto := createListing(t, svc, owner.ID, "Calculus Textbook (9th Ed.)", 45000)
	assert.Equal(t, enums.ProductStatusPending, dto.Status)
	assert.Contains(t, dto.Slug, "calculus-textbook-9th-ed")
	assert.Equal(t, "INR", dto.Currency)
}

func TestCreateRejectsUnknownCondition(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)
	owner := seedUser(t, db, false)

	broken := "mint"
	_, err := svc.Create(context.Background(), owner.ID, CreateProductInput{
		Title:      "Lamp",
		PriceCents: 1000,
		Condition:  &broken,
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestGetVisibilityAndViewCount(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)
	ctx := context.Background()
	owner := seedUser(t, db, false)
	stranger := seedUser(t, db, false)
	admin := seedUser(t, db, true)

	dto := createListing(t, svc, owner.ID, "Desk", 20000)

	// pending listings hide from other users but not owner/admin
	_, err := svc.Get(ctx, dto.ID, stranger)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svc.Get(ctx, dto.ID, owner)
	require.NoError(t, err)
	_, err = svc.Get(ctx, dto.ID, admin)
	require.NoError(t, err)

	publish(t, db, dto.ID)

	seen, err := svc.Get(ctx, dto.ID, stranger)
	require.NoError(t, err)
	assert.Equal(t, 2, seen.ViewsCount) // admin view counted too

	mine, err := svc.Get(ctx, dto.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, 2, mine.ViewsCount) // owner views do not count
}

func TestListPublicFilters(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)
	ctx := context.Background()
	owner := seedUser(t, db, false)

	book := createListing(t, svc, owner.ID, "Linear Algebra Book", 30000)
	lamp := createListing(t, svc, owner.ID, "Desk Lamp", 8000)
	hidden := createListing(t, svc, owner.ID, "Unreviewed Couch", 90000)
	publish(t, db, book.ID)
	publish(t, db, lamp.ID)
	_ = hidden

	all, err := svc.ListPublic(ctx, pagination.Params{}, PublicFilters{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)

	matched, err := svc.ListPublic(ctx, pagination.Params{}, PublicFilters{Query: "algebra"})
	require.NoError(t, err)
	require.Len(t, matched.Items, 1)
	assert.Equal(t, book.ID, matched.Items[0].ID)

	maxPrice := 10000
	cheap, err := svc.ListPublic(ctx, pagination.Params{}, PublicFilters{MaxPriceCents: &maxPrice})
	require.NoError(t, err)
	require.Len(t, cheap.Items, 1)
	assert.Equal(t, lamp.ID, cheap.Items[0].ID)
}

func TestListPublicPriceSortPagesWithoutGaps(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)
	ctx := context.Background()
	owner := seedUser(t, db, false)

	// recency order deliberately disagrees with price order
	for i, price := range []int{100, 400, 200, 300} {
		dto := createListing(t, svc, owner.ID, "Listing", price)
		publish(t, db, dto.ID)
		require.NoError(t, db.Model(&models.Product{}).Where("id = ?", dto.ID).
			Update("created_at", time.Date(2026, 8, 1, 12, i, 0, 0, time.UTC)).Error)
	}

	first, err := svc.ListPublic(ctx, pagination.Params{Limit: 2}, PublicFilters{Sort: SortPriceAsc})
	require.NoError(t, err)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.ListPublic(ctx, pagination.Params{Limit: 2, Cursor: first.NextCursor}, PublicFilters{Sort: SortPriceAsc})
	require.NoError(t, err)
	assert.Empty(t, second.NextCursor)

	var prices []int
	for _, item := range append(first.Items, second.Items...) {
		prices = append(prices, item.PriceCents)
	}
	assert.Equal(t, []int{100, 200, 300, 400}, prices)

	desc, err := svc.ListPublic(ctx, pagination.Params{Limit: 3}, PublicFilters{Sort: SortPriceDesc})
	require.NoError(t, err)
	require.Len(t, desc.Items, 3)
	rest, err := svc.ListPublic(ctx, pagination.Params{Limit: 3, Cursor: desc.NextCursor}, PublicFilters{Sort: SortPriceDesc})
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Equal(t, 100, rest.Items[0].PriceCents)
}

func TestUpdateAuthorization(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)
	ctx := context.Background()
	owner := seedUser(t, db, false)
	stranger := seedUser(t, db, false)

	dto := createListing(t, svc, owner.ID, "Bike", 500000)

	newTitle := "Road Bike"
	_, err := svc.Update(ctx, stranger, dto.ID, UpdateProductInput{Title: &newTitle})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	updated, err := svc.Update(ctx, owner, dto.ID, UpdateProductInput{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Road Bike", updated.Title)

	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", dto.ID).
		Update("status", enums.ProductStatusSold).Error)
	_, err = svc.Update(ctx, owner, dto.ID, UpdateProductInput{Title: &newTitle})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidOperation))
}

func TestDeleteAuthorization(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)
	ctx := context.Background()
	owner := seedUser(t, db, false)
	stranger := seedUser(t, db, false)
	admin := seedUser(t, db, true)

	first := createListing(t, svc, owner.ID, "Chair", 5000)
	second := createListing(t, svc, owner.ID, "Table", 15000)

	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, stranger, first.ID), pkgerrors.CodeForbidden))
	require.NoError(t, svc.Delete(ctx, owner, first.ID))
	require.NoError(t, svc.Delete(ctx, admin, second.ID))

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestAdminReview(t *testing.T) {
	db := setupProductsTestDB(t)
	svc := newProductsService(t, db)
	ctx := context.Background()
	owner := seedUser(t, db, false)

	approved := createListing(t, svc, owner.ID, "Monitor", 70000)
	rejected := createListing(t, svc, owner.ID, "Broken Toaster", 1000)

	dto, err := svc.AdminReview(ctx, approved.ID, true)
	require.NoError(t, err)
	assert.Equal(t, enums.ProductStatusAvailable, dto.Status)

	dto, err = svc.AdminReview(ctx, rejected.ID, false)
	require.NoError(t, err)
	assert.Equal(t, enums.ProductStatusRejected, dto.Status)

	_, err = svc.AdminReview(ctx, approved.ID, true)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidOperation))

	_, err = svc.AdminReview(ctx, uuid.New(), true)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
