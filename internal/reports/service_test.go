package reports

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campusmart/campusmart-backend/internal/products"
	"github.com/campusmart/campusmart-backend/pkg/db/models"
	"github.com/campusmart/campusmart-backend/pkg/enums"
	pkgerrors "github.com/campusmart/campusmart-backend/pkg/errors"
	"github.com/campusmart/campusmart-backend/pkg/logger"
	"github.com/campusmart/campusmart-backend/pkg/pagination"
)

type stubLimiter struct {
	allowed bool
	count   int64
	calls   int
}

func (s *stubLimiter) FixedWindowAllow(_ context.Context, _ string, _ int64, _ time.Duration) (bool, int64, error) {
	s.calls++
	s.count++
	return s.allowed, s.count, nil
}

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func setupReportsTestDB(t *testing.T) *gorm.DB {
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
CREATE TABLE IF NOT EXISTS reports (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  reported_by TEXT,
  reason TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'open',
  created_at DATETIME,
  resolved_at DATETIME,
  resolved_by TEXT
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type reportsFixture struct {
	db       *gorm.DB
	svc      Service
	limiter  *stubLimiter
	reporter *models.User
	admin    *models.User
	product  *models.Product
}

func newReportsFixture(t *testing.T) *reportsFixture {
	t.Helper()
	db := setupReportsTestDB(t)
	limiter := &stubLimiter{allowed: true}

	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(db),
		Products: products.NewRepository(db),
		Tx:       gormTxRunner{db: db},
		Limiter:  limiter,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)

	seller := &models.User{ID: uuid.New(), Name: "Seller", Email: uuid.NewString() + "@uni.edu"}
	reporter := &models.User{ID: uuid.New(), Name: "Reporter", Email: uuid.NewString() + "@uni.edu"}
	admin := &models.User{ID: uuid.New(), Name: "Admin", Email: uuid.NewString() + "@uni.edu", IsAdmin: true}
	require.NoError(t, db.Create(seller).Error)
	require.NoError(t, db.Create(reporter).Error)
	require.NoError(t, db.Create(admin).Error)

	product := &models.Product{
		ID:         uuid.New(),
		UserID:     seller.ID,
		Title:      "Suspicious Listing",
		Slug:       "suspicious-listing-" + uuid.NewString()[:8],
		PriceCents: 100,
		Currency:   "INR",
		Status:     enums.ProductStatusAvailable,
	}
	require.NoError(t, db.Create(product).Error)

	return &reportsFixture{db: db, svc: svc, limiter: limiter, reporter: reporter, admin: admin, product: product}
}

func TestCreateReport(t *testing.T) {
	f := newReportsFixture(t)

	report, err := f.svc.Create(context.Background(), f.reporter.ID, CreateReportInput{
		ProductID: f.product.ID,
		Reason:    "counterfeit goods",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.ReportStatusOpen, report.Status)
	assert.Equal(t, f.product.ID, report.ProductID)
	require.NotNil(t, report.Reporter)
	assert.Equal(t, 1, f.limiter.calls)
}

func TestCreateReportRejectsMissingProduct(t *testing.T) {
	f := newReportsFixture(t)

	_, err := f.svc.Create(context.Background(), f.reporter.ID, CreateReportInput{
		ProductID: uuid.New(),
		Reason:    "counterfeit goods",
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateReportRateLimited(t *testing.T) {
	f := newReportsFixture(t)
	f.limiter.allowed = false

	_, err := f.svc.Create(context.Background(), f.reporter.ID, CreateReportInput{
		ProductID: f.product.ID,
		Reason:    "counterfeit goods",
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidOperation))

	var count int64
	require.NoError(t, f.db.Model(&models.Report{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestResolveRemovePullsListing(t *testing.T) {
	f := newReportsFixture(t)
	ctx := context.Background()

	report, err := f.svc.Create(ctx, f.reporter.ID, CreateReportInput{
		ProductID: f.product.ID,
		Reason:    "counterfeit goods",
	})
	require.NoError(t, err)

	resolved, err := f.svc.Resolve(ctx, f.admin.ID, report.ID, ResolveReportInput{Action: ActionRemove})
	require.NoError(t, err)
	assert.Equal(t, enums.ReportStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedBy)
	assert.Equal(t, f.admin.ID, *resolved.ResolvedBy)
	assert.NotNil(t, resolved.ResolvedAt)

	var product models.Product
	require.NoError(t, f.db.First(&product, "id = ?", f.product.ID).Error)
	assert.Equal(t, enums.ProductStatusRejected, product.Status)
}

func TestResolveDismissLeavesListing(t *testing.T) {
	f := newReportsFixture(t)
	ctx := context.Background()

	report, err := f.svc.Create(ctx, f.reporter.ID, CreateReportInput{
		ProductID: f.product.ID,
		Reason:    "spam",
	})
	require.NoError(t, err)

	resolved, err := f.svc.Resolve(ctx, f.admin.ID, report.ID, ResolveReportInput{Action: ActionDismiss})
	require.NoError(t, err)
	assert.Equal(t, enums.ReportStatusRejected, resolved.Status)

	var product models.Product
	require.NoError(t, f.db.First(&product, "id = ?", f.product.ID).Error)
	assert.Equal(t, enums.ProductStatusAvailable, product.Status)
}

func TestResolveTwiceFails(t *testing.T) {
	f := newReportsFixture(t)
	ctx := context.Background()

	report, err := f.svc.Create(ctx, f.reporter.ID, CreateReportInput{
		ProductID: f.product.ID,
		Reason:    "spam",
	})
	require.NoError(t, err)

	_, err = f.svc.Resolve(ctx, f.admin.ID, report.ID, ResolveReportInput{Action: ActionDismiss})
	require.NoError(t, err)

	_, err = f.svc.Resolve(ctx, f.admin.ID, report.ID, ResolveReportInput{Action: ActionRemove})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidOperation))
}

func TestAdminListFiltersByStatus(t *testing.T) {
	f := newReportsFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.reporter.ID, CreateReportInput{ProductID: f.product.ID, Reason: "spam"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.reporter.ID, CreateReportInput{ProductID: f.product.ID, Reason: "scam"})
	require.NoError(t, err)

	_, err = f.svc.Resolve(ctx, f.admin.ID, first.ID, ResolveReportInput{Action: ActionDismiss})
	require.NoError(t, err)

	open := enums.ReportStatusOpen
	page, err := f.svc.AdminList(ctx, &open, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "scam", page.Items[0].Reason)
	require.NotNil(t, page.Items[0].Product)

	all, err := f.svc.AdminList(ctx, nil, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}
