package reports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusmart/campusmart-backend/internal/products"
	"github.com/campusmart/campusmart-backend/pkg/db/models"
	"github.com/campusmart/campusmart-backend/pkg/enums"
	pkgerrors "github.com/campusmart/campusmart-backend/pkg/errors"
	"github.com/campusmart/campusmart-backend/pkg/logger"
	"github.com/campusmart/campusmart-backend/pkg/pagination"
)

// Each reporter gets a fixed window of complaints so one account cannot
// flood the moderation queue.
const (
	rateLimitMax    = 5
	rateLimitWindow = time.Hour
)

// rateLimiter is the slice of the redis client the service consumes. A nil
// limiter disables the check.
type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the reports service.
type ServiceParams struct {
	Repo     *Repository
	Products *products.Repository
	Tx       txRunner
	Limiter  rateLimiter
	Logger   *logger.Logger
}

// Service exposes complaint intake and the admin moderation flow.
type Service interface {
	Create(ctx context.Context, reporterID uuid.UUID, input CreateReportInput) (*ReportDTO, error)
	AdminList(ctx context.Context, status *enums.ReportStatus, params pagination.Params) (*ReportListDTO, error)
	Resolve(ctx context.Context, adminID, reportID uuid.UUID, input ResolveReportInput) (*ReportDTO, error)
}

type service struct {
	repo     *Repository
	products *products.Repository
	tx       txRunner
	limiter  rateLimiter
	logger   *logger.Logger
}

// NewService builds a reports service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reports repository is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "products repository is required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:     params.Repo,
		products: params.Products,
		tx:       params.Tx,
		limiter:  params.Limiter,
		logger:   params.Logger,
	}, nil
}

// Create files a complaint against a listing.
func (s *service) Create(ctx context.Context, reporterID uuid.UUID, input CreateReportInput) (*ReportDTO, error) {
	if s.limiter != nil {
		allowed, count, err := s.limiter.FixedWindowAllow(ctx, "reports:"+reporterID.String(), rateLimitMax, rateLimitWindow)
		if err != nil {
			// Moderation intake stays open when redis is down.
			s.logger.Warn(s.logger.WithUserID(ctx, reporterID.String()), "report rate limit check failed")
		} else if !allowed {
			s.logger.Warn(s.logger.WithField(ctx, "report_count", count), "report rate limit hit")
			return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "too many reports, try again later")
		}
	}

	if _, err := s.products.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	rid := reporterID
	report := &models.Report{
		ID:         uuid.New(),
		ProductID:  input.ProductID,
		ReportedBy: &rid,
		Reason:     input.Reason,
		Status:     enums.ReportStatusOpen,
	}
	if _, err := s.repo.Create(ctx, report); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save report")
	}
	return FromModel(report), nil
}

// AdminList returns the moderation queue, optionally narrowed to one status.
func (s *service) AdminList(ctx context.Context, status *enums.ReportStatus, params pagination.Params) (*ReportListDTO, error) {
	rows, nextCursor, err := s.repo.List(ctx, status, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reports")
	}
	items := make([]ReportDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &ReportListDTO{Items: items, NextCursor: nextCursor}, nil
}

// Resolve closes an open report. A remove decision also pulls the listing
// from the catalog; dismissal leaves the product untouched.
func (s *service) Resolve(ctx context.Context, adminID, reportID uuid.UUID, input ResolveReportInput) (*ReportDTO, error) {
	report, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "report not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load report")
	}

	outcome := enums.ReportStatusRejected
	if input.Action == ActionRemove {
		outcome = enums.ReportStatusResolved
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		closed, err := s.repo.WithTx(tx).MarkResolvedIfOpen(ctx, reportID, outcome, adminID, time.Now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve report")
		}
		if !closed {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "report is already resolved")
		}
		if input.Action == ActionRemove {
			if err := s.products.WithTx(tx).Update(ctx, report.ProductID, map[string]any{
				"status": enums.ProductStatusRejected,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove reported product")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resolved, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload report")
	}
	return FromModel(resolved), nil
}
