package admin

import (
	"context"

	"github.com/campusmart/campusmart-backend/internal/orders"
	"github.com/campusmart/campusmart-backend/internal/products"
	"github.com/campusmart/campusmart-backend/internal/users"
	"github.com/campusmart/campusmart-backend/pkg/enums"
	pkgerrors "github.com/campusmart/campusmart-backend/pkg/errors"
)

// StatsDTO is the admin dashboard headline counters.
type StatsDTO struct {
	Users           int64 `json:"users"`
	Products        int64 `json:"products"`
	Orders          int64 `json:"orders"`
	PendingProducts int64 `json:"pending_products"`
	PaidOrders      int64 `json:"paid_orders"`
}

// ServiceParams groups dependencies for the admin stats service.
type ServiceParams struct {
	Users    *users.Repository
	Products *products.Repository
	Orders   orders.Repository
}

// Service aggregates counters across the marketplace for the admin dashboard.
type Service interface {
	Stats(ctx context.Context) (*StatsDTO, error)
}

type service struct {
	users    *users.Repository
	products *products.Repository
	orders   orders.Repository
}

// NewService builds an admin stats service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repository is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "products repository is required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repository is required")
	}
	return &service{users: params.Users, products: params.Products, orders: params.Orders}, nil
}

func (s *service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats := &StatsDTO{}

	counters := []struct {
		dest  *int64
		name  string
		count func(context.Context) (int64, error)
	}{
		{&stats.Users, "users", s.users.Count},
		{&stats.Products, "products", s.products.Count},
		{&stats.Orders, "orders", s.orders.Count},
		{&stats.PendingProducts, "pending products", func(ctx context.Context) (int64, error) {
			return s.products.CountByStatus(ctx, enums.ProductStatusPending)
		}},
		{&stats.PaidOrders, "paid orders", func(ctx context.Context) (int64, error) {
			return s.orders.CountByPaymentStatus(ctx, enums.PaymentStatusPaid)
		}},
	}

	for _, counter := range counters {
		value, err := counter.count(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count "+counter.name)
		}
		*counter.dest = value
	}
	return stats, nil
}
