package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusmart/campusmart-backend/internal/products"
	"github.com/campusmart/campusmart-backend/pkg/db/models"
	"github.com/campusmart/campusmart-backend/pkg/enums"
	pkgerrors "github.com/campusmart/campusmart-backend/pkg/errors"
	"github.com/campusmart/campusmart-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order lifecycle operations.
type Service interface {
	Create(ctx context.Context, buyer *models.User, productID uuid.UUID) (*OrderDTO, error)
	Get(ctx context.Context, orderID uuid.UUID, requester *models.User) (*OrderDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListDTO, error)
	AdminList(ctx context.Context, params pagination.Params, filters AdminFilters) (*OrderListDTO, error)
	AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
}

type service struct {
	repo     Repository
	products *products.Repository
	tx       txRunner
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, productsRepo *products.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders repository is required")
	}
	if productsRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "products repository is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	return &service{repo: repo, products: productsRepo, tx: tx}, nil
}

// Create places an order against an available listing. The product row is
// claimed under a row lock so two buyers cannot both pass the availability
// check, and the price is snapshotted into the order.
func (s *service) Create(ctx context.Context, buyer *models.User, productID uuid.UUID) (*OrderDTO, error) {
	if buyer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer is required")
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		product, err := s.products.WithTx(tx).FindByIDForUpdate(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if product.Status != enums.ProductStatusAvailable {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product is not available")
		}
		if product.UserID == buyer.ID {
			return pkgerrors.New(pkgerrors.CodeInvalidOperation, "you cannot order your own listing")
		}

		pid := product.ID
		order := &models.Order{
			ID:               uuid.New(),
			ProductID:        &pid,
			BuyerID:          buyer.ID,
			SellerID:         product.UserID,
			Status:           enums.OrderStatusPlaced,
			TotalAmountCents: product.PriceCents,
			PaymentStatus:    enums.PaymentStatusPending,
		}
		created, err = s.repo.WithTx(tx).Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, created.ID, nil)
}

// Get returns one order with its associations. Only the buyer, the seller,
// or an admin may read it; a nil requester is a trusted internal caller.
func (s *service) Get(ctx context.Context, orderID uuid.UUID, requester *models.User) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if requester != nil {
		isParty := requester.ID == order.BuyerID || requester.ID == order.SellerID
		if !isParty && !requester.IsAdmin {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you are not a party to this order")
		}
	}
	return FromModel(order), nil
}

// ListForUser returns orders where the user is buyer or seller, newest first.
func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListDTO, error) {
	rows, nextCursor, err := s.repo.ListForUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return pageDTO(rows, nextCursor), nil
}

// AdminList returns all orders matching the typed filters.
func (s *service) AdminList(ctx context.Context, params pagination.Params, filters AdminFilters) (*OrderListDTO, error) {
	rows, nextCursor, err := s.repo.ListAdmin(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return pageDTO(rows, nextCursor), nil
}

// AdminUpdateStatus moves the delivery lifecycle forward or cancels it.
func (s *service) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "order cannot move to the requested status").
			WithDetails(map[string]string{"from": order.Status.String(), "to": status.String()})
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return s.Get(ctx, orderID, nil)
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func pageDTO(rows []models.Order, nextCursor string) *OrderListDTO {
	items := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &OrderListDTO{Items: items, NextCursor: nextCursor}
}
