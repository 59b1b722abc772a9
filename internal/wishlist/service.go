package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusmart/campusmart-backend/internal/products"
	"github.com/campusmart/campusmart-backend/pkg/db/models"
	pkgerrors "github.com/campusmart/campusmart-backend/pkg/errors"
	"github.com/campusmart/campusmart-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Repo     *Repository
	Products *products.Repository
}

// Service exposes business rules for saved listings.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID) (*ItemDTO, error)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListDTO, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

type service struct {
	repo     *Repository
	products *products.Repository
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repository is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "products repository is required")
	}
	return &service{repo: params.Repo, products: params.Products}, nil
}

// Add saves a listing for later. The product must exist; saving the same
// product twice is a conflict.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) (*ItemDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	item := &models.WishlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
	}
	inserted, err := s.repo.Insert(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save wishlist item")
	}
	if !inserted {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product is already on the wishlist")
	}

	item.Product = product
	dto := itemFromModel(item)
	return &dto, nil
}

// List returns the user's wishlist newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListDTO, error) {
	rows, nextCursor, err := s.repo.List(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist items")
	}

	items := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		items = append(items, itemFromModel(&rows[i]))
	}
	return &ListDTO{Items: items, NextCursor: nextCursor}, nil
}

// Remove drops the saved listing if present.
func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	removed, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product is not on the wishlist")
	}
	return nil
}
