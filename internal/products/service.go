package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusmart/campusmart-backend/pkg/db/models"
	"github.com/campusmart/campusmart-backend/pkg/enums"
	pkgerrors "github.com/campusmart/campusmart-backend/pkg/errors"
	"github.com/campusmart/campusmart-backend/pkg/pagination"
	"github.com/campusmart/campusmart-backend/pkg/types"
)

// ServiceParams groups dependencies for the products service.
type ServiceParams struct {
	Repo *Repository
}

// Service exposes listing lifecycle operations.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID, viewer *models.User) (*ProductDTO, error)
	ListPublic(ctx context.Context, params pagination.Params, filters PublicFilters) (*ProductListDTO, error)
	ListMine(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*ProductListDTO, error)
	Update(ctx context.Context, actor *models.User, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, actor *models.User, id uuid.UUID) error
	AdminList(ctx context.Context, status *enums.ProductStatus, params pagination.Params) (*ProductListDTO, error)
	AdminReview(ctx context.Context, id uuid.UUID, approve bool) (*ProductDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a products service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "products repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// Create registers a new listing in the moderation queue.
func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	condition, err := parseConditionPtr(input.Condition)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "INR"
	}

	product := &models.Product{
		ID:          uuid.New(),
		UserID:      ownerID,
		Title:       input.Title,
		Slug:        makeSlug(input.Title),
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Currency:    currency,
		Category:    input.Category,
		Condition:   condition,
		Images:      types.StringList(input.Images),
		Location:    input.Location,
		Status:      enums.ProductStatusPending,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return FromModel(created), nil
}

// Get returns one listing and counts the view. Listings still in moderation
// are only visible to their owner or an admin.
func (s *service) Get(ctx context.Context, id uuid.UUID, viewer *models.User) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	isOwner := viewer != nil && viewer.ID == product.UserID
	isAdmin := viewer != nil && viewer.IsAdmin
	if product.Status == enums.ProductStatusPending || product.Status == enums.ProductStatusRejected {
		if !isOwner && !isAdmin {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
	}

	if !isOwner {
		if err := s.repo.IncrementViews(ctx, id); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count view")
		}
		product.ViewsCount++
	}
	return FromModel(product), nil
}

// ListPublic returns the available catalog filtered by the typed inputs.
func (s *service) ListPublic(ctx context.Context, params pagination.Params, filters PublicFilters) (*ProductListDTO, error) {
	rows, nextCursor, err := s.repo.ListPublic(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return pageDTO(rows, nextCursor), nil
}

// ListMine returns all of the seller's own listings, any status.
func (s *service) ListMine(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*ProductListDTO, error) {
	rows, nextCursor, err := s.repo.ListByOwner(ctx, ownerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list own products")
	}
	return pageDTO(rows, nextCursor), nil
}

// Update applies listing mutations for the owner or an admin. Sold listings
// are immutable.
func (s *service) Update(ctx context.Context, actor *models.User, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrAdmin(actor, product); err != nil {
		return nil, err
	}
	if product.Status == enums.ProductStatusSold {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "sold listings cannot be edited")
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.PriceCents != nil {
		updates["price_cents"] = *input.PriceCents
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Condition != nil {
		condition, err := parseConditionPtr(input.Condition)
		if err != nil {
			return nil, err
		}
		updates["condition"] = condition
	}
	if input.Images != nil {
		updates["images"] = types.StringList(input.Images)
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	product, err = s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

// Delete removes a listing for the owner or an admin.
func (s *service) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwnerOrAdmin(actor, product); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// AdminList returns the moderation queue, optionally filtered by status.
func (s *service) AdminList(ctx context.Context, status *enums.ProductStatus, params pagination.Params) (*ProductListDTO, error) {
	target := enums.ProductStatusPending
	if status != nil {
		target = *status
	}
	rows, nextCursor, err := s.repo.ListByStatus(ctx, target, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products by status")
	}
	return pageDTO(rows, nextCursor), nil
}

// AdminReview settles a pending listing. Approval publishes it; rejection
// hides it. Reviewing a non-pending listing is an invalid operation.
func (s *service) AdminReview(ctx context.Context, id uuid.UUID, approve bool) (*ProductDTO, error) {
	target := enums.ProductStatusAvailable
	if !approve {
		target = enums.ProductStatusRejected
	}

	claimed, err := s.repo.UpdateStatusIf(ctx, id, enums.ProductStatusPending, target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "review product")
	}
	if !claimed {
		if _, err := s.loadProduct(ctx, id); err != nil {
			return nil, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "product is not awaiting review")
	}

	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func requireOwnerOrAdmin(actor *models.User, product *models.Product) error {
	if actor == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "actor is required")
	}
	if actor.ID != product.UserID && !actor.IsAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can manage this listing")
	}
	return nil
}

func parseConditionPtr(value *string) (*enums.ProductCondition, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	condition, err := enums.ParseProductCondition(*value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product condition")
	}
	return &condition, nil
}

func pageDTO(rows []models.Product, nextCursor string) *ProductListDTO {
	items := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &ProductListDTO{Items: items, NextCursor: nextCursor}
}
