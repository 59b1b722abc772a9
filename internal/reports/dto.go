package reports

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusmart/campusmart-backend/internal/products"
	"github.com/campusmart/campusmart-backend/internal/users"
	"github.com/campusmart/campusmart-backend/pkg/db/models"
	"github.com/campusmart/campusmart-backend/pkg/enums"
)

// Resolution actions an admin can apply to an open report.
const (
	ActionDismiss = "dismiss"
	ActionRemove  = "remove"
)

// CreateReportInput carries a user complaint against a listing.
type CreateReportInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Reason    string    `json:"reason" validate:"required,min=5,max=1000"`
}

// ResolveReportInput records the admin's decision.
type ResolveReportInput struct {
	Action string `json:"action" validate:"required,oneof=dismiss remove"`
}

// ReportDTO is the transport shape for a report.
type ReportDTO struct {
	ID         uuid.UUID            `json:"id"`
	ProductID  uuid.UUID            `json:"product_id"`
	Product    *products.ProductDTO `json:"product,omitempty"`
	Reporter   *users.PublicUserDTO `json:"reporter,omitempty"`
	Reason     string               `json:"reason"`
	Status     enums.ReportStatus   `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
	ResolvedAt *time.Time           `json:"resolved_at,omitempty"`
	ResolvedBy *uuid.UUID           `json:"resolved_by,omitempty"`
}

// ReportListDTO is a cursor-paginated page of reports.
type ReportListDTO struct {
	Items      []ReportDTO `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// FromModel maps a persisted report onto its transport shape.
func FromModel(r *models.Report) *ReportDTO {
	if r == nil {
		return nil
	}
	return &ReportDTO{
		ID:         r.ID,
		ProductID:  r.ProductID,
		Product:    products.FromModel(r.Product),
		Reporter:   users.PublicFromModel(r.Reporter),
		Reason:     r.Reason,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
		ResolvedAt: r.ResolvedAt,
		ResolvedBy: r.ResolvedBy,
	}
}
