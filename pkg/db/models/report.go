package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusmart/campusmart-backend/pkg/enums"
)

// Report is a user-filed complaint against a listing.
type Report struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID  uuid.UUID          `gorm:"column:product_id;type:uuid;not null;index" json:"product_id"`
	ReportedBy *uuid.UUID         `gorm:"column:reported_by;type:uuid" json:"reported_by,omitempty"`
	Reason     string             `gorm:"column:reason;not null" json:"reason"`
	Status     enums.ReportStatus `gorm:"column:status;not null;default:'open'" json:"status"`
	Product    *Product           `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Reporter   *User              `gorm:"foreignKey:ReportedBy" json:"reporter,omitempty"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	ResolvedAt *time.Time         `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	ResolvedBy *uuid.UUID         `gorm:"column:resolved_by;type:uuid" json:"resolved_by,omitempty"`
}
