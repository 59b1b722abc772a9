package models

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors minimal profile state for an identity-provider subject. The
// primary key is the provider's subject id, not locally generated.
type User struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;not null" json:"name"`
	Email        string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	AvatarURL    *string   `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	UniversityID *string   `gorm:"column:university_id" json:"university_id,omitempty"`
	Bio          *string   `gorm:"column:bio" json:"bio,omitempty"`
	IsAdmin      bool      `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	IsBlocked    bool      `gorm:"column:is_blocked;not null;default:false" json:"is_blocked"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
