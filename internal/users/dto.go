package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/campusmart/campusmart-backend/pkg/db/models"
)

// UserDTO is the transport shape for a marketplace user.
type UserDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	AvatarURL    *string   `json:"avatar_url,omitempty"`
	UniversityID *string   `json:"university_id,omitempty"`
	Bio          *string   `json:"bio,omitempty"`
	IsAdmin      bool      `json:"is_admin"`
	IsBlocked    bool      `json:"is_blocked"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUserDTO is the view other users see, without account flags.
type PublicUserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserListDTO is a cursor-paginated page of users for the admin surface.
type UserListDTO struct {
	Items      []UserDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// SyncInput carries the profile fields a client may supply at first sign-in.
type SyncInput struct {
	Name         string  `json:"name" validate:"omitempty,min=1,max=120"`
	AvatarURL    *string `json:"avatar_url" validate:"omitempty,url"`
	UniversityID *string `json:"university_id" validate:"omitempty,max=64"`
}

// UpdateProfileInput carries optional profile mutations.
type UpdateProfileInput struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=120"`
	AvatarURL    *string `json:"avatar_url" validate:"omitempty,url"`
	UniversityID *string `json:"university_id" validate:"omitempty,max=64"`
	Bio          *string `json:"bio" validate:"omitempty,max=500"`
}

// FromModel maps a persisted user onto its transport shape.
func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		AvatarURL:    u.AvatarURL,
		UniversityID: u.UniversityID,
		Bio:          u.Bio,
		IsAdmin:      u.IsAdmin,
		IsBlocked:    u.IsBlocked,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// PublicFromModel maps a user onto the view exposed to other users.
func PublicFromModel(u *models.User) *PublicUserDTO {
	if u == nil {
		return nil
	}
	return &PublicUserDTO{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}
