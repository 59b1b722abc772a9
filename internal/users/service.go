package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusmart/campusmart-backend/pkg/db/models"
	pkgerrors "github.com/campusmart/campusmart-backend/pkg/errors"
	"github.com/campusmart/campusmart-backend/pkg/identity"
	"github.com/campusmart/campusmart-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the users service.
type ServiceParams struct {
	Repo *Repository
	// AllowedEmailDomain restricts sign-ups to one campus domain. Empty
	// disables the check.
	AllowedEmailDomain string
}

// Service exposes account lifecycle and profile operations.
type Service interface {
	Sync(ctx context.Context, ident identity.Identity, input SyncInput) (*UserDTO, error)
	EnsureUser(ctx context.Context, ident identity.Identity) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error)
	AdminList(ctx context.Context, params pagination.Params) (*UserListDTO, error)
	SetBlocked(ctx context.Context, actor *models.User, targetID uuid.UUID, blocked bool) (*UserDTO, error)
}

type service struct {
	repo          *Repository
	allowedDomain string
}

// NewService builds a users service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	return &service{
		repo:          params.Repo,
		allowedDomain: strings.ToLower(strings.TrimSpace(params.AllowedEmailDomain)),
	}, nil
}

// Sync creates or refreshes the local mirror row for a provider identity.
func (s *service) Sync(ctx context.Context, ident identity.Identity, input SyncInput) (*UserDTO, error) {
	if err := s.checkEmailDomain(ident.Email); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, ident.SubjectID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if existing == nil {
		user := &models.User{
			ID:           ident.SubjectID,
			Name:         firstNonEmpty(input.Name, nameFromEmail(ident.Email)),
			Email:        strings.ToLower(ident.Email),
			AvatarURL:    input.AvatarURL,
			UniversityID: input.UniversityID,
		}
		created, err := s.repo.Create(ctx, user)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
		return FromModel(created), nil
	}

	updates := map[string]any{}
	if input.Name != "" {
		updates["name"] = input.Name
	}
	if input.AvatarURL != nil {
		updates["avatar_url"] = *input.AvatarURL
	}
	if input.UniversityID != nil {
		updates["university_id"] = *input.UniversityID
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, existing.ID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
		}
		existing, err = s.repo.FindByID(ctx, existing.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload user")
		}
	}
	return FromModel(existing), nil
}

// EnsureUser returns the local row for a verified identity, provisioning it on
// first sight. Racing provisions fall back to the row the winner inserted.
func (s *service) EnsureUser(ctx context.Context, ident identity.Identity) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, ident.SubjectID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if err := s.checkEmailDomain(ident.Email); err != nil {
		return nil, err
	}

	created, createErr := s.repo.Create(ctx, &models.User{
		ID:    ident.SubjectID,
		Name:  nameFromEmail(ident.Email),
		Email: strings.ToLower(ident.Email),
	})
	if createErr == nil {
		return created, nil
	}

	user, err = s.repo.FindByID(ctx, ident.SubjectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "provision user")
	}
	return user, nil
}

// GetProfile returns the caller's own account view.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

// UpdateProfile applies the caller's profile mutations.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.AvatarURL != nil {
		updates["avatar_url"] = *input.AvatarURL
	}
	if input.UniversityID != nil {
		updates["university_id"] = *input.UniversityID
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if len(updates) == 0 {
		return s.GetProfile(ctx, userID)
	}

	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return s.GetProfile(ctx, userID)
}

// AdminList returns a paginated page of all users.
func (s *service) AdminList(ctx context.Context, params pagination.Params) (*UserListDTO, error) {
	rows, nextCursor, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	items := make([]UserDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return &UserListDTO{Items: items, NextCursor: nextCursor}, nil
}

// SetBlocked toggles a user's blocked flag. Admins cannot block themselves or
// other admins.
func (s *service) SetBlocked(ctx context.Context, actor *models.User, targetID uuid.UUID, blocked bool) (*UserDTO, error) {
	if actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor is required")
	}
	if actor.ID == targetID {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "cannot change your own blocked status")
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if target.IsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot block an admin account")
	}

	if err := s.repo.Update(ctx, targetID, map[string]any{"is_blocked": blocked}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update blocked flag")
	}
	return s.GetProfile(ctx, targetID)
}

func (s *service) checkEmailDomain(email string) error {
	if s.allowedDomain == "" {
		return nil
	}
	at := strings.LastIndex(email, "@")
	if at < 0 || !strings.EqualFold(email[at+1:], s.allowedDomain) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "registration is restricted to the campus email domain")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func nameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
