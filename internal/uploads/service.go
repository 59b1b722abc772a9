package uploads

import (
	"context"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/campusmart/campusmart-backend/pkg/errors"
	"github.com/campusmart/campusmart-backend/pkg/storage/r2"
)

// Listing photos only. The extension is derived from the declared content
// type, never from a client-supplied filename.
var allowedContentTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// presigner is the slice of the storage client the service consumes.
type presigner interface {
	PresignPut(objectKey, contentType string) (*r2.PresignedUpload, error)
	MaxUploadBytes() int64
}

// SignUploadInput declares the object the client intends to upload.
type SignUploadInput struct {
	ContentType string `json:"content_type" validate:"required"`
}

// SignedUploadDTO is everything the client needs to PUT the object and then
// reference it from a listing.
type SignedUploadDTO struct {
	UploadURL    string            `json:"upload_url"`
	Method       string            `json:"method"`
	Headers      map[string]string `json:"headers"`
	ObjectKey    string            `json:"object_key"`
	PublicURL    string            `json:"public_url"`
	MaxSizeBytes int64             `json:"max_size_bytes"`
	ExpiresAt    time.Time         `json:"expires_at"`
}

// Service issues presigned upload URLs for listing images.
type Service interface {
	SignUpload(ctx context.Context, input SignUploadInput) (*SignedUploadDTO, error)
}

type service struct {
	storage presigner
}

// NewService builds an uploads service backed by the given storage client.
func NewService(storage presigner) (Service, error) {
	if storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage client is required")
	}
	return &service{storage: storage}, nil
}

// SignUpload validates the declared content type and returns a presigned PUT.
func (s *service) SignUpload(_ context.Context, input SignUploadInput) (*SignedUploadDTO, error) {
	ext, ok := allowedContentTypes[input.ContentType]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content type must be image/jpeg, image/png or image/webp")
	}

	objectKey := "products/" + uuid.NewString() + "." + ext
	upload, err := s.storage.PresignPut(objectKey, input.ContentType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "presign upload")
	}

	return &SignedUploadDTO{
		UploadURL:    upload.URL,
		Method:       upload.Method,
		Headers:      upload.Headers,
		ObjectKey:    objectKey,
		PublicURL:    upload.PublicURL,
		MaxSizeBytes: s.storage.MaxUploadBytes(),
		ExpiresAt:    upload.ExpiresAt,
	}, nil
}
