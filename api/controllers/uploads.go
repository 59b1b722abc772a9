package controllers

import (
	"net/http"

	"github.com/campusmart/campusmart-backend/api/responses"
	"github.com/campusmart/campusmart-backend/api/validators"
	uploadsvc "github.com/campusmart/campusmart-backend/internal/uploads"
	"github.com/campusmart/campusmart-backend/pkg/logger"
)

// UploadSign issues a presigned PUT URL for a listing image.
func UploadSign(svc uploadsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload uploadsvc.SignUploadInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		signed, err := svc.SignUpload(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, signed)
	}
}
