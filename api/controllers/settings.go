package controllers

import (
	"net/http"

	"github.com/angelmondragon/wardrop-backend/api/responses"
	"github.com/angelmondragon/wardrop-backend/api/validators"
	"github.com/angelmondragon/wardrop-backend/internal/settings"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
)

// SettingsGet serves both the authenticated and the public read.
func SettingsGet(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings.NewSettingsDTO(row))
	}
}

func SettingsUpdate(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body settings.UpdateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := svc.Update(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings.NewSettingsDTO(row))
	}
}

// SettingsUploadLogo replaces the brand logo with the "logo" form file.
func SettingsUploadLogo(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseMultipart(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		uploads, err := formUploads(r, "logo")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(uploads) == 0 {
			responses.WriteError(r.Context(), logg, w, missingFiles("logo"))
			return
		}

		row, err := svc.UploadLogo(r.Context(), uploads[0])
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings.NewSettingsDTO(row))
	}
}

func SettingsDeleteLogo(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		row, err := svc.DeleteLogo(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings.NewSettingsDTO(row))
	}
}
