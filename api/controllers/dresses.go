package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/wardrop-backend/api/responses"
	"github.com/angelmondragon/wardrop-backend/api/validators"
	"github.com/angelmondragon/wardrop-backend/internal/dresses"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
)

func DressesList(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := validators.ParseQueryEnum(r, "status", enums.ParseAvailabilityStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		q := r.URL.Query()
		result, err := svc.List(r.Context(), dresses.ListParams{
			Search:   strings.TrimSpace(q.Get("search")),
			Status:   status,
			Category: strings.TrimSpace(q.Get("category")),
			Size:     strings.TrimSpace(q.Get("size")),
			Params:   page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagination.MapPage(result, dresses.NewDressDTOs))
	}
}

func DressesGet(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dress, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dresses.NewDressDTO(dress))
	}
}

// DressesCreate accepts a multipart form with the dress fields and any
// number of "images" files.
func DressesCreate(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseMultipart(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := dressCreateInputFromForm(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		uploads, err := formUploads(r, "images")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dress, err := svc.Create(r.Context(), input, uploads)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dresses.NewDressDTO(dress))
	}
}

func dressCreateInputFromForm(r *http.Request) (dresses.CreateInput, error) {
	rental, err := formDecimal(r, "rental_price")
	if err != nil {
		return dresses.CreateInput{}, err
	}
	deposit, err := formDecimal(r, "deposit_amount")
	if err != nil {
		return dresses.CreateInput{}, err
	}
	input := dresses.CreateInput{
		Name:          formString(r, "name"),
		Category:      formString(r, "category"),
		Size:          formString(r, "size"),
		Color:         formString(r, "color"),
		RentalPrice:   rental,
		DepositAmount: deposit,
		Description:   formOptionalString(r, "description"),
	}
	if raw := formString(r, "status"); raw != "" {
		status, err := enums.ParseAvailabilityStatus(raw)
		if err != nil {
			return dresses.CreateInput{}, invalidField("status", err)
		}
		input.Status = &status
	}
	if err := validators.ValidateStruct(&input); err != nil {
		return dresses.CreateInput{}, err
	}
	return input, nil
}

func DressesUpdate(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body dresses.UpdateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dress, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dresses.NewDressDTO(dress))
	}
}

func DressesDelete(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func DressesUploadImages(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := parseMultipart(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		uploads, err := formUploads(r, "images")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(uploads) == 0 {
			responses.WriteError(r.Context(), logg, w, missingFiles("images"))
			return
		}

		paths, err := svc.UploadImages(r.Context(), id, uploads)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string][]string{"uploaded": paths})
	}
}

func DressesDeleteImage(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		imageID, err := validators.ParseURLUUID(r, "image_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteImage(r.Context(), id, imageID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
