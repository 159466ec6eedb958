package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/wardrop-backend/api/responses"
	"github.com/angelmondragon/wardrop-backend/api/validators"
	"github.com/angelmondragon/wardrop-backend/internal/clothing"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
)

func ClothingList(svc clothing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inStock, err := validators.ParseQueryBool(r, "in_stock")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		q := r.URL.Query()
		result, err := svc.List(r.Context(), clothing.ListParams{
			Search:   strings.TrimSpace(q.Get("search")),
			Category: strings.TrimSpace(q.Get("category")),
			Size:     strings.TrimSpace(q.Get("size")),
			InStock:  inStock,
			Params:   page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagination.MapPage(result, clothing.NewClothingDTOs))
	}
}

func ClothingGet(svc clothing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, clothing.NewClothingDTO(item))
	}
}

// ClothingCreate accepts the same multipart layout as dresses.
func ClothingCreate(svc clothing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseMultipart(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := clothingCreateInputFromForm(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		uploads, err := formUploads(r, "images")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), input, uploads)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, clothing.NewClothingDTO(item))
	}
}

func clothingCreateInputFromForm(r *http.Request) (clothing.CreateInput, error) {
	salePrice, err := formDecimal(r, "sale_price")
	if err != nil {
		return clothing.CreateInput{}, err
	}
	purchasePrice, err := formOptionalDecimal(r, "purchase_price")
	if err != nil {
		return clothing.CreateInput{}, err
	}
	stock, err := formInt(r, "stock_quantity", 0)
	if err != nil {
		return clothing.CreateInput{}, err
	}
	input := clothing.CreateInput{
		Name:          formString(r, "name"),
		Category:      formString(r, "category"),
		Size:          formString(r, "size"),
		Color:         formString(r, "color"),
		PurchasePrice: purchasePrice,
		SalePrice:     salePrice,
		StockQuantity: stock,
		Description:   formOptionalString(r, "description"),
	}
	if err := validators.ValidateStruct(&input); err != nil {
		return clothing.CreateInput{}, err
	}
	return input, nil
}

func ClothingUpdate(svc clothing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body clothing.UpdateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, clothing.NewClothingDTO(item))
	}
}

func ClothingDelete(svc clothing.Service, logg *logger.Logger) http.HandlerFunc {
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

func ClothingUploadImages(svc clothing.Service, logg *logger.Logger) http.HandlerFunc {
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

func ClothingDeleteImage(svc clothing.Service, logg *logger.Logger) http.HandlerFunc {
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
