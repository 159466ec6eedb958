package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/angelmondragon/wardrop-backend/api/responses"
	"github.com/angelmondragon/wardrop-backend/api/validators"
	"github.com/angelmondragon/wardrop-backend/internal/exports"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/excel"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
)

type exportFunc func(ctx context.Context) (exports.File, error)

type rangedExportFunc func(ctx context.Context, r exports.Range) (exports.File, error)

type importFunc func(ctx context.Context, upload exports.Upload) (exports.ImportResult, error)

// ExportWorkbook streams a full-table export.
func ExportWorkbook(fn exportFunc, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, err := fn(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeWorkbook(w, file)
	}
}

// ExportRangedWorkbook streams an export bounded by start_date/end_date.
func ExportRangedWorkbook(fn rangedExportFunc, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, err := validators.ParseQueryDate(r, "start_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryDate(r, "end_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, err := fn(r.Context(), exports.Range{Start: start, End: end})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeWorkbook(w, file)
	}
}

// ImportWorkbook reads the "file" part of a multipart upload.
func ImportWorkbook(fn importFunc, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseMultipart(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if r.MultipartForm == nil || len(r.MultipartForm.File["file"]) == 0 {
			responses.WriteError(r.Context(), logg, w, missingFiles("file"))
			return
		}
		fh := r.MultipartForm.File["file"][0]
		data, err := readFormFile(fh)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload"))
			return
		}

		result, err := fn(r.Context(), exports.Upload{Filename: fh.Filename, Data: data})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func writeWorkbook(w http.ResponseWriter, file exports.File) {
	w.Header().Set("Content-Type", excel.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}
