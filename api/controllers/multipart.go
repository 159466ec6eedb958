package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wardrop-backend/internal/media"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
)

// maxMultipartMemory bounds how much of a form is buffered before spilling to disk.
const maxMultipartMemory = 32 << 20

func parseMultipart(r *http.Request) error {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return pkgerrors.New(pkgerrors.CodeValidation, "multipart form expected")
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return nil
}

// formUploads reads every file posted under field. Size and type checks are
// left to the media service.
func formUploads(r *http.Request, field string) ([]media.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	uploads := make([]media.Upload, 0, len(headers))
	for _, fh := range headers {
		data, err := readFormFile(fh)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload").WithDetails(map[string]any{"file": fh.Filename})
		}
		uploads = append(uploads, media.Upload{FileName: fh.Filename, Data: data})
	}
	return uploads, nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func formString(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func formOptionalString(r *http.Request, key string) *string {
	v := formString(r, key)
	if v == "" {
		return nil
	}
	return &v
}

func formDecimal(r *http.Request, key string) (decimal.Decimal, error) {
	raw := formString(r, key)
	if raw == "" {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, key+" is required").WithDetails(map[string]any{"field": key})
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key).WithDetails(map[string]any{"field": key})
	}
	return d, nil
}

func formOptionalDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	if formString(r, key) == "" {
		return nil, nil
	}
	d, err := formDecimal(r, key)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formInt(r *http.Request, key string, def int) (int, error) {
	raw := formString(r, key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+key).WithDetails(map[string]any{"field": key})
	}
	return v, nil
}

func invalidField(field string, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field).WithDetails(map[string]any{"field": field})
}

func missingFiles(field string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "no files uploaded").WithDetails(map[string]any{"field": field})
}
