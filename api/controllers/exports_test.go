package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/wardrop-backend/internal/exports"
	"github.com/angelmondragon/wardrop-backend/pkg/excel"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
)

func TestExportWorkbookHeaders(t *testing.T) {
	fn := func(context.Context) (exports.File, error) {
		return exports.File{Name: "clients.xlsx", Data: []byte("PK")}, nil
	}
	rec := httptest.NewRecorder()
	ExportWorkbook(fn, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/export/clients", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != excel.ContentType {
		t.Fatalf("unexpected content type %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="clients.xlsx"` {
		t.Fatalf("unexpected disposition %s", cd)
	}
	if rec.Body.String() != "PK" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestExportRangedWorkbookParsesDates(t *testing.T) {
	var captured exports.Range
	fn := func(_ context.Context, r exports.Range) (exports.File, error) {
		captured = r
		return exports.File{Name: "bookings.xlsx"}, nil
	}
	rec := httptest.NewRecorder()
	ExportRangedWorkbook(fn, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/export/bookings?start_date=2025-01-01", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if captured.Start != types.NewDate(2025, 1, 1) || !captured.End.IsZero() {
		t.Fatalf("unexpected range %+v", captured)
	}

	rec = httptest.NewRecorder()
	ExportRangedWorkbook(fn, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/export/bookings?end_date=31-12-2025", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestImportWorkbook(t *testing.T) {
	var got exports.Upload
	fn := func(_ context.Context, u exports.Upload) (exports.ImportResult, error) {
		got = u
		return exports.ImportResult{Imported: 3, Errors: []string{"Row 5: name is required"}}, nil
	}

	body, ct := multipartBody(t, nil, "file", map[string][]byte{"clients.xlsx": []byte("PK\x03\x04")})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/export/import/clients", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	ImportWorkbook(fn, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if got.Filename != "clients.xlsx" || len(got.Data) != 4 {
		t.Fatalf("unexpected upload %+v", got)
	}
	var res exports.ImportResult
	decodeData(t, rec, &res)
	if res.Imported != 3 || len(res.Errors) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}

	empty, ct := multipartBody(t, map[string]string{"other": "x"}, "file", nil)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/export/import/clients", empty)
	req.Header.Set("Content-Type", ct)
	rec = httptest.NewRecorder()
	ImportWorkbook(func(context.Context, exports.Upload) (exports.ImportResult, error) {
		return exports.ImportResult{}, errors.New("should not be called")
	}, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without file got %d", rec.Code)
	}
}
