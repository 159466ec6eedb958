package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/wardrop-backend/internal/sales"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
)

type stubSaleService struct {
	sales.Service
	del  func(ctx context.Context, id uuid.UUID, restore bool) error
	bulk func(ctx context.Context, in sales.BulkDeleteInput) (sales.BulkDeleteResult, error)
}

func (s stubSaleService) Delete(ctx context.Context, id uuid.UUID, restore bool) error {
	return s.del(ctx, id, restore)
}

func (s stubSaleService) BulkDelete(ctx context.Context, in sales.BulkDeleteInput) (sales.BulkDeleteResult, error) {
	return s.bulk(ctx, in)
}

func TestSalesDeleteRestoresStockByDefault(t *testing.T) {
	var restored []bool
	svc := stubSaleService{del: func(_ context.Context, _ uuid.UUID, restore bool) error {
		restored = append(restored, restore)
		return nil
	}}
	id := uuid.New().String()

	for _, url := range []string{"/api/v1/sales/x", "/api/v1/sales/x?restore_stock=false", "/api/v1/sales/x?restore_stock=true"} {
		req := withURLParams(httptest.NewRequest(http.MethodDelete, url, nil), map[string]string{"id": id})
		rec := httptest.NewRecorder()
		SalesDelete(svc, nil).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", url, rec.Code)
		}
	}
	if len(restored) != 3 || !restored[0] || restored[1] || !restored[2] {
		t.Fatalf("unexpected restore flags %v", restored)
	}
}

func TestSalesBulkDelete(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	svc := stubSaleService{bulk: func(_ context.Context, in sales.BulkDeleteInput) (sales.BulkDeleteResult, error) {
		if len(in.IDs) != 2 || in.RestoreStock == nil || *in.RestoreStock {
			t.Fatalf("unexpected input %+v", in)
		}
		return sales.BulkDeleteResult{DeletedCount: 2}, nil
	}}

	body := `{"ids":["` + a.String() + `","` + b.String() + `"],"restore_stock":false}`
	rec := httptest.NewRecorder()
	SalesBulkDelete(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sales/bulk-delete", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var got sales.BulkDeleteResult
	decodeData(t, rec, &got)
	if got.DeletedCount != 2 || got.StockRestored {
		t.Fatalf("unexpected result %+v", got)
	}

	rec = httptest.NewRecorder()
	SalesBulkDelete(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"ids":[]}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty ids got %d", rec.Code)
	}
}

func TestSalesInsufficientStockIs422(t *testing.T) {
	svc := stubSaleService{del: func(context.Context, uuid.UUID, bool) error {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock")
	}}
	req := withURLParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"id": uuid.New().String()})
	rec := httptest.NewRecorder()
	SalesDelete(svc, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}
