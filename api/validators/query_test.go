package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
)

func TestParsePagination(t *testing.T) {
	p, err := ParsePagination(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || p.Skip != 0 || p.Limit != 50 {
		t.Fatalf("unexpected defaults %+v err=%v", p, err)
	}
	p, err = ParsePagination(httptest.NewRequest(http.MethodGet, "/?skip=20&limit=10", nil))
	if err != nil || p.Skip != 20 || p.Limit != 10 {
		t.Fatalf("unexpected params %+v err=%v", p, err)
	}
	for _, q := range []string{"?limit=0", "?limit=101", "?skip=-1", "?skip=abc"} {
		if _, err := ParsePagination(httptest.NewRequest(http.MethodGet, "/"+q, nil)); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error got %v", q, err)
		}
	}
}

func TestParseQueryTypes(t *testing.T) {
	id := uuid.New()
	r := httptest.NewRequest(http.MethodGet, "/?client_id="+id.String()+"&start_date=2025-06-01&in_stock=false&status=rented", nil)

	got, err := ParseQueryUUID(r, "client_id")
	if err != nil || got == nil || *got != id {
		t.Fatalf("unexpected uuid %v err=%v", got, err)
	}
	if missing, err := ParseQueryUUID(r, "dress_id"); err != nil || missing != nil {
		t.Fatalf("expected nil for absent uuid, got %v err=%v", missing, err)
	}

	d, err := ParseQueryDate(r, "start_date")
	if err != nil || d != types.NewDate(2025, 6, 1) {
		t.Fatalf("unexpected date %v err=%v", d, err)
	}

	b, err := ParseQueryBool(r, "in_stock")
	if err != nil || b == nil || *b {
		t.Fatalf("unexpected bool %v err=%v", b, err)
	}

	status, err := ParseQueryEnum(r, "status", enums.ParseAvailabilityStatus)
	if err != nil || status == nil || *status != enums.AvailabilityStatusRented {
		t.Fatalf("unexpected status %v err=%v", status, err)
	}

	bad := httptest.NewRequest(http.MethodGet, "/?start_date=01/06/2025&client_id=nope&status=lost", nil)
	if _, err := ParseQueryDate(bad, "start_date"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for date, got %v", err)
	}
	if _, err := ParseQueryUUID(bad, "client_id"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for uuid, got %v", err)
	}
	if _, err := ParseQueryEnum(bad, "status", enums.ParseAvailabilityStatus); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for enum, got %v", err)
	}
}

func TestParseURLUUID(t *testing.T) {
	id := uuid.New()
	rc := chi.NewRouteContext()
	rc.URLParams.Add("id", id.String())
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rc))

	got, err := ParseURLUUID(r, "id")
	if err != nil || got != id {
		t.Fatalf("unexpected id %v err=%v", got, err)
	}
	if _, err := ParseURLUUID(r, "image_id"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error got %v", err)
	}
}
