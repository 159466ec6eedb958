package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
)

type bodyFixture struct {
	Name  string           `json:"name" validate:"required,max=5"`
	Phone *string          `json:"phone,omitempty" validate:"omitempty,phone"`
	Price *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
}

func decodeFixture(t *testing.T, body string) (bodyFixture, error) {
	t.Helper()
	var dest bodyFixture
	err := DecodeJSONBody(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), &dest)
	return dest, err
}

func fieldDetails(t *testing.T, err error) map[string]string {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details got %#v", typed.Details())
	}
	return details
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	got, err := decodeFixture(t, `{"name":"Lina","phone":"+213 555 00 11","price":"1500.50"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Lina" || got.Price == nil || !got.Price.Equal(decimal.RequireFromString("1500.50")) {
		t.Fatalf("unexpected decode %+v", got)
	}
}

func TestDecodeJSONBodyFieldErrors(t *testing.T) {
	_, err := decodeFixture(t, `{"name":"Too long name","phone":"call me","price":"-1"}`)
	details := fieldDetails(t, err)
	want := map[string]string{
		"name":  "must be at most 5 characters",
		"phone": "must be a valid phone number",
		"price": "must be greater than or equal to 0",
	}
	for field, msg := range want {
		if details[field] != msg {
			t.Errorf("%s: expected %q got %q", field, msg, details[field])
		}
	}
}

func TestDecodeJSONBodyRejectsMalformedInput(t *testing.T) {
	for name, body := range map[string]string{
		"unknown field": `{"name":"Lina","color":"ivory"}`,
		"trailing data": `{"name":"Lina"}{"name":"Sara"}`,
		"not json":      `name=Lina`,
	} {
		if _, err := decodeFixture(t, body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Errorf("%s: expected validation error got %v", name, err)
		}
	}
}

func TestDecodeJSONBodyRejectsOversizedBody(t *testing.T) {
	body := `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	_, err := decodeFixture(t, body)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("expected too large error got %v", err)
	}
}
