package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var body ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestWriteSuccessStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessStatus(rec, http.StatusCreated, map[string]string{"full_name": "Amina"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	var body SuccessEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Amina", body.Data.(map[string]any)["full_name"])
}

func TestWriteErrorKeepsClientMessageAndDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeConflict, "dress already booked for these dates").
		WithDetails(map[string]string{"booking_id": "b1"})
	WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, http.StatusConflict, rec.Code)
	got := decodeError(t, rec)
	assert.Equal(t, "CONFLICT", got.Code)
	assert.Equal(t, "dress already booked for these dates", got.Message)
	assert.NotNil(t, got.Details)
}

func TestWriteErrorHidesServerFaults(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})

	rec := httptest.NewRecorder()
	WriteError(context.Background(), logg, rec, errors.New("pq: relation missing"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decodeError(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", got.Code)
	assert.Equal(t, "internal server error", got.Message)
	assert.Nil(t, got.Details)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "relation missing")
}

func TestWriteErrorLogsClientFaultsAsWarn(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})

	rec := httptest.NewRecorder()
	WriteError(context.Background(), logg, rec, pkgerrors.New(pkgerrors.CodeNotFound, "client not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "client not found", decodeError(t, rec).Message)
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestWriteErrorDependencyUsesPublicMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("dial tcp"), "ping redis"))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "dependency unavailable", decodeError(t, rec).Message)
}
