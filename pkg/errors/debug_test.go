package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpCollectsChainAndPostgresFault(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23P01", ConstraintName: "bookings_no_overlap", TableName: "bookings", Message: "conflicting key value"}
	err := Wrap(CodeConflict, fmt.Errorf("insert booking: %w", pgErr), "dress already booked")

	d := Dump(err)
	assert.Equal(t, CodeConflict, d.Code)
	assert.Len(t, d.Chain, 3)
	require.NotNil(t, d.DB)
	assert.Equal(t, "pgx", d.DB.Driver)
	assert.Equal(t, "bookings_no_overlap", d.DB.Constraint)

	fields := d.Fields()
	assert.Equal(t, "CONFLICT", fields["error_code"])
	assert.Equal(t, "23P01", fields["db_code"])
	assert.Equal(t, "bookings", fields["db_table"])
	assert.NotContains(t, fields, "db_detail")
}

func TestDumpPlainError(t *testing.T) {
	d := Dump(errors.New("boom"))
	assert.Nil(t, d.DB)
	assert.Empty(t, d.Code)
	assert.Equal(t, map[string]any{"error": "boom"}, d.Fields())
	assert.Equal(t, ErrorDump{}, Dump(nil))
}
