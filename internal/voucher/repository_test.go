package voucher

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestMapWriteErrorUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "vouchers_series_number_key"}
	require.ErrorIs(t, mapWriteError(pgErr), ErrDuplicateNumber)

	// pool errors arrive wrapped; the mapping must survive the chain
	wrapped := fmt.Errorf("insert voucher: %w", pgErr)
	require.ErrorIs(t, mapWriteError(wrapped), ErrDuplicateNumber)
}

func TestMapWriteErrorPassthrough(t *testing.T) {
	fkErr := &pgconn.PgError{Code: "23503"}
	require.NotErrorIs(t, mapWriteError(fkErr), ErrDuplicateNumber)

	plain := errors.New("connection reset")
	require.ErrorIs(t, mapWriteError(plain), plain)
}
