package voucher

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/ledgerline/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence for vouchers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateVoucher inserts the voucher header and its lines in one
// transaction. A duplicate number within the series surfaces as
// ErrDuplicateNumber.
func (r *Repository) CreateVoucher(ctx context.Context, vch *Voucher) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
			INSERT INTO vouchers (
				guid, number, series, mode, date, party_ledger_id, place_of_supply, narration,
				subtotal, cgst_total, sgst_total, igst_total, discount_total, grand_total,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
			RETURNING id`
		if err := tx.QueryRow(ctx, query,
			vch.GUID, vch.Number, vch.Series, vch.Mode, vch.Date, vch.PartyLedgerID, vch.PlaceOfSupply, vch.Narration,
			vch.Subtotal, vch.CGSTTotal, vch.SGSTTotal, vch.IGSTTotal, vch.DiscountTotal, vch.GrandTotal,
		).Scan(&id); err != nil {
			return mapWriteError(err)
		}
		return insertLines(ctx, tx, id, vch.Lines)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateVoucher replaces a persisted voucher with a revalidated snapshot.
// Lines are rewritten wholesale; the voucher is immutable outside this
// path.
func (r *Repository) UpdateVoucher(ctx context.Context, id int64, vch *Voucher) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
			UPDATE vouchers SET
				number = $2, series = $3, mode = $4, date = $5, party_ledger_id = $6,
				place_of_supply = $7, narration = $8, subtotal = $9, cgst_total = $10,
				sgst_total = $11, igst_total = $12, discount_total = $13, grand_total = $14,
				updated_at = NOW()
			WHERE id = $1`
		tag, err := tx.Exec(ctx, query,
			id, vch.Number, vch.Series, vch.Mode, vch.Date, vch.PartyLedgerID,
			vch.PlaceOfSupply, vch.Narration, vch.Subtotal, vch.CGSTTotal,
			vch.SGSTTotal, vch.IGSTTotal, vch.DiscountTotal, vch.GrandTotal)
		if err != nil {
			return mapWriteError(err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM voucher_lines WHERE voucher_id = $1`, id); err != nil {
			return err
		}
		return insertLines(ctx, tx, id, vch.Lines)
	})
}

// GetVoucher loads a voucher with its lines.
func (r *Repository) GetVoucher(ctx context.Context, id int64) (*Voucher, error) {
	const query = `
		SELECT id, guid, number, series, mode, date, party_ledger_id, place_of_supply, narration,
			subtotal, cgst_total, sgst_total, igst_total, discount_total, grand_total,
			created_at, updated_at
		FROM vouchers WHERE id = $1`
	var vch Voucher
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&vch.ID, &vch.GUID, &vch.Number, &vch.Series, &vch.Mode, &vch.Date, &vch.PartyLedgerID,
		&vch.PlaceOfSupply, &vch.Narration, &vch.Subtotal, &vch.CGSTTotal, &vch.SGSTTotal,
		&vch.IGSTTotal, &vch.DiscountTotal, &vch.GrandTotal, &vch.CreatedAt, &vch.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	lines, err := r.listLines(ctx, id)
	if err != nil {
		return nil, err
	}
	vch.Lines = lines
	return &vch, nil
}

// ListVouchers returns vouchers matching the filter plus the total count.
func (r *Repository) ListVouchers(ctx context.Context, req ListVouchersRequest) ([]Voucher, int, error) {
	where := "WHERE 1=1"
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if req.Mode != nil {
		where += " AND mode = " + arg(*req.Mode)
	}
	if req.PartyLedgerID != nil {
		where += " AND party_ledger_id = " + arg(*req.PartyLedgerID)
	}
	if req.DateFrom != nil {
		where += " AND date >= " + arg(*req.DateFrom)
	}
	if req.DateTo != nil {
		where += " AND date <= " + arg(*req.DateTo)
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM vouchers "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, guid, number, series, mode, date, party_ledger_id, place_of_supply, narration,
			subtotal, cgst_total, sgst_total, igst_total, discount_total, grand_total,
			created_at, updated_at
		FROM vouchers ` + where + ` ORDER BY date DESC, id DESC LIMIT ` + arg(req.Limit) + ` OFFSET ` + arg(req.Offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var vouchers []Voucher
	for rows.Next() {
		var vch Voucher
		if err := rows.Scan(
			&vch.ID, &vch.GUID, &vch.Number, &vch.Series, &vch.Mode, &vch.Date, &vch.PartyLedgerID,
			&vch.PlaceOfSupply, &vch.Narration, &vch.Subtotal, &vch.CGSTTotal, &vch.SGSTTotal,
			&vch.IGSTTotal, &vch.DiscountTotal, &vch.GrandTotal, &vch.CreatedAt, &vch.UpdatedAt); err != nil {
			return nil, 0, err
		}
		vouchers = append(vouchers, vch)
	}
	return vouchers, total, rows.Err()
}

// NextNumber produces the next voucher number within a series and mode.
func (r *Repository) NextNumber(ctx context.Context, series string, mode Mode) (string, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) + 1 FROM vouchers WHERE series = $1 AND mode = $2`, series, mode).Scan(&n)
	if err != nil {
		return "", err
	}
	prefix := series
	if prefix == "" {
		prefix = "V"
	}
	return fmt.Sprintf("%s-%05d", prefix, n), nil
}

func insertLines(ctx context.Context, tx pgx.Tx, voucherID int64, lines []Line) error {
	const query = `
		INSERT INTO voucher_lines (
			voucher_id, kind, item_id, ledger_id, description, quantity, rate, discount,
			tax_rate_percent, cgst_rate, sgst_rate, igst_rate,
			taxable_value, cgst_amount, sgst_amount, igst_amount,
			entry_type, amount, line_order
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	for _, line := range lines {
		if _, err := tx.Exec(ctx, query,
			voucherID, line.Kind, line.ItemID, line.LedgerID, line.Description,
			line.Quantity, line.Rate, line.Discount,
			line.TaxRatePercent, line.CGSTRate, line.SGSTRate, line.IGSTRate,
			line.TaxableValue, line.CGSTAmount, line.SGSTAmount, line.IGSTAmount,
			string(line.EntryType), line.Amount, line.LineOrder); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) listLines(ctx context.Context, voucherID int64) ([]Line, error) {
	const query = `
		SELECT id, voucher_id, kind, item_id, ledger_id, description, quantity, rate, discount,
			tax_rate_percent, cgst_rate, sgst_rate, igst_rate,
			taxable_value, cgst_amount, sgst_amount, igst_amount,
			COALESCE(entry_type, ''), amount, line_order
		FROM voucher_lines WHERE voucher_id = $1 ORDER BY line_order`
	rows, err := r.pool.Query(ctx, query, voucherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var line Line
		var entryType string
		if err := rows.Scan(
			&line.ID, &line.VoucherID, &line.Kind, &line.ItemID, &line.LedgerID, &line.Description,
			&line.Quantity, &line.Rate, &line.Discount,
			&line.TaxRatePercent, &line.CGSTRate, &line.SGSTRate, &line.IGSTRate,
			&line.TaxableValue, &line.CGSTAmount, &line.SGSTAmount, &line.IGSTAmount,
			&entryType, &line.Amount, &line.LineOrder); err != nil {
			return nil, err
		}
		line.EntryType = EntryType(entryType)
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateNumber
	}
	return err
}
