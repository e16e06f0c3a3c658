package masters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repository provides PostgreSQL backed persistence for master data.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListLedgers returns every ledger ordered by name.
func (r *Repository) ListLedgers(ctx context.Context) ([]Ledger, error) {
	const query = `
		SELECT id, name, group_id, is_party, state_code, gstin,
			credit_limit, credit_days, opening_balance, created_at, updated_at
		FROM ledgers ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ledgers []Ledger
	for rows.Next() {
		var l Ledger
		if err := rows.Scan(&l.ID, &l.Name, &l.GroupID, &l.IsParty, &l.StateCode, &l.GSTIN,
			&l.CreditLimit, &l.CreditDays, &l.OpeningBalance, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		ledgers = append(ledgers, l)
	}
	return ledgers, rows.Err()
}

// GetLedger loads a single ledger.
func (r *Repository) GetLedger(ctx context.Context, id int64) (*Ledger, error) {
	const query = `
		SELECT id, name, group_id, is_party, state_code, gstin,
			credit_limit, credit_days, opening_balance, created_at, updated_at
		FROM ledgers WHERE id = $1`
	var l Ledger
	err := r.pool.QueryRow(ctx, query, id).Scan(&l.ID, &l.Name, &l.GroupID, &l.IsParty,
		&l.StateCode, &l.GSTIN, &l.CreditLimit, &l.CreditDays, &l.OpeningBalance,
		&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// CreateLedger inserts a ledger master.
func (r *Repository) CreateLedger(ctx context.Context, req CreateLedgerRequest) (*Ledger, error) {
	const query = `
		INSERT INTO ledgers (name, group_id, is_party, state_code, gstin,
			credit_limit, credit_days, opening_balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	l := Ledger{
		Name:           req.Name,
		GroupID:        req.GroupID,
		IsParty:        req.IsParty,
		StateCode:      req.StateCode,
		GSTIN:          req.GSTIN,
		CreditLimit:    req.CreditLimit,
		CreditDays:     req.CreditDays,
		OpeningBalance: req.OpeningBalance,
	}
	err := r.pool.QueryRow(ctx, query, req.Name, req.GroupID, req.IsParty, req.StateCode,
		req.GSTIN, req.CreditLimit, req.CreditDays, req.OpeningBalance).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListLedgerGroups returns the group tree flattened by name.
func (r *Repository) ListLedgerGroups(ctx context.Context) ([]LedgerGroup, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, parent_id FROM ledger_groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []LedgerGroup
	for rows.Next() {
		var g LedgerGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.ParentID); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// ListStockItems returns every stock item ordered by name.
func (r *Repository) ListStockItems(ctx context.Context) ([]StockItem, error) {
	const query = `
		SELECT id, name, unit, hsn_code, gst_rate_percent, on_hand, created_at, updated_at
		FROM stock_items ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []StockItem
	for rows.Next() {
		var it StockItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Unit, &it.HSNCode, &it.GSTRatePercent,
			&it.OnHand, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetStockItem loads a single stock item.
func (r *Repository) GetStockItem(ctx context.Context, id int64) (*StockItem, error) {
	const query = `
		SELECT id, name, unit, hsn_code, gst_rate_percent, on_hand, created_at, updated_at
		FROM stock_items WHERE id = $1`
	var it StockItem
	err := r.pool.QueryRow(ctx, query, id).Scan(&it.ID, &it.Name, &it.Unit, &it.HSNCode,
		&it.GSTRatePercent, &it.OnHand, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

// CreateStockItem inserts a stock item master.
func (r *Repository) CreateStockItem(ctx context.Context, req CreateStockItemRequest) (*StockItem, error) {
	const query = `
		INSERT INTO stock_items (name, unit, hsn_code, gst_rate_percent, on_hand, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	it := StockItem{
		Name:           req.Name,
		Unit:           req.Unit,
		HSNCode:        req.HSNCode,
		GSTRatePercent: req.GSTRatePercent,
		OnHand:         req.OnHand,
	}
	err := r.pool.QueryRow(ctx, query, req.Name, req.Unit, req.HSNCode, req.GSTRatePercent, req.OnHand).
		Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// ListGstClassifications returns the HSN/rate table.
func (r *Repository) ListGstClassifications(ctx context.Context) ([]GstClassification, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, hsn_code, rate_percent FROM gst_classifications ORDER BY hsn_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []GstClassification
	for rows.Next() {
		var c GstClassification
		if err := rows.Scan(&c.ID, &c.Name, &c.HSNCode, &c.RatePercent); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// StockOnHand returns the available quantity for an item.
func (r *Repository) StockOnHand(ctx context.Context, itemID int64) (decimal.Decimal, error) {
	var onHand decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT on_hand FROM stock_items WHERE id = $1`, itemID).Scan(&onHand)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, err
	}
	return onHand, nil
}
