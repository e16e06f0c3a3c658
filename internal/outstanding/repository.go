package outstanding

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed access to bill facts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListOutstandingBills returns open bills joined with their party's
// name, group, and credit limit. Fully settled bills are excluded at
// the source.
func (r *Repository) ListOutstandingBills(ctx context.Context, filter BillFilter) ([]Bill, error) {
	where := "WHERE b.bill_amount > b.settled_amount"
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.PartyLedgerID != nil {
		where += " AND b.party_ledger_id = " + arg(*filter.PartyLedgerID)
	}
	if filter.DateFrom != nil {
		where += " AND b.bill_date >= " + arg(*filter.DateFrom)
	}
	if filter.DateTo != nil {
		where += " AND b.bill_date <= " + arg(*filter.DateTo)
	}

	query := `
		SELECT b.id, b.bill_number, b.party_ledger_id, l.name,
			g.name, b.bill_date, b.due_date, b.credit_days,
			COALESCE(l.credit_limit, 0), b.bill_amount, b.settled_amount
		FROM bills b
		JOIN ledgers l ON l.id = b.party_ledger_id
		LEFT JOIN ledger_groups g ON g.id = l.group_id
		` + where + ` ORDER BY b.due_date, b.id`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []Bill
	for rows.Next() {
		var bill Bill
		if err := rows.Scan(
			&bill.ID, &bill.BillNumber, &bill.PartyLedgerID, &bill.PartyName,
			&bill.GroupName, &bill.BillDate, &bill.DueDate, &bill.CreditDays,
			&bill.CreditLimit, &bill.BillAmount, &bill.SettledAmount); err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}
