package voucher

import "github.com/shopspring/decimal"

// balanceEpsilon is the tolerance for debit/credit equality. A difference
// of exactly 0.01 still balances.
var balanceEpsilon = decimal.RequireFromString("0.01")

// Totals aggregates invoice-mode lines. Summation is plain addition over
// exact decimals, so the result is independent of line order.
type Totals struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	CGSTTotal     decimal.Decimal `json:"cgst_total"`
	SGSTTotal     decimal.Decimal `json:"sgst_total"`
	IGSTTotal     decimal.Decimal `json:"igst_total"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// EntryTotals aggregates raw debit/credit lines.
type EntryTotals struct {
	DebitTotal  decimal.Decimal `json:"debit_total"`
	CreditTotal decimal.Decimal `json:"credit_total"`
	Balanced    bool            `json:"balanced"`
}

// AggregateLines sums per-line values into voucher totals. The grand
// total is recomputed from the component totals rather than summed from
// line amounts, so it always satisfies
// subtotal + taxes - discount = grand total.
func AggregateLines(lines []Line) Totals {
	t := Totals{
		Subtotal:      decimal.Zero,
		CGSTTotal:     decimal.Zero,
		SGSTTotal:     decimal.Zero,
		IGSTTotal:     decimal.Zero,
		DiscountTotal: decimal.Zero,
		GrandTotal:    decimal.Zero,
	}
	for _, line := range lines {
		t.Subtotal = t.Subtotal.Add(line.TaxableValue)
		t.CGSTTotal = t.CGSTTotal.Add(line.CGSTAmount)
		t.SGSTTotal = t.SGSTTotal.Add(line.SGSTAmount)
		t.IGSTTotal = t.IGSTTotal.Add(line.IGSTAmount)
		t.DiscountTotal = t.DiscountTotal.Add(line.Discount)
	}
	t.GrandTotal = t.Subtotal.
		Add(t.CGSTTotal).
		Add(t.SGSTTotal).
		Add(t.IGSTTotal).
		Sub(t.DiscountTotal)
	return t
}

// AggregateEntries sums debit and credit lines of a raw voucher and
// reports whether they balance within the epsilon.
func AggregateEntries(lines []Line) EntryTotals {
	t := EntryTotals{DebitTotal: decimal.Zero, CreditTotal: decimal.Zero}
	for _, line := range lines {
		switch line.EntryType {
		case EntryDebit:
			t.DebitTotal = t.DebitTotal.Add(line.Amount)
		case EntryCredit:
			t.CreditTotal = t.CreditTotal.Add(line.Amount)
		}
	}
	t.Balanced = t.DebitTotal.Sub(t.CreditTotal).Abs().LessThanOrEqual(balanceEpsilon)
	return t
}
