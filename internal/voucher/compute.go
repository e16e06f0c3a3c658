package voucher

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/tax"
)

var hundred = decimal.NewFromInt(100)

// roundAmount applies banker's rounding to two decimal places. Rounding
// happens once at the final amount, never at intermediate steps, so
// per-line results do not accumulate drift.
func roundAmount(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// ComputeItemLine computes the net amount of an item line:
// quantity*rate plus the GST split applied to the base, minus discount,
// clamped at zero. Negative inputs are rejected; a discount larger than
// base plus tax is left for the validator to report rather than clamped
// silently, which is why the clamp only floors the result.
func ComputeItemLine(quantity, rate, discount decimal.Decimal, split tax.Split) (decimal.Decimal, error) {
	if quantity.IsNegative() {
		return decimal.Zero, &ComputationError{Field: "quantity", Reason: "must not be negative"}
	}
	if rate.IsNegative() {
		return decimal.Zero, &ComputationError{Field: "rate", Reason: "must not be negative"}
	}
	if discount.IsNegative() {
		return decimal.Zero, &ComputationError{Field: "discount", Reason: "must not be negative"}
	}
	base := quantity.Mul(rate)
	taxAmount := base.Mul(split.Rate()).Div(hundred)
	amount := base.Add(taxAmount).Sub(discount)
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return roundAmount(amount), nil
}

// ComputeLedgerLine passes a raw accounting amount through unchanged.
// Negative input indicates a data error upstream and is rejected.
func ComputeLedgerLine(raw decimal.Decimal) (decimal.Decimal, error) {
	if raw.IsNegative() {
		return decimal.Zero, &ComputationError{Field: "amount", Reason: "must not be negative"}
	}
	return roundAmount(raw), nil
}

// BuildLine turns raw form input into a computed line. Item lines receive
// the GST split for the voucher's supply scope; ledger lines carry their
// amount through as entered.
func BuildLine(req LineRequest, order int, intrastate bool) (Line, error) {
	line := Line{
		Kind:        req.Kind,
		ItemID:      req.ItemID,
		LedgerID:    req.LedgerID,
		Description: req.Description,
		Quantity:    req.Quantity,
		Rate:        req.Rate,
		Discount:    req.Discount,
		EntryType:   req.EntryType,
		LineOrder:   order,
	}
	switch req.Kind {
	case LineKindItem:
		rate := tax.ClampRate(req.TaxRatePercent)
		split := tax.SplitRate(rate, intrastate)
		amount, err := ComputeItemLine(req.Quantity, req.Rate, req.Discount, split)
		if err != nil {
			return Line{}, err
		}
		base := req.Quantity.Mul(req.Rate)
		line.TaxRatePercent = rate
		line.CGSTRate = split.CGST
		line.SGSTRate = split.SGST
		line.IGSTRate = split.IGST
		line.TaxableValue = roundAmount(base)
		line.CGSTAmount = roundAmount(base.Mul(split.CGST).Div(hundred))
		line.SGSTAmount = roundAmount(base.Mul(split.SGST).Div(hundred))
		line.IGSTAmount = roundAmount(base.Mul(split.IGST).Div(hundred))
		line.Amount = amount
	case LineKindLedger:
		amount, err := ComputeLedgerLine(req.Amount)
		if err != nil {
			return Line{}, err
		}
		line.TaxableValue = amount
		line.Amount = amount
	default:
		return Line{}, &ComputationError{Field: "kind", Reason: "unknown line kind"}
	}
	return line, nil
}

// BuildLines computes every line of a submission in input order.
func BuildLines(reqs []LineRequest, intrastate bool) ([]Line, error) {
	lines := make([]Line, 0, len(reqs))
	for i, req := range reqs {
		line, err := BuildLine(req, i, intrastate)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
