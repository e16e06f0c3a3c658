// Package tax implements GST rate splitting between intrastate and
// interstate supply components.
package tax

import (
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// Split holds the GST components of a flat tax rate. For intrastate
// supplies the rate divides evenly between CGST and SGST; interstate
// supplies carry the whole rate as IGST.
type Split struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
}

// Rate returns the combined tax rate of the split.
func (s Split) Rate() decimal.Decimal {
	return s.CGST.Add(s.SGST).Add(s.IGST)
}

// IsZero reports whether no tax applies.
func (s Split) IsZero() bool {
	return s.Rate().IsZero()
}

// ClampRate bounds a tax rate to the valid [0, 100] percent range.
func ClampRate(rate decimal.Decimal) decimal.Decimal {
	if rate.IsNegative() {
		return decimal.Zero
	}
	if rate.GreaterThan(hundred) {
		return hundred
	}
	return rate
}

// SplitRate divides a flat GST rate into its components. The rate is
// clamped to [0, 100] before splitting so callers cannot produce
// components outside the legal range.
func SplitRate(ratePercent decimal.Decimal, intrastate bool) Split {
	rate := ClampRate(ratePercent)
	if intrastate {
		half := rate.Div(two)
		return Split{CGST: half, SGST: half, IGST: decimal.Zero}
	}
	return Split{CGST: decimal.Zero, SGST: decimal.Zero, IGST: rate}
}
