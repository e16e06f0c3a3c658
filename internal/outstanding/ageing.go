package outstanding

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(365)
)

// Ageing is the derived overdue state of one bill.
type Ageing struct {
	OverdueDays int    `json:"overdue_days"`
	Bucket      Bucket `json:"bucket"`
}

// Classify computes whole days overdue and the matching bucket. Days are
// counted between calendar dates, so partial days never inflate the
// count. A bill due today or in the future is current and lands in the
// 0-30 bucket with zero overdue days.
func Classify(dueDate, asOf time.Time) Ageing {
	days := daysBetween(dueDate, asOf)
	if days < 0 {
		days = 0
	}
	return Ageing{OverdueDays: days, Bucket: bucketFor(days)}
}

// bucketFor maps overdue days to a bucket with inclusive bounds:
// [0,30], [31,60], [61,90], and everything above 90.
func bucketFor(overdueDays int) Bucket {
	switch {
	case overdueDays <= 30:
		return Bucket0To30
	case overdueDays <= 60:
		return Bucket31To60
	case overdueDays <= 90:
		return Bucket61To90
	default:
		return Bucket90Plus
	}
}

// Interest computes simple interest on the outstanding amount at the
// given annual rate for the overdue period. A bill that is not overdue
// accrues nothing.
func Interest(outstanding decimal.Decimal, annualRatePercent decimal.Decimal, overdueDays int) decimal.Decimal {
	if overdueDays <= 0 || outstanding.Sign() <= 0 {
		return decimal.Zero
	}
	interest := outstanding.
		Mul(annualRatePercent).Div(hundred).
		Mul(decimal.NewFromInt(int64(overdueDays))).Div(daysPerYear)
	return interest.RoundBank(2)
}

// daysBetween counts whole calendar days from a to b, negative when b is
// before a.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
