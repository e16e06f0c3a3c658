// Package outstanding implements bill ageing classification, risk
// scoring, and the receivables roll-up used by outstanding reports.
package outstanding

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bucket is a day-range classification of how overdue a bill is.
type Bucket string

const (
	Bucket0To30  Bucket = "0-30"
	Bucket31To60 Bucket = "31-60"
	Bucket61To90 Bucket = "61-90"
	Bucket90Plus Bucket = "90+"
)

// Buckets lists all buckets in ascending severity order.
var Buckets = []Bucket{Bucket0To30, Bucket31To60, Bucket61To90, Bucket90Plus}

// Severity returns the bucket's ordinal severity, 0 through 3.
func (b Bucket) Severity() int {
	switch b {
	case Bucket31To60:
		return 1
	case Bucket61To90:
		return 2
	case Bucket90Plus:
		return 3
	default:
		return 0
	}
}

// Valid reports whether the bucket is a known value.
func (b Bucket) Valid() bool {
	return b == Bucket0To30 || b == Bucket31To60 || b == Bucket61To90 || b == Bucket90Plus
}

// Risk categorises a bill or party by collection risk.
type Risk string

const (
	RiskLow      Risk = "LOW"
	RiskMedium   Risk = "MEDIUM"
	RiskHigh     Risk = "HIGH"
	RiskCritical Risk = "CRITICAL"
)

// Severity returns the risk's ordinal severity, 0 through 3.
func (r Risk) Severity() int {
	switch r {
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return 0
	}
}

// Valid reports whether the risk is a known value.
func (r Risk) Valid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh || r == RiskCritical
}

// Bill is the raw fact the repository returns: amounts and dates only.
// Ageing, interest, and risk are computed here, never read from storage.
type Bill struct {
	ID            int64           `json:"id" db:"id"`
	BillNumber    string          `json:"bill_number" db:"bill_number"`
	PartyLedgerID int64           `json:"party_ledger_id" db:"party_ledger_id"`
	PartyName     string          `json:"party_name" db:"party_name"`
	GroupName     *string         `json:"group_name,omitempty" db:"group_name"`
	BillDate      time.Time       `json:"bill_date" db:"bill_date"`
	DueDate       time.Time       `json:"due_date" db:"due_date"`
	CreditDays    int             `json:"credit_days" db:"credit_days"`
	CreditLimit   decimal.Decimal `json:"credit_limit" db:"credit_limit"`
	BillAmount    decimal.Decimal `json:"bill_amount" db:"bill_amount"`
	SettledAmount decimal.Decimal `json:"settled_amount" db:"settled_amount"`
}

// Outstanding returns the unsettled portion of the bill, never negative.
func (b Bill) Outstanding() decimal.Decimal {
	out := b.BillAmount.Sub(b.SettledAmount)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// ClassifiedBill is a bill with its derived ageing, interest, and risk.
// The derived fields are a pure function of the bill facts and the as-of
// date; they are recomputed on every read.
type ClassifiedBill struct {
	Bill
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	OverdueDays       int             `json:"overdue_days"`
	Bucket            Bucket          `json:"bucket"`
	InterestAmount    decimal.Decimal `json:"interest_amount"`
	Utilization       decimal.Decimal `json:"utilization"`
	Risk              Risk            `json:"risk"`
}

// GroupBy selects the roll-up key for summaries.
type GroupBy string

const (
	GroupByParty GroupBy = "party"
	GroupByGroup GroupBy = "group"
)

// UnassignedGroup is the explicit bucket for bills whose roll-up key is
// missing. Bills are never dropped from a summary.
const UnassignedGroup = "Unassigned"

// Summary is the roll-up for one party or ledger group.
type Summary struct {
	Key              string                     `json:"key"`
	PartyLedgerID    *int64                     `json:"party_ledger_id,omitempty"`
	BillCount        int                        `json:"bill_count"`
	TotalOutstanding decimal.Decimal            `json:"total_outstanding"`
	CurrentDue       decimal.Decimal            `json:"current_due"`
	Overdue          decimal.Decimal            `json:"overdue"`
	Breakdown        map[Bucket]decimal.Decimal `json:"ageing_breakdown"`
	Risk             Risk                       `json:"risk"`
	FormattedTotal   string                     `json:"formatted_total"`
}

// Report is the full outstanding view for an as-of date.
type Report struct {
	AsOf                time.Time        `json:"as_of"`
	GroupBy             GroupBy          `json:"group_by"`
	Bills               []ClassifiedBill `json:"bills,omitempty"`
	Summaries           []Summary        `json:"summaries"`
	GrandTotal          decimal.Decimal  `json:"grand_total"`
	FormattedGrandTotal string           `json:"formatted_grand_total"`
}

// BillFilter narrows the raw bill fetch.
type BillFilter struct {
	PartyLedgerID *int64     `json:"party_ledger_id,omitempty"`
	DateFrom      *time.Time `json:"date_from,omitempty"`
	DateTo        *time.Time `json:"date_to,omitempty"`
}

// ReportRequest parameterises report generation. Bucket and risk filters
// apply after classification since they are derived values.
type ReportRequest struct {
	AsOf     time.Time  `json:"as_of"`
	GroupBy  GroupBy    `json:"group_by" validate:"omitempty,oneof=party group"`
	Bucket   *Bucket    `json:"bucket,omitempty"`
	Risk     *Risk      `json:"risk,omitempty"`
	PartyID  *int64     `json:"party_ledger_id,omitempty"`
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`
}
