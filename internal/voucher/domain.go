// Package voucher implements voucher line computation, totals aggregation,
// and the validation state machine shared by every entry form and report.
package voucher

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// Mode enumerates voucher entry modes.
type Mode string

const (
	ModeItemInvoice       Mode = "ITEM_INVOICE"
	ModeAccountingInvoice Mode = "ACCOUNTING_INVOICE"
	ModeAsVoucher         Mode = "AS_VOUCHER"
	ModeSalesOrder        Mode = "SALES_ORDER"
)

// Valid reports whether the mode is known.
func (m Mode) Valid() bool {
	switch m {
	case ModeItemInvoice, ModeAccountingInvoice, ModeAsVoucher, ModeSalesOrder:
		return true
	}
	return false
}

// ItemBased reports whether lines carry stock items rather than ledger entries.
func (m Mode) ItemBased() bool {
	return m == ModeItemInvoice || m == ModeSalesOrder
}

// RequiresParty reports whether the mode needs a party ledger. Raw
// debit/credit vouchers post directly against ledgers and have no
// party concept.
func (m Mode) RequiresParty() bool {
	return m != ModeAsVoucher
}

// LineKind enumerates voucher line kinds.
type LineKind string

const (
	LineKindItem   LineKind = "ITEM"
	LineKindLedger LineKind = "LEDGER_ENTRY"
)

// EntryType marks ledger lines as debit or credit.
type EntryType string

const (
	EntryDebit  EntryType = "DEBIT"
	EntryCredit EntryType = "CREDIT"
)

// Line is one computed row of a voucher. Amount and the tax components
// are derived values; they are recomputed from the raw inputs on every
// edit and never mutated in place.
type Line struct {
	ID             int64           `json:"id" db:"id"`
	VoucherID      int64           `json:"voucher_id" db:"voucher_id"`
	Kind           LineKind        `json:"kind" db:"kind"`
	ItemID         *int64          `json:"item_id,omitempty" db:"item_id"`
	LedgerID       *int64          `json:"ledger_id,omitempty" db:"ledger_id"`
	Description    *string         `json:"description,omitempty" db:"description"`
	Quantity       decimal.Decimal `json:"quantity" db:"quantity"`
	Rate           decimal.Decimal `json:"rate" db:"rate"`
	Discount       decimal.Decimal `json:"discount" db:"discount"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent" db:"tax_rate_percent"`
	CGSTRate       decimal.Decimal `json:"cgst_rate" db:"cgst_rate"`
	SGSTRate       decimal.Decimal `json:"sgst_rate" db:"sgst_rate"`
	IGSTRate       decimal.Decimal `json:"igst_rate" db:"igst_rate"`
	TaxableValue   decimal.Decimal `json:"taxable_value" db:"taxable_value"`
	CGSTAmount     decimal.Decimal `json:"cgst_amount" db:"cgst_amount"`
	SGSTAmount     decimal.Decimal `json:"sgst_amount" db:"sgst_amount"`
	IGSTAmount     decimal.Decimal `json:"igst_amount" db:"igst_amount"`
	EntryType      EntryType       `json:"entry_type,omitempty" db:"entry_type"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	LineOrder      int             `json:"line_order" db:"line_order"`
}

// Voucher is a transaction header with its computed lines and totals.
type Voucher struct {
	ID            int64           `json:"id" db:"id"`
	GUID          string          `json:"guid" db:"guid"`
	Number        string          `json:"number" db:"number"`
	Series        string          `json:"series" db:"series"`
	Mode          Mode            `json:"mode" db:"mode"`
	Date          time.Time       `json:"date" db:"date"`
	PartyLedgerID *int64          `json:"party_ledger_id,omitempty" db:"party_ledger_id"`
	PlaceOfSupply *string         `json:"place_of_supply,omitempty" db:"place_of_supply"`
	Narration     *string         `json:"narration,omitempty" db:"narration"`
	Subtotal      decimal.Decimal `json:"subtotal" db:"subtotal"`
	CGSTTotal     decimal.Decimal `json:"cgst_total" db:"cgst_total"`
	SGSTTotal     decimal.Decimal `json:"sgst_total" db:"sgst_total"`
	IGSTTotal     decimal.Decimal `json:"igst_total" db:"igst_total"`
	DiscountTotal decimal.Decimal `json:"discount_total" db:"discount_total"`
	GrandTotal    decimal.Decimal `json:"grand_total" db:"grand_total"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
	Lines         []Line          `json:"lines" db:"-"`
}

// LineRequest is the raw form input for one voucher row. Numeric rules
// are enforced by the validation state machine rather than struct tags so
// that every violated field surfaces in the same error map.
type LineRequest struct {
	Kind           LineKind        `json:"kind" validate:"required,oneof=ITEM LEDGER_ENTRY"`
	ItemID         *int64          `json:"item_id,omitempty"`
	LedgerID       *int64          `json:"ledger_id,omitempty"`
	Description    *string         `json:"description,omitempty" validate:"omitempty,max=500"`
	Quantity       decimal.Decimal `json:"quantity"`
	Rate           decimal.Decimal `json:"rate"`
	Discount       decimal.Decimal `json:"discount"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	EntryType      EntryType       `json:"entry_type,omitempty" validate:"omitempty,oneof=DEBIT CREDIT"`
	Amount         decimal.Decimal `json:"amount"`
}

// CreateVoucherRequest carries a full voucher submission.
type CreateVoucherRequest struct {
	Number        string        `json:"number" validate:"max=50"`
	Series        string        `json:"series" validate:"max=20"`
	Mode          Mode          `json:"mode" validate:"required,oneof=ITEM_INVOICE ACCOUNTING_INVOICE AS_VOUCHER SALES_ORDER"`
	Date          time.Time     `json:"date"`
	PartyLedgerID *int64        `json:"party_ledger_id,omitempty"`
	Narration     *string       `json:"narration,omitempty" validate:"omitempty,max=1000"`
	Lines         []LineRequest `json:"lines" validate:"dive"`
}

// ListVouchersRequest filters voucher listings.
type ListVouchersRequest struct {
	Mode          *Mode      `json:"mode,omitempty" validate:"omitempty,oneof=ITEM_INVOICE ACCOUNTING_INVOICE AS_VOUCHER SALES_ORDER"`
	PartyLedgerID *int64     `json:"party_ledger_id,omitempty"`
	DateFrom      *time.Time `json:"date_from,omitempty"`
	DateTo        *time.Time `json:"date_to,omitempty"`
	Limit         int        `json:"limit" validate:"gte=0,lte=1000"`
	Offset        int        `json:"offset" validate:"gte=0"`
}

var (
	// ErrNotFound indicates the voucher does not exist. It wraps the
	// shared sentinel so httpx.RespondError maps it to a 404.
	ErrNotFound = fmt.Errorf("voucher: %w", shared.ErrNotFound)
	// ErrDuplicateNumber indicates the number is taken within the series.
	ErrDuplicateNumber = errors.New("voucher: number already used in series")
)

// ValidationError carries the field-keyed error map produced by the
// validation state machine. It is always recoverable: callers return the
// map to the submitting form instead of treating it as a fault.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "voucher: validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("voucher: validation failed: %s", strings.Join(keys, ", "))
}

// ComputationError indicates invalid numeric input reaching the line
// computer. It points at a data error upstream and is never retried.
type ComputationError struct {
	Field  string
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("voucher: compute %s: %s", e.Field, e.Reason)
}
