package voucher

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// State enumerates validation states. A voucher moves
// Draft -> Validating -> Valid | Invalid; only Valid permits persistence,
// and Invalid carries the field error map back to the draft form.
type State string

const (
	StateDraft      State = "DRAFT"
	StateValidating State = "VALIDATING"
	StateValid      State = "VALID"
	StateInvalid    State = "INVALID"
)

// Result is the outcome of one validation pass over a voucher snapshot.
type Result struct {
	State  State             `json:"state"`
	Errors map[string]string `json:"errors,omitempty"`
}

// OK reports whether the voucher may be persisted.
func (r Result) OK() bool {
	return r.State == StateValid
}

// Err converts an invalid result into a ValidationError, or nil.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Fields: r.Errors}
}

// LookupResolver resolves line references against master data. Unknown
// references become validation failures, not faults; only genuine I/O
// errors propagate.
type LookupResolver interface {
	LedgerExists(ctx context.Context, id int64) (bool, error)
	ItemExists(ctx context.Context, id int64) (bool, error)
	StockOnHand(ctx context.Context, itemID int64) (decimal.Decimal, error)
}

// Validator checks voucher snapshots against the mode-specific rules.
type Validator struct {
	lookup        LookupResolver
	stockTracking bool
}

// NewValidator constructs a validator. With stockTracking enabled, item
// quantities are checked against available stock.
func NewValidator(lookup LookupResolver, stockTracking bool) *Validator {
	return &Validator{lookup: lookup, stockTracking: stockTracking}
}

// Validate runs every rule over the voucher and reports all violated
// fields at once. Validation never mutates the voucher and never corrects
// a value silently; failures block submission until the caller fixes the
// draft and revalidates.
func (v *Validator) Validate(ctx context.Context, vch *Voucher) (Result, error) {
	fields := map[string]string{}

	if vch.Date.IsZero() {
		fields["date"] = "Date is required"
	}
	if vch.Number == "" {
		fields["number"] = "Voucher number is required"
	}
	if !vch.Mode.Valid() {
		fields["mode"] = "Unknown voucher mode"
	}
	if vch.Mode.RequiresParty() && vch.PartyLedgerID == nil {
		fields["party"] = "Party ledger is required"
	}

	if len(vch.Lines) == 0 {
		fields["lines"] = "At least one line is required"
	}

	for i, line := range vch.Lines {
		if err := v.validateLine(ctx, vch.Mode, i, line, fields); err != nil {
			return Result{State: StateValidating}, err
		}
	}

	if vch.Mode == ModeAsVoucher {
		totals := AggregateEntries(vch.Lines)
		if !totals.Balanced {
			fields["lines"] = "Total debit must equal total credit"
		}
	}

	if len(fields) > 0 {
		return Result{State: StateInvalid, Errors: fields}, nil
	}
	return Result{State: StateValid}, nil
}

func (v *Validator) validateLine(ctx context.Context, mode Mode, idx int, line Line, fields map[string]string) error {
	key := func(name string) string { return fmt.Sprintf("lines[%d].%s", idx, name) }

	switch line.Kind {
	case LineKindItem:
		if !mode.ItemBased() {
			fields[key("kind")] = "Item lines are not allowed in this mode"
			return nil
		}
		if line.ItemID == nil {
			fields[key("item")] = "Item is required"
		} else if v.lookup != nil {
			ok, err := v.lookup.ItemExists(ctx, *line.ItemID)
			if err != nil {
				return fmt.Errorf("voucher: resolve item %d: %w", *line.ItemID, err)
			}
			if !ok {
				fields[key("item")] = "Unknown item reference"
			}
		}
		if !line.Quantity.IsPositive() {
			fields[key("quantity")] = "Quantity must be greater than zero"
		} else if v.stockTracking && line.ItemID != nil && v.lookup != nil {
			onHand, err := v.lookup.StockOnHand(ctx, *line.ItemID)
			if err != nil {
				return fmt.Errorf("voucher: stock for item %d: %w", *line.ItemID, err)
			}
			if line.Quantity.GreaterThan(onHand) {
				fields[key("quantity")] = "Quantity exceeds available stock"
			}
		}
		// Discount beyond base plus tax is a data-entry mistake the user
		// must see, not something the computer clamps away.
		base := line.Quantity.Mul(line.Rate)
		taxAmount := base.Mul(line.TaxRatePercent).Div(hundred)
		if line.Discount.GreaterThan(base.Add(taxAmount)) {
			fields[key("discount")] = "Discount exceeds line value"
		}
	case LineKindLedger:
		if mode.ItemBased() {
			fields[key("kind")] = "Ledger lines are not allowed in this mode"
			return nil
		}
		if line.LedgerID == nil {
			fields[key("ledger")] = "Ledger is required"
		} else if v.lookup != nil {
			ok, err := v.lookup.LedgerExists(ctx, *line.LedgerID)
			if err != nil {
				return fmt.Errorf("voucher: resolve ledger %d: %w", *line.LedgerID, err)
			}
			if !ok {
				fields[key("ledger")] = "Unknown ledger reference"
			}
		}
		if mode == ModeAsVoucher && line.EntryType != EntryDebit && line.EntryType != EntryCredit {
			fields[key("entry_type")] = "Entry must be debit or credit"
		}
	default:
		fields[key("kind")] = "Unknown line kind"
	}
	return nil
}
