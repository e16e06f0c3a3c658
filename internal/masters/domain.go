// Package masters holds the ledger, group, stock item, and GST
// classification master data consumed by voucher entry and reports.
package masters

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// LedgerGroup is a node in the ledger group tree.
type LedgerGroup struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	ParentID *int64 `json:"parent_id,omitempty" db:"parent_id"`
}

// Ledger is an account that voucher lines post against. Party ledgers
// additionally carry jurisdiction and credit settings used by tax
// splitting and outstanding reports.
type Ledger struct {
	ID             int64           `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	GroupID        int64           `json:"group_id" db:"group_id"`
	IsParty        bool            `json:"is_party" db:"is_party"`
	StateCode      *string         `json:"state_code,omitempty" db:"state_code"`
	GSTIN          *string         `json:"gstin,omitempty" db:"gstin"`
	CreditLimit    decimal.Decimal `json:"credit_limit" db:"credit_limit"`
	CreditDays     int             `json:"credit_days" db:"credit_days"`
	OpeningBalance decimal.Decimal `json:"opening_balance" db:"opening_balance"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// StockItem is an inventory item referenced by item-mode voucher lines.
type StockItem struct {
	ID             int64           `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	Unit           string          `json:"unit" db:"unit"`
	HSNCode        *string         `json:"hsn_code,omitempty" db:"hsn_code"`
	GSTRatePercent decimal.Decimal `json:"gst_rate_percent" db:"gst_rate_percent"`
	OnHand         decimal.Decimal `json:"on_hand" db:"on_hand"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// GstClassification maps an HSN code to its flat GST rate.
type GstClassification struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	HSNCode     string          `json:"hsn_code" db:"hsn_code"`
	RatePercent decimal.Decimal `json:"rate_percent" db:"rate_percent"`
}

// CreateLedgerRequest creates a ledger master.
type CreateLedgerRequest struct {
	Name           string          `json:"name" validate:"required,max=200"`
	GroupID        int64           `json:"group_id" validate:"required,gt=0"`
	IsParty        bool            `json:"is_party"`
	StateCode      *string         `json:"state_code,omitempty" validate:"omitempty,max=2"`
	GSTIN          *string         `json:"gstin,omitempty" validate:"omitempty,len=15"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	CreditDays     int             `json:"credit_days" validate:"gte=0,lte=365"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// CreateStockItemRequest creates a stock item master.
type CreateStockItemRequest struct {
	Name           string          `json:"name" validate:"required,max=200"`
	Unit           string          `json:"unit" validate:"required,max=20"`
	HSNCode        *string         `json:"hsn_code,omitempty" validate:"omitempty,max=10"`
	GSTRatePercent decimal.Decimal `json:"gst_rate_percent"`
	OnHand         decimal.Decimal `json:"on_hand"`
}

// ErrNotFound indicates a master record does not exist. It wraps the
// shared sentinel so httpx.RespondError maps it to a 404.
var ErrNotFound = fmt.Errorf("masters: %w", shared.ErrNotFound)
