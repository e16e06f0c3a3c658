package voucher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/observability"
	"github.com/ledgerline/ledgerline/internal/tax"
)

// RepositoryPort defines persistence for vouchers. The repository is
// expected to re-run validation server-side before writes as a second
// line of defense; the service always hands it validated snapshots.
type RepositoryPort interface {
	CreateVoucher(ctx context.Context, vch *Voucher) (int64, error)
	UpdateVoucher(ctx context.Context, id int64, vch *Voucher) error
	GetVoucher(ctx context.Context, id int64) (*Voucher, error)
	ListVouchers(ctx context.Context, req ListVouchersRequest) ([]Voucher, int, error)
	NextNumber(ctx context.Context, series string, mode Mode) (string, error)
}

// MasterLookup resolves master data for computation and validation.
type MasterLookup interface {
	LookupResolver
	LedgerState(ctx context.Context, ledgerID int64) (string, error)
}

// ServiceConfig carries jurisdiction and stock settings.
type ServiceConfig struct {
	// HomeState is the seller's GST state code.
	HomeState string
	// FallbackScope applies when a party's state is unknown. The
	// substitution is logged, never silent.
	FallbackScope tax.SupplyScope
	// StockTracking enables quantity-versus-stock validation.
	StockTracking bool
}

// Service computes, validates, and persists vouchers. Every submission is
// recomputed from raw inputs; amounts arriving from the client are never
// trusted or mutated in place.
type Service struct {
	repo      RepositoryPort
	lookup    MasterLookup
	validator *Validator
	logger    *slog.Logger
	metrics   *observability.Metrics
	cfg       ServiceConfig
	now       func() time.Time
}

// NewService constructs a voucher service.
func NewService(repo RepositoryPort, lookup MasterLookup, logger *slog.Logger, metrics *observability.Metrics, cfg ServiceConfig) *Service {
	if cfg.FallbackScope == "" {
		cfg.FallbackScope = tax.ScopeIntrastate
	}
	return &Service{
		repo:      repo,
		lookup:    lookup,
		validator: NewValidator(lookup, cfg.StockTracking),
		logger:    logger,
		metrics:   metrics,
		cfg:       cfg,
		now:       time.Now,
	}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Preview computes lines and totals for an in-progress draft without
// validating references or persisting anything. Entry forms call this on
// every field edit instead of mutating amounts client-side.
func (s *Service) Preview(ctx context.Context, req CreateVoucherRequest) (*Voucher, error) {
	return s.build(ctx, req)
}

// Create validates and persists a new voucher.
func (s *Service) Create(ctx context.Context, req CreateVoucherRequest) (*Voucher, error) {
	vch, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	if vch.Number == "" {
		number, err := s.repo.NextNumber(ctx, vch.Series, vch.Mode)
		if err != nil {
			return nil, fmt.Errorf("voucher: next number: %w", err)
		}
		vch.Number = number
	}
	vch.GUID = uuid.NewString()
	result, err := s.validator.Validate(ctx, vch)
	if err != nil {
		return nil, err
	}
	if !result.OK() {
		return nil, result.Err()
	}
	id, err := s.repo.CreateVoucher(ctx, vch)
	if err != nil {
		return nil, err
	}
	vch.ID = id
	s.metrics.VoucherComputed(string(vch.Mode))
	return vch, nil
}

// Update recomputes and revalidates an existing voucher, then persists
// the replacement snapshot. Persisted vouchers change only through this
// path.
func (s *Service) Update(ctx context.Context, id int64, req CreateVoucherRequest) (*Voucher, error) {
	existing, err := s.repo.GetVoucher(ctx, id)
	if err != nil {
		return nil, err
	}
	vch, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	vch.GUID = existing.GUID
	if vch.Number == "" {
		vch.Number = existing.Number
	}
	if vch.Series == "" {
		vch.Series = existing.Series
	}
	result, err := s.validator.Validate(ctx, vch)
	if err != nil {
		return nil, err
	}
	if !result.OK() {
		return nil, result.Err()
	}
	if err := s.repo.UpdateVoucher(ctx, id, vch); err != nil {
		return nil, err
	}
	vch.ID = id
	s.metrics.VoucherComputed(string(vch.Mode))
	return vch, nil
}

// Get returns a voucher with its lines.
func (s *Service) Get(ctx context.Context, id int64) (*Voucher, error) {
	return s.repo.GetVoucher(ctx, id)
}

// List returns vouchers matching the filter along with the total count.
func (s *Service) List(ctx context.Context, req ListVouchersRequest) ([]Voucher, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.ListVouchers(ctx, req)
}

// Validate runs the validation state machine over a draft without
// persisting. Entry forms use this to show field errors before submit.
func (s *Service) Validate(ctx context.Context, req CreateVoucherRequest) (Result, error) {
	vch, err := s.build(ctx, req)
	if err != nil {
		return Result{}, err
	}
	return s.validator.Validate(ctx, vch)
}

// build assembles a computed voucher snapshot from raw input.
func (s *Service) build(ctx context.Context, req CreateVoucherRequest) (*Voucher, error) {
	intrastate, partyState, err := s.resolveScope(ctx, req)
	if err != nil {
		return nil, err
	}
	lines, err := BuildLines(req.Lines, intrastate)
	if err != nil {
		return nil, err
	}
	vch := &Voucher{
		Number:        req.Number,
		Series:        req.Series,
		Mode:          req.Mode,
		Date:          req.Date,
		PartyLedgerID: req.PartyLedgerID,
		Narration:     req.Narration,
		Lines:         lines,
	}
	if partyState != "" {
		vch.PlaceOfSupply = &partyState
	}
	totals := AggregateLines(lines)
	vch.Subtotal = totals.Subtotal
	vch.CGSTTotal = totals.CGSTTotal
	vch.SGSTTotal = totals.SGSTTotal
	vch.IGSTTotal = totals.IGSTTotal
	vch.DiscountTotal = totals.DiscountTotal
	vch.GrandTotal = totals.GrandTotal
	return vch, nil
}

// resolveScope determines intrastate versus interstate supply by
// comparing the party's state with the home state.
func (s *Service) resolveScope(ctx context.Context, req CreateVoucherRequest) (bool, string, error) {
	partyState := ""
	if req.PartyLedgerID != nil && s.lookup != nil {
		state, err := s.lookup.LedgerState(ctx, *req.PartyLedgerID)
		if err != nil {
			return false, "", fmt.Errorf("voucher: party state: %w", err)
		}
		partyState = state
	}
	scope, fellBack := tax.ResolveScope(s.cfg.HomeState, partyState, s.cfg.FallbackScope)
	if fellBack && s.logger != nil {
		s.logger.Warn("jurisdiction unknown, using fallback supply scope",
			slog.String("scope", string(scope)),
			slog.String("home_state", s.cfg.HomeState),
			slog.Any("party_ledger_id", req.PartyLedgerID))
	}
	return scope.Intrastate(), partyState, nil
}
