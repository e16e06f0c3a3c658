package outstanding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/ledgerline/internal/observability"
	"github.com/ledgerline/ledgerline/internal/shared"
)

// RepositoryPort is the storage surface the service needs. It returns
// raw bill facts only; all derived values are computed in this package.
type RepositoryPort interface {
	ListOutstandingBills(ctx context.Context, filter BillFilter) ([]Bill, error)
}

// ServiceConfig carries report tuning.
type ServiceConfig struct {
	// InterestRatePercent is the simple annual rate applied to overdue
	// amounts.
	InterestRatePercent decimal.Decimal
}

// Service builds outstanding reports from raw bills.
type Service struct {
	repo      RepositoryPort
	snapshots *SnapshotStore
	logger    *slog.Logger
	metrics   *observability.Metrics
	cfg       ServiceConfig
	now       func() time.Time
}

func NewService(repo RepositoryPort, snapshots *SnapshotStore, logger *slog.Logger, metrics *observability.Metrics, cfg ServiceConfig) *Service {
	return &Service{
		repo:      repo,
		snapshots: snapshots,
		logger:    logger,
		metrics:   metrics,
		cfg:       cfg,
		now:       time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// Invalidate marks cached snapshots stale. Call it whenever bills or
// party masters change.
func (s *Service) Invalidate() {
	s.snapshots.Invalidate()
}

// Report produces the outstanding view for the request's as-of date.
// Unfiltered requests are served from the snapshot cache when possible.
func (s *Service) Report(ctx context.Context, req ReportRequest) (*Report, error) {
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = s.now()
	}
	groupBy := req.GroupBy
	if groupBy == "" {
		groupBy = GroupByParty
	}
	if groupBy != GroupByParty && groupBy != GroupByGroup {
		return nil, fmt.Errorf("outstanding: unknown group_by %q", groupBy)
	}
	if req.Bucket != nil && !req.Bucket.Valid() {
		return nil, fmt.Errorf("outstanding: unknown bucket %q", *req.Bucket)
	}
	if req.Risk != nil && !req.Risk.Valid() {
		return nil, fmt.Errorf("outstanding: unknown risk %q", *req.Risk)
	}

	cacheable := req.Bucket == nil && req.Risk == nil && req.PartyID == nil &&
		req.DateFrom == nil && req.DateTo == nil
	if cacheable {
		if report, ok := s.snapshots.Get(ctx, asOf, groupBy); ok {
			s.metrics.ReportBuilt(string(groupBy))
			return report, nil
		}
	}

	startGen := s.snapshots.Generation()
	report, err := s.build(ctx, asOf, groupBy, req)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.storeSnapshot(ctx, report, startGen)
	}
	s.metrics.ReportBuilt(string(groupBy))
	return report, nil
}

// Summary returns the roll-up view for the request. Bill detail is
// never carried: the summary endpoint pays for classification (the
// roll-ups are derived per bill) but not for the per-bill payload.
func (s *Service) Summary(ctx context.Context, req ReportRequest) (*Report, error) {
	report, err := s.Report(ctx, req)
	if err != nil {
		return nil, err
	}
	summary := *report
	summary.Bills = nil
	return &summary, nil
}

// Refresh recomputes and stores unfiltered snapshots for both roll-up
// keys. The background worker calls it on a schedule.
func (s *Service) Refresh(ctx context.Context, asOf time.Time) error {
	if asOf.IsZero() {
		asOf = s.now()
	}
	startGen := s.snapshots.Generation()
	for _, groupBy := range []GroupBy{GroupByParty, GroupByGroup} {
		report, err := s.build(ctx, asOf, groupBy, ReportRequest{})
		if err != nil {
			return fmt.Errorf("outstanding: refresh %s: %w", groupBy, err)
		}
		s.storeSnapshot(ctx, report, startGen)
	}
	if s.logger != nil {
		s.logger.Info("outstanding snapshots refreshed",
			slog.String("as_of", asOf.Format("2006-01-02")))
	}
	return nil
}

// storeSnapshot writes the report to the cache. Losing to a newer
// generation is expected during refresh races and only logged at debug.
func (s *Service) storeSnapshot(ctx context.Context, report *Report, startGen uint64) {
	err := s.snapshots.Put(ctx, report, startGen)
	if err == nil || s.logger == nil {
		return
	}
	if errors.Is(err, shared.ErrStaleSnapshot) {
		s.logger.Debug("outstanding snapshot discarded", slog.Any("error", err))
		return
	}
	s.logger.Warn("outstanding snapshot store", slog.Any("error", err))
}

func (s *Service) build(ctx context.Context, asOf time.Time, groupBy GroupBy, req ReportRequest) (*Report, error) {
	bills, err := s.repo.ListOutstandingBills(ctx, BillFilter{
		PartyLedgerID: req.PartyID,
		DateFrom:      req.DateFrom,
		DateTo:        req.DateTo,
	})
	if err != nil {
		return nil, fmt.Errorf("outstanding: list bills: %w", err)
	}

	classified := s.classify(bills, asOf)
	if req.Bucket != nil || req.Risk != nil {
		filtered := classified[:0:0]
		for _, bill := range classified {
			if req.Bucket != nil && bill.Bucket != *req.Bucket {
				continue
			}
			if req.Risk != nil && bill.Risk != *req.Risk {
				continue
			}
			filtered = append(filtered, bill)
		}
		classified = filtered
	}

	grandTotal := decimal.Zero
	for _, bill := range classified {
		grandTotal = grandTotal.Add(bill.OutstandingAmount)
	}
	return &Report{
		AsOf:                asOf,
		GroupBy:             groupBy,
		Bills:               classified,
		Summaries:           Aggregate(classified, groupBy),
		GrandTotal:          grandTotal,
		FormattedGrandTotal: FormatAmount(grandTotal),
	}, nil
}

// classify derives ageing, interest, utilisation, and risk for each
// bill. Utilisation is party level: the party's entire outstanding
// against its credit limit, so every bill of an over-extended party
// carries the elevated score.
func (s *Service) classify(bills []Bill, asOf time.Time) []ClassifiedBill {
	partyOutstanding := make(map[int64]decimal.Decimal)
	for _, bill := range bills {
		partyOutstanding[bill.PartyLedgerID] = partyOutstanding[bill.PartyLedgerID].Add(bill.Outstanding())
	}

	classified := make([]ClassifiedBill, 0, len(bills))
	for _, bill := range bills {
		outstanding := bill.Outstanding()
		ageing := Classify(bill.DueDate, asOf)
		utilization := CreditUtilization(partyOutstanding[bill.PartyLedgerID], bill.CreditLimit)
		classified = append(classified, ClassifiedBill{
			Bill:              bill,
			OutstandingAmount: outstanding,
			OverdueDays:       ageing.OverdueDays,
			Bucket:            ageing.Bucket,
			InterestAmount:    Interest(outstanding, s.cfg.InterestRatePercent, ageing.OverdueDays),
			Utilization:       utilization,
			Risk:              ScoreRisk(ageing.Bucket, utilization),
		})
	}
	return classified
}
