package masters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	cacheKeyLedgers         = "masters:ledgers"
	cacheKeyGroups          = "masters:ledger_groups"
	cacheKeyStockItems      = "masters:stock_items"
	cacheKeyClassifications = "masters:gst_classifications"
)

// Service provides cached master-data reads and write-through creates.
// It also acts as the lookup resolver for voucher validation.
type Service struct {
	repo  *Repository
	cache *Cache
}

// NewService constructs a masters service.
func NewService(repo *Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// GetLedgers returns all ledgers, served from cache when warm.
func (s *Service) GetLedgers(ctx context.Context) ([]Ledger, error) {
	data, err := s.cache.fetch(ctx, cacheKeyLedgers, func(ctx context.Context) (any, error) {
		return s.repo.ListLedgers(ctx)
	})
	if err != nil {
		return nil, err
	}
	return unmarshalList[Ledger](data)
}

// GetLedgerGroups returns the group tree.
func (s *Service) GetLedgerGroups(ctx context.Context) ([]LedgerGroup, error) {
	data, err := s.cache.fetch(ctx, cacheKeyGroups, func(ctx context.Context) (any, error) {
		return s.repo.ListLedgerGroups(ctx)
	})
	if err != nil {
		return nil, err
	}
	return unmarshalList[LedgerGroup](data)
}

// GetStockItems returns all stock items, served from cache when warm.
func (s *Service) GetStockItems(ctx context.Context) ([]StockItem, error) {
	data, err := s.cache.fetch(ctx, cacheKeyStockItems, func(ctx context.Context) (any, error) {
		return s.repo.ListStockItems(ctx)
	})
	if err != nil {
		return nil, err
	}
	return unmarshalList[StockItem](data)
}

// GetGstClassifications returns the HSN/rate table.
func (s *Service) GetGstClassifications(ctx context.Context) ([]GstClassification, error) {
	data, err := s.cache.fetch(ctx, cacheKeyClassifications, func(ctx context.Context) (any, error) {
		return s.repo.ListGstClassifications(ctx)
	})
	if err != nil {
		return nil, err
	}
	return unmarshalList[GstClassification](data)
}

// CreateLedger persists a ledger and invalidates the lookup cache.
func (s *Service) CreateLedger(ctx context.Context, req CreateLedgerRequest) (*Ledger, error) {
	ledger, err := s.repo.CreateLedger(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("masters: create ledger: %w", err)
	}
	s.cache.Invalidate(ctx, cacheKeyLedgers)
	return ledger, nil
}

// CreateStockItem persists a stock item and invalidates the lookup cache.
func (s *Service) CreateStockItem(ctx context.Context, req CreateStockItemRequest) (*StockItem, error) {
	item, err := s.repo.CreateStockItem(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("masters: create stock item: %w", err)
	}
	s.cache.Invalidate(ctx, cacheKeyStockItems)
	return item, nil
}

// GetLedger loads one ledger, bypassing the cache.
func (s *Service) GetLedger(ctx context.Context, id int64) (*Ledger, error) {
	return s.repo.GetLedger(ctx, id)
}

// --- lookup resolver (voucher.MasterLookup) ---

// LedgerExists reports whether the ledger id resolves.
func (s *Service) LedgerExists(ctx context.Context, id int64) (bool, error) {
	_, err := s.repo.GetLedger(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ItemExists reports whether the stock item id resolves.
func (s *Service) ItemExists(ctx context.Context, id int64) (bool, error) {
	_, err := s.repo.GetStockItem(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// StockOnHand returns the available quantity for an item. An unknown
// item reports zero stock; existence is checked separately.
func (s *Service) StockOnHand(ctx context.Context, itemID int64) (decimal.Decimal, error) {
	onHand, err := s.repo.StockOnHand(ctx, itemID)
	if errors.Is(err, ErrNotFound) {
		return decimal.Zero, nil
	}
	return onHand, err
}

// LedgerState returns the party ledger's state code, or "" when the
// ledger has no jurisdiction recorded.
func (s *Service) LedgerState(ctx context.Context, ledgerID int64) (string, error) {
	ledger, err := s.repo.GetLedger(ctx, ledgerID)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if ledger.StateCode == nil {
		return "", nil
	}
	return *ledger.StateCode, nil
}

func unmarshalList[T any](data []byte) ([]T, error) {
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
