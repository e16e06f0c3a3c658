package outstanding

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// SnapshotStore caches computed reports in Redis. Writes carry the
// generation observed when computation started; a write that lost to a
// newer refresh is discarded so a slow recompute can never overwrite a
// fresher snapshot.
type SnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	gen    atomic.Uint64
}

// NewSnapshotStore constructs a store. A nil client disables caching.
func NewSnapshotStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl, logger: logger}
}

// Generation returns the token a computation must capture before it
// starts reading bills.
func (s *SnapshotStore) Generation() uint64 {
	if s == nil {
		return 0
	}
	return s.gen.Load()
}

// Invalidate marks all in-flight computations stale.
func (s *SnapshotStore) Invalidate() {
	if s == nil {
		return
	}
	s.gen.Add(1)
}

func snapshotKey(asOf time.Time, groupBy GroupBy) string {
	return fmt.Sprintf("outstanding:snapshot:%s:%s", asOf.Format("2006-01-02"), groupBy)
}

// Get returns the cached report for the as-of date, if present.
func (s *SnapshotStore) Get(ctx context.Context, asOf time.Time, groupBy GroupBy) (*Report, bool) {
	if s == nil || s.client == nil {
		return nil, false
	}
	data, err := s.client.Get(ctx, snapshotKey(asOf, groupBy)).Bytes()
	if err != nil {
		return nil, false
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		if s.logger != nil {
			s.logger.Warn("outstanding snapshot decode", slog.Any("error", err))
		}
		return nil, false
	}
	return &report, true
}

// Put stores a computed report. A computation superseded by a newer
// generation fails with shared.ErrStaleSnapshot and leaves the cache
// untouched.
func (s *SnapshotStore) Put(ctx context.Context, report *Report, startGen uint64) error {
	if s == nil || s.client == nil {
		return nil
	}
	if s.gen.Load() != startGen {
		return fmt.Errorf("snapshot %s %s: %w",
			report.AsOf.Format("2006-01-02"), report.GroupBy, shared.ErrStaleSnapshot)
	}
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, snapshotKey(report.AsOf, report.GroupBy), data, s.ttl).Err()
}
