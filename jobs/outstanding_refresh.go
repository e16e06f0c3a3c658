package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ledgerline/ledgerline/internal/outstanding"
)

// NewOutstandingRefreshHandler returns the Asynq handler for
// TaskOutstandingRefresh. A malformed payload is dropped rather than
// retried.
func NewOutstandingRefreshHandler(svc *outstanding.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload OutstandingRefreshPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if err := svc.Refresh(ctx, payload.AsOf); err != nil {
			logger.Error("outstanding refresh job", slog.Any("error", err))
			return err
		}
		return nil
	}
}
