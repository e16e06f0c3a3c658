package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOutstandingRefresh recomputes the outstanding report snapshots.
	TaskOutstandingRefresh = "outstanding:refresh"
)

// OutstandingRefreshPayload parameterises a snapshot refresh. A zero
// AsOf refreshes for the current date.
type OutstandingRefreshPayload struct {
	AsOf time.Time `json:"as_of"`
}

// NewOutstandingRefreshTask constructs an Asynq task.
func NewOutstandingRefreshTask(payload OutstandingRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOutstandingRefresh, data), nil
}
