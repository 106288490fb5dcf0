package jobs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Job type constants
const (
	// High priority queue
	TypeCampaignDispatch = "campaign:dispatch"

	// Medium priority queue
	TypeTriggersSweep = "campaign:triggers_sweep"
)

// Queue names
const (
	QueueHigh   = "high"
	QueueMedium = "medium"
	QueueLow    = "low"
)

const (
	// dispatchMaxRetry bounds retries of a run that failed on a transient error.
	dispatchMaxRetry = 10
	// dispatchTimeout covers the longest run: a full day of paced sends before the daily cap pauses it.
	dispatchTimeout = 26 * time.Hour
)

// DispatchJobPayload asks a worker to run the dispatch loop of one campaign
type DispatchJobPayload struct {
	CampaignID uuid.UUID `json:"campaign_id"`
}

// NewDispatchTask creates a new campaign dispatch task
func NewDispatchTask(payload DispatchJobPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCampaignDispatch, data,
		asynq.Queue(QueueHigh),
		asynq.MaxRetry(dispatchMaxRetry),
		asynq.Timeout(dispatchTimeout),
	), nil
}

// NewTriggersSweepTask creates the periodic task that fires due campaign triggers
func NewTriggersSweepTask() *asynq.Task {
	return asynq.NewTask(TypeTriggersSweep, nil, asynq.Queue(QueueMedium), asynq.MaxRetry(0))
}

// ParseDispatchPayload decodes a dispatch task payload
func ParseDispatchPayload(task *asynq.Task) (DispatchJobPayload, error) {
	var payload DispatchJobPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DispatchJobPayload{}, err
	}
	return payload, nil
}
