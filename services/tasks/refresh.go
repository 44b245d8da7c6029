package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"furever/models"
)

const TypeAvailabilityRefresh = "availability:refresh"

// NewRefreshTask builds an asynq task that silently refreshes one
// provider's calendar.
func NewRefreshTask(payload models.RefreshPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAvailabilityRefresh, b), nil
}
