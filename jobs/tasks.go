package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/wardline/wardline/internal/dashboard"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup refreshes cached dashboard inputs.
	TaskDashboardWarmup = "dashboard:warmup"
	// WarmupCron is the default schedule for the warmup task.
	WarmupCron = "*/5 * * * *"
)

// WarmupPayload selects the roles to warm; empty means every role.
type WarmupPayload struct {
	Roles []string `json:"roles,omitempty"`
	RunID string   `json:"run_id,omitempty"`
}

// RoleIDs validates the requested roles.
func (p WarmupPayload) RoleIDs() ([]dashboard.RoleID, error) {
	out := make([]dashboard.RoleID, 0, len(p.Roles))
	for _, role := range p.Roles {
		id := dashboard.RoleID(role)
		if _, ok := dashboard.ProfileFor(id); !ok {
			return nil, fmt.Errorf("jobs: unknown role %q", role)
		}
		out = append(out, id)
	}
	return out, nil
}

// NewWarmupTask constructs a warmup task. A payload with a RunID gets it as
// the asynq task id so duplicate enqueues collapse.
func NewWarmupTask(payload WarmupPayload) (*asynq.Task, error) {
	if _, err := payload.RoleIDs(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	opts := []asynq.Option{asynq.Queue(QueueDefault), asynq.MaxRetry(3)}
	if payload.RunID != "" {
		opts = append(opts, asynq.TaskID(payload.RunID))
	}
	return asynq.NewTask(TaskDashboardWarmup, data, opts...), nil
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}
