package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/wardline/wardline/internal/dashboard"
	jobmetrics "github.com/wardline/wardline/internal/jobs"
)

// Warmer refreshes cached dashboard inputs.
type Warmer interface {
	Warm(ctx context.Context, roles ...dashboard.RoleID) error
}

// WarmupJob handles TaskDashboardWarmup.
type WarmupJob struct {
	Dashboard Warmer
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	Timeout   time.Duration
}

// NewWarmupJob wires dependencies for the warmup handler.
func NewWarmupJob(warmer Warmer, logger *slog.Logger, metrics *jobmetrics.Metrics) *WarmupJob {
	return &WarmupJob{Dashboard: warmer, Logger: logger, Metrics: metrics, Timeout: time.Minute}
}

// Handle processes warmup tasks.
func (j *WarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload WarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("dashboard warmup: decode payload: %v: %w", err, asynq.SkipRetry)
	}
	roles, err := payload.RoleIDs()
	if err != nil {
		return fmt.Errorf("dashboard warmup: %v: %w", err, asynq.SkipRetry)
	}
	if payload.RunID == "" {
		payload.RunID = NewRunID()
	}

	tracker := j.Metrics.Track("dashboard_warmup")
	defer func() { resultErr = tracker.End(resultErr) }()

	logger := j.logger().With(slog.String("run_id", payload.RunID))
	logger.Info("starting dashboard warmup", slog.Any("roles", payload.Roles))
	start := time.Now()

	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}
	if err := j.Dashboard.Warm(ctx, roles...); err != nil {
		logger.Error("dashboard warmup failed", slog.Any("error", err))
		return err
	}

	if len(roles) == 0 {
		for _, p := range dashboard.Profiles() {
			roles = append(roles, p.ID)
		}
	}
	for _, role := range roles {
		j.Metrics.AddWarmed(string(role))
	}
	logger.Info("completed dashboard warmup", slog.Int("profiles", len(roles)), slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *WarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDashboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskDashboardWarmup))
}
