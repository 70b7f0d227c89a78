// Package cli implements the operator subcommands of the wardline binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/wardline/wardline/internal/dashboard"
	"github.com/wardline/wardline/jobs"
)

// Enqueuer submits warmup runs.
type Enqueuer interface {
	EnqueueWarmup(ctx context.Context, roles ...string) (string, error)
}

// JobsCLI wraps manual management helpers for the warmup queue.
type JobsCLI struct {
	enqueuer  Enqueuer
	inspector jobs.QueueInspector
	closers   []io.Closer
}

// NewJobsCLI initialises the helpers against the given Redis connection.
func NewJobsCLI(redisOpts asynq.RedisClientOpt) *JobsCLI {
	client := jobs.NewClient(redisOpts)
	inspector := asynq.NewInspector(redisOpts)
	return &JobsCLI{enqueuer: client, inspector: inspector, closers: []io.Closer{client, inspector}}
}

// NewJobsCLIWith builds the helpers from existing collaborators.
func NewJobsCLIWith(enqueuer Enqueuer, inspector jobs.QueueInspector) *JobsCLI {
	return &JobsCLI{enqueuer: enqueuer, inspector: inspector}
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var errs []error
	for _, closer := range c.closers {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}

// WarmupOptions defines the flags of the warmup command.
type WarmupOptions struct {
	Roles  []string
	Stdout io.Writer
	Stderr io.Writer
}

// WarmupCommand enqueues a warmup run and prints its run id.
func (c *JobsCLI) WarmupCommand(ctx context.Context, opts WarmupOptions) int {
	stdout, stderr := streams(opts.Stdout, opts.Stderr)
	if c == nil || c.enqueuer == nil {
		_, _ = fmt.Fprintln(stderr, "warmup: queue client not configured")
		return 1
	}
	for _, role := range opts.Roles {
		if _, ok := dashboard.ProfileFor(dashboard.RoleID(role)); !ok {
			_, _ = fmt.Fprintf(stderr, "warmup: unknown role %q\n", role)
			return 1
		}
	}
	runID, err := c.enqueuer.EnqueueWarmup(ctx, opts.Roles...)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "warmup: %v\n", err)
		return 1
	}
	scope := "all profiles"
	if len(opts.Roles) > 0 {
		scope = strings.Join(opts.Roles, ", ")
	}
	_, _ = fmt.Fprintf(stdout, "warmup %s enqueued for %s\n", runID, scope)
	return 0
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string
	Pending   int
	Active    int
	Scheduled int
	Retry     int
	Failed    int
}

// InspectQueue reports the metrics of the default queue.
func (c *JobsCLI) InspectQueue() (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
		stats.Failed = info.Failed
	}
	return stats, nil
}

// QueueCommand prints the queue stats.
func (c *JobsCLI) QueueCommand(stdout, stderr io.Writer) int {
	stdout, stderr = streams(stdout, stderr)
	stats, err := c.InspectQueue()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "queue: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "queue %s: pending=%d active=%d scheduled=%d retry=%d failed=%d\n",
		stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry, stats.Failed)
	return 0
}

func streams(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return stdout, stderr
}
