package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wardline/wardline/internal/records"
)

// FailureRecorder counts failed fetches per dataset.
type FailureRecorder interface {
	FeedFailure(ds Dataset)
}

// LoaderOptions tunes a Loader. Zero values disable the corresponding limit.
type LoaderOptions struct {
	Timeout  time.Duration
	Limit    int
	Logger   *slog.Logger
	Failures FailureRecorder
}

// Loader fetches several datasets in parallel and joins them into a Batch.
type Loader struct {
	source   Source
	timeout  time.Duration
	limit    int
	logger   *slog.Logger
	failures FailureRecorder
}

// NewLoader wraps source with the given options.
func NewLoader(source Source, opts LoaderOptions) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		source:   source,
		timeout:  opts.Timeout,
		limit:    opts.Limit,
		logger:   logger,
		failures: opts.Failures,
	}
}

// Load fetches every dataset concurrently and waits for all of them. A failed
// fetch is logged, counted and contributes an empty list; it never cancels the
// other fetches. The batch is always complete; the error joins the failures
// so callers can tell a partial batch from a full one.
func (l *Loader) Load(ctx context.Context, datasets []Dataset) (Batch, error) {
	batch := make(Batch, len(datasets))
	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	for _, ds := range datasets {
		g.Go(func() error {
			list, err := l.fetch(ctx, ds)
			mu.Lock()
			batch[ds] = list
			if err != nil {
				errs = append(errs, fmt.Errorf("feed: %s: %w", ds, err))
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return batch, errors.Join(errs...)
}

func (l *Loader) fetch(ctx context.Context, ds Dataset) ([]records.Record, error) {
	if l.source == nil {
		return []records.Record{}, nil
	}
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	start := time.Now()
	list, err := l.source.List(ctx, ds, ListParams{Limit: l.limit})
	if err != nil {
		l.logger.Warn("feed fetch failed",
			slog.String("dataset", string(ds)),
			slog.Duration("elapsed", time.Since(start)),
			slog.Any("error", err))
		if l.failures != nil {
			l.failures.FeedFailure(ds)
		}
		return []records.Record{}, err
	}
	if list == nil {
		list = []records.Record{}
	}
	l.logger.Debug("feed fetch", slog.String("dataset", string(ds)), slog.Int("count", len(list)))
	return list, nil
}
