package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wardline/wardline/internal/feed"
)

// Loader fetches a set of datasets as one batch.
type Loader interface {
	Load(ctx context.Context, datasets []feed.Dataset) (feed.Batch, error)
}

// Recorder observes aggregation timings.
type Recorder interface {
	ObserveAggregate(role string, elapsed time.Duration)
}

// Service loads a profile's inputs through the cache and aggregates them.
type Service struct {
	loader   Loader
	cache    *Cache
	now      func() time.Time
	loc      *time.Location
	format   Formatter
	recorder Recorder
	logger   *slog.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithNow overrides the clock.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the location in which "today" is judged.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithFormatter sets highlight formatting.
func WithFormatter(f Formatter) Option {
	return func(s *Service) { s.format = f }
}

// WithRecorder reports aggregation timings.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires a Loader with a Cache helper. A nil cache disables caching.
func NewService(loader Loader, cache *Cache, opts ...Option) *Service {
	s := &Service{
		loader: loader,
		cache:  cache,
		now:    time.Now,
		loc:    time.Local,
		format: NewFormatter("en", "USD"),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the dashboard for profile. Inputs come from the cache when
// present; aggregation always runs against the current clock.
func (s *Service) Snapshot(ctx context.Context, profile Profile) (Result, error) {
	in, err := s.inputs(ctx, profile)
	if err != nil {
		return Result{}, err
	}
	start := time.Now()
	res := Aggregate(profile, in, Options{Now: s.now().In(s.loc), Format: s.format})
	if s.recorder != nil {
		s.recorder.ObserveAggregate(string(res.Profile.ID), time.Since(start))
	}
	return res, nil
}

// Warm loads and caches the inputs of every profile in roles, or of all
// profiles when roles is empty.
func (s *Service) Warm(ctx context.Context, roles ...RoleID) error {
	targets := Profiles()
	if len(roles) > 0 {
		targets = targets[:0]
		for _, id := range roles {
			p, ok := ProfileFor(id)
			if !ok {
				return fmt.Errorf("dashboard: unknown role %q", id)
			}
			targets = append(targets, p)
		}
	}
	var errs []error
	for _, p := range targets {
		if _, err := s.inputs(ctx, p); err != nil {
			errs = append(errs, fmt.Errorf("warm %s: %w", p.ID, err))
			continue
		}
		s.logger.Debug("dashboard inputs warmed", slog.String("role", string(p.ID)))
	}
	return errors.Join(errs...)
}

// Invalidate bumps the cache version so the next snapshot refetches.
func (s *Service) Invalidate(ctx context.Context) error {
	ver, err := s.cache.Bump(ctx)
	if err != nil {
		return fmt.Errorf("dashboard: bump cache: %w", err)
	}
	s.logger.Info("dashboard cache bumped", slog.Int64("version", ver))
	return nil
}

func (s *Service) inputs(ctx context.Context, profile Profile) (Inputs, error) {
	loader := func(ctx context.Context) (any, error) {
		if s.loader == nil {
			return Inputs{}, nil
		}
		batch, err := s.loader.Load(ctx, profile.Datasets)
		in := InputsFromBatch(batch)
		if err != nil {
			s.logger.Warn("dashboard inputs incomplete, skipping cache",
				slog.String("role", string(profile.ID)), slog.Any("error", err))
			return Uncached{Value: in}, nil
		}
		return in, nil
	}
	key, err := s.cache.BuildKey(ctx, keyInputs(profile.ID))
	if err != nil {
		return Inputs{}, fmt.Errorf("dashboard: cache key: %w", err)
	}
	var in Inputs
	if err := s.cache.FetchJSON(ctx, key, &in, loader); err != nil {
		return Inputs{}, fmt.Errorf("dashboard: load inputs: %w", err)
	}
	return in, nil
}
