package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardline/wardline/internal/records"
)

type stubSource struct {
	mu     sync.Mutex
	lists  map[Dataset][]records.Record
	errs   map[Dataset]error
	delay  map[Dataset]time.Duration
	params []ListParams
}

func (s *stubSource) List(ctx context.Context, ds Dataset, params ListParams) ([]records.Record, error) {
	s.mu.Lock()
	s.params = append(s.params, params)
	delay := s.delay[ds]
	s.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := s.errs[ds]; err != nil {
		return nil, err
	}
	return s.lists[ds], nil
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[Dataset]int
}

func (c *countingRecorder) FeedFailure(ds Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[Dataset]int)
	}
	c.counts[ds]++
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoaderIsolatesFailures(t *testing.T) {
	src := &stubSource{
		lists: map[Dataset][]records.Record{
			LabOrders:  {{"id": 1}, {"id": 2}},
			LabResults: {{"id": 3}},
		},
		errs: map[Dataset]error{LabResults: errors.New("boom")},
	}
	rec := &countingRecorder{}
	loader := NewLoader(src, LoaderOptions{Limit: 50, Logger: quietLogger(), Failures: rec})

	batch, err := loader.Load(context.Background(), []Dataset{LabOrders, LabResults, Patients})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed: lab_results: boom")

	assert.Len(t, batch.Get(LabOrders), 2)
	require.NotNil(t, batch[LabResults])
	assert.Empty(t, batch[LabResults])
	assert.Empty(t, batch.Get(Patients))
	assert.Equal(t, 1, rec.counts[LabResults])
	assert.Zero(t, rec.counts[LabOrders])
	for _, p := range src.params {
		assert.Equal(t, 50, p.Limit)
	}
}

func TestLoaderAppliesPerFetchTimeout(t *testing.T) {
	src := &stubSource{
		lists: map[Dataset][]records.Record{Invoices: {{"id": 1}}},
		delay: map[Dataset]time.Duration{DispenseLogs: time.Second},
	}
	rec := &countingRecorder{}
	loader := NewLoader(src, LoaderOptions{Timeout: 20 * time.Millisecond, Logger: quietLogger(), Failures: rec})

	batch, err := loader.Load(context.Background(), []Dataset{Invoices, DispenseLogs})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, batch.Get(Invoices), 1)
	assert.Empty(t, batch.Get(DispenseLogs))
	assert.Equal(t, 1, rec.counts[DispenseLogs])
}

func TestLoaderCompleteBatchHasNoError(t *testing.T) {
	src := &stubSource{lists: map[Dataset][]records.Record{Patients: {{"id": 1}}}}
	loader := NewLoader(src, LoaderOptions{Logger: quietLogger()})

	batch, err := loader.Load(context.Background(), []Dataset{Patients, Admissions})
	require.NoError(t, err)
	assert.Len(t, batch.Get(Patients), 1)
	assert.NotNil(t, batch[Admissions])
}
