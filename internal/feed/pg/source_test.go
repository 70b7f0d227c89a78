package pg

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardline/wardline/internal/feed"
)

type stubRow struct {
	payload []byte
	err     error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.payload
	return nil
}

type stubQuerier struct {
	row  stubRow
	sql  string
	args []any
}

func (q *stubQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sql = sql
	q.args = args
	return q.row
}

func TestSourceListDecodesAggregate(t *testing.T) {
	q := &stubQuerier{row: stubRow{payload: []byte(`[{"id":1,"quantity":"4","reorder_level":10}]`)}}
	src := NewSource(q, nil)

	list, err := src.List(context.Background(), feed.InventoryStocks, feed.ListParams{Limit: 100})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 4.0, list[0].Number("quantity"))
	assert.Contains(t, q.sql, `FROM "inventory_stocks"`)
	assert.Equal(t, []any{100}, q.args)
}

func TestSourceListWithoutLimit(t *testing.T) {
	q := &stubQuerier{row: stubRow{payload: []byte(`[]`)}}
	src := NewSource(q, nil)

	list, err := src.List(context.Background(), feed.LabOrders, feed.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Contains(t, q.sql, "ORDER BY created_at DESC LIMIT $1")
	require.Len(t, q.args, 1)
	assert.Nil(t, q.args[0])
}

func TestSourceListErrors(t *testing.T) {
	q := &stubQuerier{row: stubRow{err: errors.New("relation does not exist")}}
	src := NewSource(q, map[feed.Dataset]string{feed.Patients: "patients"})

	_, err := src.List(context.Background(), feed.Patients, feed.ListParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed/pg: patients")

	_, err = src.List(context.Background(), feed.Invoices, feed.ListParams{})
	assert.ErrorIs(t, err, ErrUnknownDataset)
}
