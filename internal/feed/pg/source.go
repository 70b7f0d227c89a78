// Package pg lists hospital records straight from the backend's Postgres
// schema.
package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wardline/wardline/internal/feed"
	"github.com/wardline/wardline/internal/records"
)

// DefaultTables maps each dataset to its table.
var DefaultTables = map[feed.Dataset]string{
	feed.Patients:        "patients",
	feed.Appointments:    "appointments",
	feed.Admissions:      "admissions",
	feed.Invoices:        "invoices",
	feed.LabOrders:       "lab_orders",
	feed.LabResults:      "lab_results",
	feed.PharmacyOrders:  "pharmacy_orders",
	feed.InventoryStocks: "inventory_stocks",
	feed.DispenseLogs:    "dispense_logs",
}

// ErrUnknownDataset is returned for datasets without a configured table.
var ErrUnknownDataset = errors.New("feed/pg: no table for dataset")

// Querier is the subset of pgxpool.Pool the source needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Source implements feed.Source on Postgres. Rows are aggregated to a JSON
// array server side so column types reach the aggregator the same way the
// REST backend would send them.
type Source struct {
	db     Querier
	tables map[feed.Dataset]string
}

// NewSource builds a Source. Tables default to DefaultTables.
func NewSource(db Querier, tables map[feed.Dataset]string) *Source {
	if len(tables) == 0 {
		tables = DefaultTables
	}
	return &Source{db: db, tables: tables}
}

// List returns the newest rows of the dataset's table.
func (s *Source) List(ctx context.Context, ds feed.Dataset, params feed.ListParams) ([]records.Record, error) {
	table, ok := s.tables[ds]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, ds)
	}
	sql, args := listQuery(table, params)
	var payload []byte
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&payload); err != nil {
		return nil, fmt.Errorf("feed/pg: %s: %w", ds, err)
	}
	list, err := records.DecodeList(payload)
	if err != nil {
		return nil, fmt.Errorf("feed/pg: %s: %w", ds, err)
	}
	return list, nil
}

// listQuery builds the aggregate query. A nil limit means LIMIT ALL.
func listQuery(table string, params feed.ListParams) (string, []any) {
	var limit any
	if params.Limit > 0 {
		limit = params.Limit
	}
	sql := fmt.Sprintf(
		"SELECT COALESCE(json_agg(t), '[]'::json) FROM (SELECT * FROM %s ORDER BY created_at DESC LIMIT $1) t",
		pgx.Identifier{table}.Sanitize(),
	)
	return sql, []any{limit}
}
