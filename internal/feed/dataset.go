// Package feed is the data-fetch layer: it lists backend records per dataset
// and joins parallel fetches into a batch where every failed fetch
// contributes an empty list.
package feed

import (
	"context"

	"github.com/wardline/wardline/internal/records"
)

// Dataset names one backend list endpoint or table.
type Dataset string

const (
	Patients        Dataset = "patients"
	Appointments    Dataset = "appointments"
	Admissions      Dataset = "admissions"
	Invoices        Dataset = "invoices"
	LabOrders       Dataset = "lab_orders"
	LabResults      Dataset = "lab_results"
	PharmacyOrders  Dataset = "pharmacy_orders"
	InventoryStocks Dataset = "inventory_stocks"
	DispenseLogs    Dataset = "dispense_logs"
)

// All lists every dataset in a stable order.
var All = []Dataset{
	Patients, Appointments, Admissions, Invoices, LabOrders,
	LabResults, PharmacyOrders, InventoryStocks, DispenseLogs,
}

// ListParams scopes a single list call. A zero Limit lists every row.
type ListParams struct {
	Limit int
}

// Source lists the records of a dataset.
type Source interface {
	List(ctx context.Context, ds Dataset, params ListParams) ([]records.Record, error)
}

// Batch holds the lists fetched for one dashboard load. Missing datasets read
// as empty lists.
type Batch map[Dataset][]records.Record

// Get returns the list for ds, never nil.
func (b Batch) Get(ds Dataset) []records.Record {
	if list, ok := b[ds]; ok && list != nil {
		return list
	}
	return []records.Record{}
}
