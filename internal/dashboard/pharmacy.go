package dashboard

import (
	"math"

	"github.com/wardline/wardline/internal/records"
)

// stockLevel classifies one inventory row against its reorder level. Rows
// without a positive reorder level are never low.
type stockLevel struct {
	low      bool
	critical bool
}

func classifyStock(r records.Record) stockLevel {
	reorder := r.Number(stockReorderFields...)
	if reorder <= 0 {
		return stockLevel{}
	}
	qty := r.Number(stockQuantityFields...)
	return stockLevel{
		low:      qty <= reorder,
		critical: qty <= math.Ceil(reorder*CriticalStockRatio),
	}
}

func aggregatePharmacy(in Inputs, opts Options) Result {
	now := opts.Now
	loc := now.Location()
	f := opts.Format

	ordersToday := countToday(in.PharmacyOrders, now, pharmacyOrderDateFields...)
	pending := countStatus(in.PharmacyOrders, statusFields, pharmacyPending...)
	partial := countStatus(in.PharmacyOrders, statusFields, pharmacyPartial...)
	dispensed := countStatus(in.PharmacyOrders, statusFields, pharmacyDispensed...)
	cancelled := countStatus(in.PharmacyOrders, statusFields, pharmacyCancelled...)

	dispensedToday := 0
	var dispensedUnits float64
	for _, r := range in.DispenseLogs {
		if t, ok := r.Date(loc, dispenseDateFields...); ok && SameDay(t, now) {
			dispensedToday++
			dispensedUnits += r.Number(dispenseUnitFields...)
		}
	}

	lowStock, criticalStock := 0, 0
	for _, r := range in.InventoryStocks {
		level := classifyStock(r)
		if level.low {
			lowStock++
		}
		if level.critical {
			criticalStock++
		}
	}

	var salesToday float64
	for _, r := range in.Invoices {
		if r.HasStatus(invoiceStatusFields, invoiceCancelled...) {
			continue
		}
		if t, ok := r.Date(loc, invoiceDateFields...); ok && SameDay(t, now) {
			salesToday += r.Number(invoiceTotalFields...)
		}
	}

	windowStart := trendWindowStart(now)
	recentCancellations := countWhere(in.PharmacyOrders, func(r records.Record) bool {
		if !r.HasStatus(statusFields, pharmacyCancelled...) {
			return false
		}
		t, ok := r.Date(loc, pharmacyOrderDateFields...)
		return ok && !t.Before(windowStart)
	})

	active := len(in.PharmacyOrders) - cancelled
	fulfillment := ToPercent(float64(dispensed), float64(active))
	healthy := len(in.InventoryStocks) - lowStock
	stockHealth := ToPercent(float64(healthy), float64(len(in.InventoryStocks)))

	return Result{
		SummaryCards: []SummaryCard{
			{ID: "ordersToday", Label: "Orders today", Value: float64(ordersToday), Kind: KindCount},
			{ID: "pendingDispense", Label: "Pending dispense", Value: float64(pending), Kind: KindCount},
			{ID: "partialDispense", Label: "Partially dispensed", Value: float64(partial), Kind: KindCount},
			{ID: "dispensedToday", Label: "Dispensed today", Value: float64(dispensedToday), Kind: KindCount},
			{ID: "dispensedUnits", Label: "Units dispensed today", Value: dispensedUnits, Kind: KindCount},
			{ID: "lowStockItems", Label: "Low stock items", Value: float64(lowStock), Kind: KindCount},
			{ID: "criticalStockItems", Label: "Critical stock items", Value: float64(criticalStock), Kind: KindCount},
			{ID: "salesToday", Label: "Sales today", Value: salesToday, Kind: KindCurrency},
		},
		Trend:        BuildTrend(in.DispenseLogs, now, dispenseDateFields...),
		Distribution: BuildDistribution(in.PharmacyOrders, pharmacyOrderStatuses, statusFields...),
		Highlights: []Highlight{
			{
				ID:      "fulfillmentRate",
				Label:   "Fulfillment rate",
				Value:   f.Percent(fulfillment),
				Context: f.Count(dispensed) + " of " + f.Count(active) + " active orders dispensed",
				Variant: rateVariant(fulfillment, active > 0, 80, 50),
			},
			{
				ID:      "salesToday",
				Label:   "Sales today",
				Value:   f.Money(salesToday),
				Context: f.Count(dispensedToday) + " dispenses recorded today",
				Variant: ToneInfo,
			},
			{
				ID:      "stockHealth",
				Label:   "Stock health",
				Value:   f.Percent(stockHealth),
				Context: f.Count(lowStock) + " of " + f.Count(len(in.InventoryStocks)) + " items at or below reorder level",
				Variant: rateVariant(stockHealth, len(in.InventoryStocks) > 0, 90, 70),
			},
		},
		Queues: []Signal{
			queueSignal("pendingDispense", "Pending dispense", pending, "Verified prescriptions waiting to be dispensed."),
			queueSignal("partialDispense", "Partial dispense", partial, "Orders dispensed in part and awaiting the balance."),
			queueSignal("restock", "Restock needed", lowStock, "Items at or below their reorder level."),
		},
		Alerts: []Signal{
			alertSignal("criticalStock", "Critical stock", criticalStock, ToneCritical, "Items at or below half of their reorder level."),
			alertSignal("cancellations", "Cancelled orders", recentCancellations, ToneWarning, "Orders cancelled in the last 7 days."),
		},
		Activity: MergeActivity(now,
			activityFrom(in.PharmacyOrders, activitySpec{
				prefix:      "pharmacy-order",
				dateFields:  pharmacyOrderDateFields,
				title:       statusTitle("Pharmacy order", statusFields...),
				description: describe(withFields([]string{"order_number", "medication_name"}, patientNameFields...)...),
			}, loc),
			activityFrom(in.DispenseLogs, activitySpec{
				prefix:      "dispense",
				dateFields:  dispenseDateFields,
				title:       func(records.Record) string { return "Medication dispensed" },
				description: describe("medication_name", "medication.name", "item_name", "product_name"),
			}, loc),
			activityFrom(in.Invoices, activitySpec{
				prefix:      "invoice",
				dateFields:  invoiceDateFields,
				title:       statusTitle("Invoice", invoiceStatusFields...),
				description: describe(withFields([]string{"invoice_number", "number"}, patientNameFields...)...),
			}, loc),
		),
	}
}
