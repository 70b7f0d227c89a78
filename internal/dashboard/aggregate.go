package dashboard

import (
	"time"

	"github.com/wardline/wardline/internal/feed"
	"github.com/wardline/wardline/internal/records"
)

// Inputs are the record lists available to one aggregation. Lists a role does
// not consult may be empty.
type Inputs struct {
	Patients        []records.Record `json:"patients"`
	Appointments    []records.Record `json:"appointments"`
	Admissions      []records.Record `json:"admissions"`
	Invoices        []records.Record `json:"invoices"`
	LabOrders       []records.Record `json:"labOrders"`
	LabResults      []records.Record `json:"labResults"`
	PharmacyOrders  []records.Record `json:"pharmacyOrders"`
	InventoryStocks []records.Record `json:"inventoryStocks"`
	DispenseLogs    []records.Record `json:"dispenseLogs"`
}

// InputsFromBatch maps a fetched batch onto Inputs.
func InputsFromBatch(b feed.Batch) Inputs {
	return Inputs{
		Patients:        b.Get(feed.Patients),
		Appointments:    b.Get(feed.Appointments),
		Admissions:      b.Get(feed.Admissions),
		Invoices:        b.Get(feed.Invoices),
		LabOrders:       b.Get(feed.LabOrders),
		LabResults:      b.Get(feed.LabResults),
		PharmacyOrders:  b.Get(feed.PharmacyOrders),
		InventoryStocks: b.Get(feed.InventoryStocks),
		DispenseLogs:    b.Get(feed.DispenseLogs),
	}
}

// Options carries the injected clock and presentation settings.
type Options struct {
	Now    time.Time
	Format Formatter
}

// Aggregate computes the dashboard snapshot for profile. It never fails:
// malformed records degrade to zero or empty values.
func Aggregate(profile Profile, in Inputs, opts Options) Result {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	opts.Format = opts.Format.ensure()

	var res Result
	switch profile.ID {
	case RoleLab:
		res = aggregateLab(in, opts)
	case RolePharmacy:
		res = aggregatePharmacy(in, opts)
	default:
		profile = mustProfile(RoleGeneral)
		res = aggregateGeneral(in, opts)
	}
	res.Profile = profile
	res.GeneratedAt = opts.Now
	res.HasLiveData = HasLiveData(res)
	return res
}

// HasLiveData reports whether the snapshot carries any nonzero figure or any
// activity, so callers can show an empty state instead of zeroed charts.
func HasLiveData(r Result) bool {
	for _, card := range r.SummaryCards {
		if card.Value != 0 {
			return true
		}
	}
	for _, p := range r.Trend {
		if p.Value != 0 {
			return true
		}
	}
	return r.Distribution.Total != 0 || len(r.Activity) > 0
}

func countWhere(rs []records.Record, pred func(records.Record) bool) int {
	n := 0
	for _, r := range rs {
		if pred(r) {
			n++
		}
	}
	return n
}

func countToday(rs []records.Record, now time.Time, fields ...string) int {
	loc := now.Location()
	return countWhere(rs, func(r records.Record) bool {
		t, ok := r.Date(loc, fields...)
		return ok && SameDay(t, now)
	})
}

func countStatus(rs []records.Record, fields []string, statuses ...string) int {
	return countWhere(rs, func(r records.Record) bool {
		return r.HasStatus(fields, statuses...)
	})
}

func queueSignal(id, title string, count int, description string) Signal {
	s := Signal{ID: id, Title: title, Count: count, Description: description}
	if count > 0 {
		s.StatusLabel = "Waiting"
		s.Tone = ToneInfo
	} else {
		s.StatusLabel = "Clear"
		s.Tone = ToneNeutral
	}
	return s
}

func alertSignal(id, title string, count int, severity Tone, description string) Signal {
	s := Signal{ID: id, Title: title, Count: count, Description: description}
	if count == 0 {
		s.StatusLabel = "Clear"
		s.Tone = ToneSuccess
		return s
	}
	s.Tone = severity
	switch severity {
	case ToneCritical:
		s.StatusLabel = "Critical"
	case ToneWarning:
		s.StatusLabel = "Attention"
	default:
		s.StatusLabel = "Notice"
	}
	return s
}

// rateVariant grades a percentage; without a denominator the rate is neutral.
func rateVariant(pct int, hasData bool, good, fair int) Tone {
	switch {
	case !hasData:
		return ToneNeutral
	case pct >= good:
		return ToneSuccess
	case pct >= fair:
		return ToneWarning
	}
	return ToneCritical
}

// inverseVariant grades a percentage where lower is better.
func inverseVariant(pct int, hasData bool, ok, bad int) Tone {
	switch {
	case !hasData:
		return ToneNeutral
	case pct <= ok:
		return ToneSuccess
	case pct < bad:
		return ToneWarning
	}
	return ToneCritical
}
