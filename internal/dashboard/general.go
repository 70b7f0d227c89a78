package dashboard

import (
	"time"

	"github.com/wardline/wardline/internal/records"
)

func aggregateGeneral(in Inputs, opts Options) Result {
	now := opts.Now
	loc := now.Location()
	f := opts.Format
	today := StartOfDay(now)

	appointmentsToday := make([]records.Record, 0)
	for _, r := range in.Appointments {
		if t, ok := r.Date(loc, appointmentDateFields...); ok && SameDay(t, now) {
			appointmentsToday = append(appointmentsToday, r)
		}
	}
	completedToday := countStatus(appointmentsToday, statusFields, appointmentDone...)

	var revenueToday, billed, collected float64
	openInvoices, overdue := 0, 0
	for _, r := range in.Invoices {
		if r.HasStatus(invoiceStatusFields, invoiceCancelled...) {
			continue
		}
		total := r.Number(invoiceTotalFields...)
		paid := r.HasStatus(invoiceStatusFields, invoicePaid...)
		billed += total
		collected += collectedAmount(r, total, paid)
		if paid {
			if t, ok := r.Date(loc, invoicePaidDateFields...); ok && SameDay(t, now) {
				revenueToday += total
			}
			continue
		}
		if r.HasStatus(invoiceStatusFields, invoiceOpen...) {
			openInvoices++
			if isOverdue(r, today) {
				overdue++
			}
		}
	}

	trend := BuildTrend(in.Appointments, now, appointmentDateFields...)
	completion := ToPercent(float64(completedToday), float64(len(appointmentsToday)))
	collectionRate := ToPercent(collected, billed)
	throughput := Average(trendValues(trend))

	windowStart := trendWindowStart(now)
	upcoming := countWhere(in.Appointments, func(r records.Record) bool {
		if !r.HasStatus(statusFields, appointmentUpcoming...) {
			return false
		}
		t, ok := r.Date(loc, appointmentDateFields...)
		return ok && !t.Before(now)
	})
	noShows := countWhere(in.Appointments, func(r records.Record) bool {
		if !r.HasStatus(statusFields, appointmentNoShow...) {
			return false
		}
		t, ok := r.Date(loc, appointmentDateFields...)
		return ok && !t.Before(windowStart)
	})
	critical := countStatus(in.LabResults, labFlagFields, labCritical...)
	pendingLab := countWhere(in.LabOrders, func(r records.Record) bool {
		return r.Status(statusFields...) != "" && !r.HasStatus(statusFields, labTerminal...)
	})

	return Result{
		SummaryCards: []SummaryCard{
			{ID: "patientsToday", Label: "New patients today", Value: float64(countToday(in.Patients, now, patientDateFields...)), Kind: KindCount},
			{ID: "appointmentsToday", Label: "Appointments today", Value: float64(len(appointmentsToday)), Kind: KindCount},
			{ID: "activeAdmissions", Label: "Active admissions", Value: float64(countStatus(in.Admissions, statusFields, admissionActive...)), Kind: KindCount},
			{ID: "openInvoices", Label: "Open invoices", Value: float64(openInvoices), Kind: KindCount},
			{ID: "revenueToday", Label: "Revenue today", Value: revenueToday, Kind: KindCurrency},
		},
		Trend:        trend,
		Distribution: BuildDistribution(in.Appointments, appointmentStatuses, statusFields...),
		Highlights: []Highlight{
			{
				ID:      "collectionRate",
				Label:   "Collection rate",
				Value:   f.Percent(collectionRate),
				Context: f.Money(collected) + " collected of " + f.Money(billed) + " billed",
				Variant: rateVariant(collectionRate, billed > 0, 80, 50),
			},
			{
				ID:      "appointmentCompletion",
				Label:   "Appointment completion",
				Value:   f.Percent(completion),
				Context: f.Count(completedToday) + " of " + f.Count(len(appointmentsToday)) + " appointments completed today",
				Variant: rateVariant(completion, len(appointmentsToday) > 0, 75, 40),
			},
			{
				ID:      "averageThroughput",
				Label:   "Average daily appointments",
				Value:   f.Count(throughput) + "/day",
				Context: "Mean over the last 7 days",
				Variant: ToneInfo,
			},
		},
		Queues: []Signal{
			queueSignal("upcoming", "Upcoming appointments", upcoming, "Scheduled or confirmed visits that have not started yet."),
			queueSignal("inProgress", "Patients in consultation", countStatus(in.Appointments, statusFields, appointmentActive...), "Checked-in patients currently being seen."),
			queueSignal("dischargePending", "Pending discharges", countStatus(in.Admissions, statusFields, admissionDischargePending...), "Admissions waiting for discharge paperwork."),
			queueSignal("pendingLabOrders", "Open lab orders", pendingLab, "Lab orders not yet completed or cancelled."),
		},
		Alerts: []Signal{
			alertSignal("overdueInvoices", "Overdue invoices", overdue, ToneWarning, "Open invoices past their due date."),
			alertSignal("noShows", "No-shows this week", noShows, ToneWarning, "Appointments marked as no-show in the last 7 days."),
			alertSignal("criticalResults", "Critical lab results", critical, ToneCritical, "Results flagged critical that need clinician follow-up."),
		},
		Activity: MergeActivity(now,
			activityFrom(in.Appointments, activitySpec{
				prefix:      "appointment",
				dateFields:  appointmentDateFields,
				title:       statusTitle("Appointment", statusFields...),
				description: describe(withFields(patientNameFields, "doctor_name", "department")...),
			}, loc),
			activityFrom(in.Admissions, activitySpec{
				prefix:      "admission",
				dateFields:  admissionDateFields,
				title:       statusTitle("Admission", statusFields...),
				description: describe(withFields(patientNameFields, "ward_name", "ward.name")...),
			}, loc),
			activityFrom(in.Invoices, activitySpec{
				prefix:      "invoice",
				dateFields:  invoicePaidDateFields,
				title:       statusTitle("Invoice", invoiceStatusFields...),
				description: describe(withFields([]string{"invoice_number", "number"}, patientNameFields...)...),
			}, loc),
			activityFrom(in.LabResults, activitySpec{
				prefix:      "lab-result",
				dateFields:  labResultDateFields,
				title:       statusTitle("Lab result", labFlagFields...),
				description: describe(withFields([]string{"test_name", "test.name"}, patientNameFields...)...),
			}, loc),
			activityFrom(in.Patients, activitySpec{
				prefix:      "patient",
				dateFields:  patientDateFields,
				title:       func(records.Record) string { return "Patient registered" },
				description: describe("full_name", "name", "medical_record_number", "mrn"),
			}, loc),
		),
	}
}

// collectedAmount prefers an explicit paid amount; otherwise a paid invoice
// counts in full.
func collectedAmount(r records.Record, total float64, paid bool) float64 {
	for _, field := range invoicePaidFields {
		if r.Value(field) != nil {
			return r.Number(field)
		}
	}
	if paid {
		return total
	}
	return 0
}

// isOverdue is true for an explicit OVERDUE status or a due date before today.
func isOverdue(r records.Record, today time.Time) bool {
	if r.HasStatus(invoiceStatusFields, invoiceOverdue...) {
		return true
	}
	due, ok := r.Date(today.Location(), invoiceDueFields...)
	return ok && due.Before(today)
}
