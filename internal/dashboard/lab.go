package dashboard

import (
	"time"

	"github.com/wardline/wardline/internal/records"
)

func aggregateLab(in Inputs, opts Options) Result {
	now := opts.Now
	loc := now.Location()
	f := opts.Format

	ordersToday := countToday(in.LabOrders, now, labOrderDateFields...)
	inProcess := countStatus(in.LabOrders, statusFields, labInProcess...)
	pendingCollection := countStatus(in.LabOrders, statusFields, labPendingCollection...)
	completed := countStatus(in.LabOrders, statusFields, labCompleted...)
	critical := countStatus(in.LabResults, labFlagFields, labCritical...)
	awaitingValidation := countStatus(in.LabResults, labFlagFields, labAwaitingValidation...)

	turnarounds := make([]float64, 0, len(in.LabResults))
	for _, r := range in.LabResults {
		if m, ok := turnaroundMinutes(r, loc); ok {
			turnarounds = append(turnarounds, m)
		}
	}
	turnaround := Average(turnarounds)

	stale := countWhere(in.LabOrders, func(r records.Record) bool {
		if r.Status(statusFields...) == "" || r.HasStatus(statusFields, labTerminal...) {
			return false
		}
		t, ok := r.Date(loc, labOrderDateFields...)
		return ok && now.Sub(t) >= StaleOrderAge
	})

	completionRate := ToPercent(float64(completed), float64(len(in.LabOrders)))
	criticalRatio := ToPercent(float64(critical), float64(len(in.LabResults)))

	turnaroundTone := ToneNeutral
	if len(turnarounds) > 0 {
		turnaroundTone = ToneInfo
	}

	return Result{
		SummaryCards: []SummaryCard{
			{ID: "ordersToday", Label: "Orders today", Value: float64(ordersToday), Kind: KindCount},
			{ID: "inProcess", Label: "In process", Value: float64(inProcess), Kind: KindCount},
			{ID: "pendingCollection", Label: "Awaiting collection", Value: float64(pendingCollection), Kind: KindCount},
			{ID: "criticalResults", Label: "Critical results", Value: float64(critical), Kind: KindCount},
			{ID: "averageTurnaround", Label: "Average turnaround", Value: float64(turnaround), Kind: KindMinutes},
		},
		Trend:        BuildTrend(in.LabOrders, now, labOrderDateFields...),
		Distribution: BuildDistribution(in.LabOrders, labOrderStatuses, statusFields...),
		Highlights: []Highlight{
			{
				ID:      "completionRate",
				Label:   "Completion rate",
				Value:   f.Percent(completionRate),
				Context: f.Count(completed) + " of " + f.Count(len(in.LabOrders)) + " orders completed",
				Variant: rateVariant(completionRate, len(in.LabOrders) > 0, 80, 50),
			},
			{
				ID:      "criticalRatio",
				Label:   "Critical ratio",
				Value:   f.Percent(criticalRatio),
				Context: f.Count(critical) + " of " + f.Count(len(in.LabResults)) + " results flagged critical",
				Variant: inverseVariant(criticalRatio, len(in.LabResults) > 0, 5, 15),
			},
			{
				ID:      "turnaround",
				Label:   "Turnaround to report",
				Value:   f.Minutes(turnaround),
				Context: "Averaged over " + f.Count(len(turnarounds)) + " reported results",
				Variant: turnaroundTone,
			},
		},
		Queues: []Signal{
			queueSignal("awaitingCollection", "Awaiting sample collection", pendingCollection, "Orders placed but not yet collected."),
			queueSignal("inProcess", "Samples in process", inProcess, "Collected samples being analysed."),
			queueSignal("awaitingVerification", "Awaiting verification", awaitingValidation, "Preliminary results waiting for sign-off."),
		},
		Alerts: []Signal{
			alertSignal("criticalFindings", "Critical findings", critical, ToneCritical, "Results flagged critical that need immediate notification."),
			alertSignal("staleOrders", "Stale orders", stale, ToneWarning, "Open orders older than one day."),
		},
		Activity: MergeActivity(now,
			activityFrom(in.LabOrders, activitySpec{
				prefix:      "lab-order",
				dateFields:  labOrderDateFields,
				title:       statusTitle("Lab order", statusFields...),
				description: describe(withFields([]string{"test_name", "test.name", "order_number"}, patientNameFields...)...),
			}, loc),
			activityFrom(in.LabResults, activitySpec{
				prefix:      "lab-result",
				dateFields:  labResultDateFields,
				title:       statusTitle("Lab result", labFlagFields...),
				description: describe(withFields([]string{"test_name", "test.name"}, patientNameFields...)...),
			}, loc),
		),
	}
}

// turnaroundMinutes is the elapsed time from a result's creation to its
// report. Results missing either stamp, or reported before creation, are
// skipped.
func turnaroundMinutes(r records.Record, loc *time.Location) (float64, bool) {
	start, ok := r.Date(loc, labResultStartFields...)
	if !ok {
		return 0, false
	}
	end, ok := r.Date(loc, labResultReportFields...)
	if !ok {
		return 0, false
	}
	d := end.Sub(start)
	if d < 0 {
		return 0, false
	}
	return d.Minutes(), true
}
