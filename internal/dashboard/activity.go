package dashboard

import (
	"sort"
	"strings"
	"time"

	"github.com/wardline/wardline/internal/records"
)

// activitySpec describes how one entity type turns into feed entries.
type activitySpec struct {
	prefix      string
	dateFields  []string
	title       func(r records.Record) string
	description func(r records.Record) string
}

// activityFrom builds feed entries for every record; undated records are kept
// here and dropped by MergeActivity.
func activityFrom(rs []records.Record, spec activitySpec, loc *time.Location) []ActivityItem {
	out := make([]ActivityItem, 0, len(rs))
	for i, r := range rs {
		item := ActivityItem{
			ID:          spec.prefix + "-" + r.ID(i),
			Title:       spec.title(r),
			Description: spec.description(r),
		}
		if t, ok := r.Date(loc, spec.dateFields...); ok {
			item.OccurredAt = t
		}
		out = append(out, item)
	}
	return out
}

// MergeActivity joins per-entity feeds, drops undated entries, orders newest
// first and keeps the ActivityLimit most recent. Time labels are relative to
// now.
func MergeActivity(now time.Time, groups ...[]ActivityItem) []ActivityItem {
	merged := make([]ActivityItem, 0)
	for _, group := range groups {
		for _, item := range group {
			if item.OccurredAt.IsZero() {
				continue
			}
			merged = append(merged, item)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].OccurredAt.After(merged[j].OccurredAt)
	})
	if len(merged) > ActivityLimit {
		merged = merged[:ActivityLimit]
	}
	for i := range merged {
		merged[i].TimeLabel = RelativeTime(merged[i].OccurredAt, now)
	}
	return merged
}

func statusTitle(noun string, statusFields ...string) func(records.Record) string {
	return func(r records.Record) string {
		status := r.Status(statusFields...)
		if status == "" {
			return noun + " updated"
		}
		return noun + " " + lowerStatus(status)
	}
}

func describe(fields ...string) func(records.Record) string {
	return func(r records.Record) string {
		return r.Text(fields...)
	}
}

func lowerStatus(status string) string {
	return strings.ToLower(strings.ReplaceAll(status, "_", " "))
}
