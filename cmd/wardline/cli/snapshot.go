package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/wardline/wardline/internal/dashboard"
	"github.com/wardline/wardline/internal/dashboard/export"
)

// Snapshotter produces dashboard snapshots.
type Snapshotter interface {
	Snapshot(ctx context.Context, profile dashboard.Profile) (dashboard.Result, error)
}

// SnapshotOptions defines the flags of the snapshot command.
type SnapshotOptions struct {
	Role         string
	Roles        []string
	FacilityType string
	Format       string
	Stdout       io.Writer
	Stderr       io.Writer
}

// SnapshotCommand prints one dashboard as text, JSON or CSV.
func SnapshotCommand(ctx context.Context, svc Snapshotter, opts SnapshotOptions) int {
	stdout, stderr := streams(opts.Stdout, opts.Stderr)
	profile := dashboard.ResolveRole(opts.Roles, opts.FacilityType)
	if opts.Role != "" {
		p, ok := dashboard.ProfileFor(dashboard.RoleID(strings.ToLower(opts.Role)))
		if !ok {
			_, _ = fmt.Fprintf(stderr, "snapshot: unknown role %q\n", opts.Role)
			return 1
		}
		profile = p
	}
	res, err := svc.Snapshot(ctx, profile)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "snapshot: %v\n", err)
		return 1
	}

	switch strings.ToLower(opts.Format) {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(res)
	case "csv":
		err = export.WriteCSV(stdout, res)
	case "", "text":
		renderSnapshotHuman(stdout, res)
	default:
		_, _ = fmt.Fprintf(stderr, "snapshot: unsupported format %q\n", opts.Format)
		return 1
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "snapshot: write: %v\n", err)
		return 1
	}
	if !res.HasLiveData {
		return 10
	}
	return 0
}

func renderSnapshotHuman(out io.Writer, res dashboard.Result) {
	_, _ = fmt.Fprintf(out, "%s (%s) at %s\n", res.Profile.Title, res.Profile.ID, res.GeneratedAt.Format("2006-01-02 15:04"))
	if !res.HasLiveData {
		_, _ = fmt.Fprintln(out, "No live data.")
	}
	for _, card := range res.SummaryCards {
		_, _ = fmt.Fprintf(out, " %-22s %v\n", card.Label, card.Value)
	}
	for _, h := range res.Highlights {
		_, _ = fmt.Fprintf(out, " %-22s %s\n", h.Label, h.Value)
	}
	if len(res.Alerts) == 0 {
		return
	}
	_, _ = fmt.Fprintf(out, "%d alert(s):\n", len(res.Alerts))
	for _, a := range res.Alerts {
		_, _ = fmt.Fprintf(out, " - [%s] %s: %d\n", a.Tone, a.Title, a.Count)
	}
}
