package export

import (
	"html/template"
	"io"
	"time"

	"github.com/wardline/wardline/internal/dashboard"
	"github.com/wardline/wardline/internal/dashboard/svg"
)

var printTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"stamp": func(t time.Time) string { return t.Format("02 Jan 2006 15:04 MST") },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Result.Profile.Title}}</title>
<style>
body{font-family:Helvetica,Arial,sans-serif;color:#0f172a;margin:32px}
h1{margin:0 0 4px}
.sub{color:#475569;margin:0 0 24px}
.cards{display:flex;flex-wrap:wrap;gap:12px;margin-bottom:24px}
.card{border:1px solid #e2e8f0;border-radius:8px;padding:12px 16px;min-width:140px}
.card b{display:block;font-size:22px}
table{border-collapse:collapse;width:100%;margin-bottom:24px}
th,td{border-bottom:1px solid #e2e8f0;padding:6px 8px;text-align:left}
.critical{color:#dc2626}.warning{color:#d97706}.success{color:#16a34a}
</style>
</head>
<body>
<h1>{{.Result.Profile.Title}}</h1>
<p class="sub">{{.Result.Profile.Subtitle}} &middot; generated {{stamp .Result.GeneratedAt}}</p>
<div class="cards">
{{range .Result.SummaryCards}}<div class="card">{{.Label}}<b>{{.Value}}</b></div>
{{end}}</div>
{{with .Trend}}<section>{{.}}</section>{{end}}
{{with .Distribution}}<section>{{.}}</section>{{end}}
<table>
<tr><th>Highlight</th><th>Value</th><th>Context</th></tr>
{{range .Result.Highlights}}<tr class="{{.Variant}}"><td>{{.Label}}</td><td>{{.Value}}</td><td>{{.Context}}</td></tr>
{{end}}</table>
<table>
<tr><th>Signal</th><th>Count</th><th>Status</th></tr>
{{range .Result.Queues}}<tr><td>{{.Title}}</td><td>{{.Count}}</td><td>{{.StatusLabel}}</td></tr>
{{end}}{{range .Result.Alerts}}<tr class="{{.Tone}}"><td>{{.Title}}</td><td>{{.Count}}</td><td>{{.StatusLabel}}</td></tr>
{{end}}</table>
{{if .Result.Activity}}<table>
<tr><th>Activity</th><th>Details</th><th>When</th></tr>
{{range .Result.Activity}}<tr><td>{{.Title}}</td><td>{{.Description}}</td><td>{{.TimeLabel}}</td></tr>
{{end}}</table>{{end}}
</body>
</html>
`))

type printView struct {
	Result       dashboard.Result
	Trend        template.HTML
	Distribution template.HTML
}

// WriteHTML renders a printable page of the snapshot with both charts
// inlined. Charts that cannot be drawn are left out.
func WriteHTML(w io.Writer, res dashboard.Result) error {
	view := printView{Result: res}
	if chart, err := svg.Trend(0, 0, res.Trend, svg.LineOpts{Title: res.Profile.Title + " trend", ShowDots: true}); err == nil {
		view.Trend = chart
	}
	if chart, err := svg.Segments(0, res.Distribution, svg.BarOpts{Title: "Status mix", ShowTotals: true}); err == nil {
		view.Distribution = chart
	}
	return printTemplate.Execute(w, view)
}
