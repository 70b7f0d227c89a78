package dashboard

import "time"

// CardKind tells the presentation layer how to render a summary value.
type CardKind string

const (
	KindCount    CardKind = "count"
	KindCurrency CardKind = "currency"
	KindMinutes  CardKind = "minutes"
)

// Tone is the visual severity attached to queues, alerts and highlights.
type Tone string

const (
	ToneNeutral  Tone = "neutral"
	ToneInfo     Tone = "info"
	ToneSuccess  Tone = "success"
	ToneWarning  Tone = "warning"
	ToneCritical Tone = "critical"
)

// SummaryCard is one headline counter.
type SummaryCard struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Value float64  `json:"value"`
	Kind  CardKind `json:"kind"`
}

// TrendPoint is one daily bucket of the 7-day series.
type TrendPoint struct {
	ID    string  `json:"id"`
	Date  string  `json:"date"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Segment is one slice of the status distribution.
type Segment struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// Distribution groups segments with their total.
type Distribution struct {
	Segments []Segment `json:"segments"`
	Total    int       `json:"total"`
}

// Highlight is a derived ratio or average rendered as text.
type Highlight struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Context string `json:"context"`
	Variant Tone   `json:"variant"`
}

// Signal is a queue entry or an alert.
type Signal struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Count       int    `json:"count"`
	StatusLabel string `json:"statusLabel"`
	Tone        Tone   `json:"tone"`
	Description string `json:"description"`
}

// ActivityItem is one entry of the recent-activity feed.
type ActivityItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurredAt"`
	TimeLabel   string    `json:"timeLabel"`
}

// Result is the role-specific dashboard snapshot.
type Result struct {
	Profile      Profile        `json:"profile"`
	GeneratedAt  time.Time      `json:"generatedAt"`
	SummaryCards []SummaryCard  `json:"summaryCards"`
	Trend        []TrendPoint   `json:"trend"`
	Distribution Distribution   `json:"distribution"`
	Highlights   []Highlight    `json:"highlights"`
	Queues       []Signal       `json:"queues"`
	Alerts       []Signal       `json:"alerts"`
	Activity     []ActivityItem `json:"activity"`
	HasLiveData  bool           `json:"hasLiveData"`
}

// Card returns the summary card with the given id.
func (r Result) Card(id string) (SummaryCard, bool) {
	for _, card := range r.SummaryCards {
		if card.ID == id {
			return card, true
		}
	}
	return SummaryCard{}, false
}

// Highlight returns the highlight with the given id.
func (r Result) Highlight(id string) (Highlight, bool) {
	for _, h := range r.Highlights {
		if h.ID == id {
			return h, true
		}
	}
	return Highlight{}, false
}

// Alert returns the alert with the given id.
func (r Result) Alert(id string) (Signal, bool) {
	return findSignal(r.Alerts, id)
}

// Queue returns the queue entry with the given id.
func (r Result) Queue(id string) (Signal, bool) {
	return findSignal(r.Queues, id)
}

func findSignal(list []Signal, id string) (Signal, bool) {
	for _, s := range list {
		if s.ID == id {
			return s, true
		}
	}
	return Signal{}, false
}
