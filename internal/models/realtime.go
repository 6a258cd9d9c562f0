package models

type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// StatMetric is one dashboard card.
type StatMetric struct {
	Label  string  `json:"label"`
	Value  any     `json:"value"`
	Change float64 `json:"change"` // percentage
	Trend  Trend   `json:"trend"`
}

const FeedReportCreated = "report_created"

// FeedEvent is pushed to dashboard sockets.
type FeedEvent struct {
	Type   string  `json:"type"`
	Report *Report `json:"report,omitempty"`
}
