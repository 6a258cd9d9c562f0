// Package dashboard holds the read-only views of the staff dashboard.
package dashboard

import (
	"strings"

	"safecity/backend/internal/models"
)

type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Resolved int `json:"resolved"`
}

// Summarize counts reports by a single pass over the slice.
func Summarize(reports []models.Report) Stats {
	s := Stats{Total: len(reports)}
	for _, r := range reports {
		switch r.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusResolved:
			s.Resolved++
		}
	}
	return s
}

// Filter keeps reports whose type or case number contains q, ignoring case.
// Order is preserved and an empty query keeps everything.
func Filter(reports []models.Report, q string) []models.Report {
	needle := strings.ToLower(q)
	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if strings.Contains(strings.ToLower(r.Type), needle) ||
			strings.Contains(strings.ToLower(r.CaseNumber), needle) {
			out = append(out, r)
		}
	}
	return out
}

type RecentItem struct {
	models.Report
	HighPriority bool `json:"highPriority"`
}

// Recent returns the first n reports in provider order.
func Recent(reports []models.Report, n int) []RecentItem {
	if n > len(reports) {
		n = len(reports)
	}
	if n < 0 {
		n = 0
	}
	out := make([]RecentItem, 0, n)
	for _, r := range reports[:n] {
		out = append(out, RecentItem{Report: r, HighPriority: r.Priority == models.PriorityHigh})
	}
	return out
}

// Metrics renders the stat cards. Change figures are not tracked yet and stay neutral.
func Metrics(s Stats) []models.StatMetric {
	return []models.StatMetric{
		{Label: "Total Cases", Value: s.Total, Trend: models.TrendNeutral},
		{Label: "Pending Action", Value: s.Pending, Trend: models.TrendNeutral},
		{Label: "Resolved", Value: s.Resolved, Trend: models.TrendNeutral},
	}
}
