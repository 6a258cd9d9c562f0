// Package tracking looks a report up by case number and derives how far the
// investigation has progressed.
package tracking

import (
	"context"
	"strings"

	"safecity/backend/internal/logger"
	"safecity/backend/internal/models"
)

type Outcome string

const (
	// OutcomeIdle: blank input, nothing was looked up.
	OutcomeIdle     Outcome = "idle"
	OutcomeFound    Outcome = "found"
	OutcomeNotFound Outcome = "not_found"
	OutcomeError    Outcome = "error"
)

// Message keys, resolved by the localizer at the HTTP edge.
const (
	MsgNotFound    = "track.not_found"
	MsgError       = "track.error"
	MsgOfficerNote = "track.note.assigned"
	MsgPendingNote = "track.note.pending"
)

// ProgressSteps is how many stages the progress indicator draws.
const ProgressSteps = 4

var stepLabels = [ProgressSteps]string{"Received", "Assigned", "In Progress", "Resolved"}

type ReportFinder interface {
	GetReportByCaseNumber(ctx context.Context, caseNumber string) (*models.Report, error)
}

type Tracker struct {
	Finder ReportFinder
}

func NewTracker(f ReportFinder) *Tracker {
	return &Tracker{Finder: f}
}

// Result is the state of the tracking page after a lookup.
type Result struct {
	Outcome    Outcome        `json:"outcome"`
	CaseNumber string         `json:"caseNumber"`
	Report     *models.Report `json:"report,omitempty"`
	Progress   *Progress      `json:"progress,omitempty"`
	MessageKey string         `json:"messageKey,omitempty"`
	Message    string         `json:"message,omitempty"`
	NoteKey    string         `json:"-"`
	Note       string         `json:"note,omitempty"`
}

// english is used until the caller localizes the result.
var english = map[string]string{
	MsgNotFound:    "No report found with that case number.",
	MsgError:       "An error occurred. Please try again.",
	MsgOfficerNote: "Officer assigned and reviewing evidence. We may contact you for further details.",
	MsgPendingNote: "Your report has been received and is pending review by the dispatch unit.",
}

// Localize rewrites the user facing texts with translate.
func (r *Result) Localize(translate func(key string) string) {
	if r.MessageKey != "" {
		r.Message = translate(r.MessageKey)
	}
	if r.NoteKey != "" {
		r.Note = translate(r.NoteKey)
	}
}

// Lookup never returns an error: failures are folded into the Result.
// The case number is matched exactly; only the blank check trims.
func (t *Tracker) Lookup(ctx context.Context, caseNumber string) Result {
	res := Result{CaseNumber: caseNumber}
	if strings.TrimSpace(caseNumber) == "" {
		res.Outcome = OutcomeIdle
		return res
	}

	report, err := t.Finder.GetReportByCaseNumber(ctx, caseNumber)
	if err != nil {
		logger.Error("tracking lookup for %q failed: %v", caseNumber, err)
		res.Outcome = OutcomeError
		res.MessageKey = MsgError
		res.Message = english[MsgError]
		return res
	}
	if report == nil {
		res.Outcome = OutcomeNotFound
		res.MessageKey = MsgNotFound
		res.Message = english[MsgNotFound]
		return res
	}

	p := NewProgress(report.Status)
	res.Outcome = OutcomeFound
	res.Report = report
	res.Progress = &p
	res.NoteKey = MsgPendingNote
	if report.IsAssigned() {
		res.NoteKey = MsgOfficerNote
	}
	res.Note = english[res.NoteKey]
	return res
}

// Stage maps a status to its position: PENDING 1 through CLOSED 5, unknown 0.
// CLOSED sits past the last drawn stage.
func Stage(s models.ReportStatus) int {
	return s.Stage()
}

// ProgressPercent is the fill of the bar, (stage-1)/3 of its width.
// CLOSED would give 133%; the result is clamped to [0, 100].
func ProgressPercent(stage int) float64 {
	pct := float64(stage-1) / float64(ProgressSteps-1) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

type StepState struct {
	Number    int    `json:"number"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
}

type Progress struct {
	Stage   int         `json:"stage"`
	Percent float64     `json:"percent"`
	Steps   []StepState `json:"steps"`
	// Beyond is set when the status is past the last drawn stage (CLOSED).
	Beyond bool `json:"beyond"`
}

func NewProgress(status models.ReportStatus) Progress {
	stage := Stage(status)
	p := Progress{
		Stage:   stage,
		Percent: ProgressPercent(stage),
		Beyond:  stage > ProgressSteps,
	}
	for i, label := range stepLabels {
		n := i + 1
		p.Steps = append(p.Steps, StepState{Number: n, Label: label, Completed: n <= stage})
	}
	return p
}
