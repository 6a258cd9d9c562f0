// Package wizard implements the four step report submission flow.
//
// The flow is linear: Next and Back move one step and stop at the ends,
// nothing is validated on the way, and only the review step may submit.
// The draft lives in memory only; dropping the wizard drops the draft.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"

	"safecity/backend/internal/config"
	"safecity/backend/internal/models"
)

type Step int

const (
	StepType Step = iota + 1
	StepDetails
	StepEvidence
	StepReview
)

var stepTitles = map[Step]string{
	StepType:     "Type",
	StepDetails:  "Details",
	StepEvidence: "Evidence",
	StepReview:   "Review",
}

func (s Step) Title() string { return stepTitles[s] }

var (
	ErrNotAtReview      = errors.New("report can only be submitted from the review step")
	ErrSubmitInProgress = errors.New("report submission already in progress")
	ErrSubmitFailed     = errors.New("failed to submit report")
)

// Draft is everything collected across the steps.
type Draft struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Address     string `json:"address"`
	IsAnonymous bool   `json:"isAnonymous"`
	FullName    string `json:"fullName"`
	Contact     string `json:"contact"`
}

// DraftPatch updates only the fields that are set.
type DraftPatch struct {
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	Address     *string `json:"address,omitempty"`
	FullName    *string `json:"fullName,omitempty"`
	Contact     *string `json:"contact,omitempty"`
}

// ReportCreator is the one provider operation the wizard needs.
type ReportCreator interface {
	CreateReport(ctx context.Context, in models.CreateReportInput) (*models.Report, error)
}

// Wizard is not safe for concurrent use; Sessions serialises access.
type Wizard struct {
	step       Step
	draft      Draft
	submitting bool

	// Geocode turns the typed address into coordinates.
	Geocode func(address string) models.Location
}

func New() *Wizard {
	return &Wizard{step: StepType, Geocode: MockGeocode}
}

// MockGeocode pins every address to the city centre.
func MockGeocode(address string) models.Location {
	return models.Location{Lat: config.GeocodeLat, Lng: config.GeocodeLng, Address: address}
}

func (w *Wizard) Step() Step { return w.step }

func (w *Wizard) Draft() Draft { return w.draft }

func (w *Wizard) Submitting() bool { return w.submitting }

// CanGoBack is false on the first step, where the back button is hidden.
func (w *Wizard) CanGoBack() bool { return w.step > StepType }

func (w *Wizard) CanSubmit() bool { return w.step == StepReview && !w.submitting }

func (w *Wizard) Next() Step {
	if w.step < StepReview {
		w.step++
	}
	return w.step
}

func (w *Wizard) Back() Step {
	if w.step > StepType {
		w.step--
	}
	return w.step
}

func (w *Wizard) Update(p DraftPatch) {
	if p.Type != nil {
		w.draft.Type = *p.Type
	}
	if p.Description != nil {
		w.draft.Description = *p.Description
	}
	if p.Date != nil {
		w.draft.Date = *p.Date
	}
	if p.Address != nil {
		w.draft.Address = *p.Address
	}
	if p.FullName != nil {
		w.draft.FullName = *p.FullName
	}
	if p.Contact != nil {
		w.draft.Contact = *p.Contact
	}
}

// ToggleAnonymous flips the anonymity flag. Name and contact are only hidden,
// they stay in the draft and come back when the flag is switched off again.
func (w *Wizard) ToggleAnonymous() bool {
	w.draft.IsAnonymous = !w.draft.IsAnonymous
	return w.draft.IsAnonymous
}

// Input is what gets sent to the provider. Name and contact are never sent.
func (w *Wizard) Input() models.CreateReportInput {
	geocode := w.Geocode
	if geocode == nil {
		geocode = MockGeocode
	}
	loc := geocode(w.draft.Address)
	return models.CreateReportInput{
		Type:        w.draft.Type,
		Description: w.draft.Description,
		Location:    &loc,
		IsAnonymous: w.draft.IsAnonymous,
	}
}

// Submission is the result of a successful submit.
type Submission struct {
	Report   *models.Report `json:"report"`
	Redirect string         `json:"redirect"`
}

// Submit creates the report from the review step. On failure the wizard stays
// on the review step with the draft intact so the user can retry.
func (w *Wizard) Submit(ctx context.Context, creator ReportCreator) (*Submission, error) {
	in, err := w.beginSubmit()
	if err != nil {
		return nil, err
	}
	report, err := creator.CreateReport(ctx, in)
	return w.finishSubmit(report, err)
}

func (w *Wizard) beginSubmit() (models.CreateReportInput, error) {
	if w.step != StepReview {
		return models.CreateReportInput{}, ErrNotAtReview
	}
	if w.submitting {
		return models.CreateReportInput{}, ErrSubmitInProgress
	}
	w.submitting = true
	return w.Input(), nil
}

func (w *Wizard) finishSubmit(report *models.Report, err error) (*Submission, error) {
	w.submitting = false
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	if report == nil {
		return nil, fmt.Errorf("%w: provider returned no report", ErrSubmitFailed)
	}
	return &Submission{Report: report, Redirect: TrackingURL(report.CaseNumber)}, nil
}

// TrackingURL is where the reporter lands after submitting.
func TrackingURL(caseNumber string) string {
	q := url.Values{}
	q.Set(config.TrackingCaseParam, caseNumber)
	return config.TrackingPath + "?" + q.Encode()
}

// ReviewItem is one line of the review step.
type ReviewItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

const notAvailable = "N/A"

// Review lists what will be submitted, with N/A for empty fields.
func (w *Wizard) Review() []ReviewItem {
	orNA := func(v string) string {
		if v == "" {
			return notAvailable
		}
		return v
	}
	mode := "Named Contact"
	if w.draft.IsAnonymous {
		mode = "Anonymous"
	}
	return []ReviewItem{
		{Label: "Incident Type", Value: orNA(w.draft.Type)},
		{Label: "Date", Value: orNA(w.draft.Date)},
		{Label: "Location", Value: orNA(w.draft.Address)},
		{Label: "Description", Value: orNA(w.draft.Description)},
		{Label: "Submission Mode", Value: mode},
	}
}

// View is a serialisable snapshot of the wizard.
type View struct {
	Step        Step         `json:"step"`
	Title       string       `json:"title"`
	Steps       []StepView   `json:"steps"`
	Draft       Draft        `json:"draft"`
	CanGoBack   bool         `json:"canGoBack"`
	CanSubmit   bool         `json:"canSubmit"`
	ShowContact bool         `json:"showContact"`
	Review      []ReviewItem `json:"review,omitempty"`
	// IncidentTypes is only filled on the type step.
	IncidentTypes []config.IncidentOption `json:"incidentTypes,omitempty"`
}

type StepView struct {
	ID      Step   `json:"id"`
	Title   string `json:"title"`
	Active  bool   `json:"active"`
	Current bool   `json:"current"`
}

func (w *Wizard) View() View {
	v := View{
		Step:        w.step,
		Title:       w.step.Title(),
		Draft:       w.draft,
		CanGoBack:   w.CanGoBack(),
		CanSubmit:   w.CanSubmit(),
		ShowContact: !w.draft.IsAnonymous,
	}
	for s := StepType; s <= StepReview; s++ {
		v.Steps = append(v.Steps, StepView{ID: s, Title: s.Title(), Active: s <= w.step, Current: s == w.step})
	}
	switch w.step {
	case StepType:
		v.IncidentTypes = slices.Clone(config.IncidentTypes)
	case StepReview:
		v.Review = w.Review()
	}
	return v
}
