package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportStatus is the position of a report in the investigation lifecycle.
type ReportStatus string

const (
	StatusPending    ReportStatus = "PENDING"
	StatusAssigned   ReportStatus = "ASSIGNED"
	StatusInProgress ReportStatus = "IN_PROGRESS"
	StatusResolved   ReportStatus = "RESOLVED"
	StatusClosed     ReportStatus = "CLOSED"
)

// StatusOrder is the only legal ordering of statuses. A report never moves backwards.
var StatusOrder = []ReportStatus{
	StatusPending,
	StatusAssigned,
	StatusInProgress,
	StatusResolved,
	StatusClosed,
}

// Stage returns the 1-based position of s in StatusOrder, or 0 for unknown values.
func (s ReportStatus) Stage() int {
	for i, st := range StatusOrder {
		if st == s {
			return i + 1
		}
	}
	return 0
}

func (s ReportStatus) Valid() bool { return s.Stage() > 0 }

// ParseStatus accepts the canonical upper-case names only.
func ParseStatus(v string) (ReportStatus, bool) {
	s := ReportStatus(v)
	return s, s.Valid()
}

type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

func ParsePriority(v string) (Priority, bool) {
	p := Priority(v)
	return p, p.Valid()
}

// Location is where an incident happened. Coordinates come from the geocoder
// (currently a fixed point), the address is whatever the reporter typed.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// Report is a single incident report filed by a citizen.
type Report struct {
	// ID is an opaque identifier assigned by the provider.
	ID string `gorm:"primaryKey" json:"id"`
	// CaseNumber is the human readable handle given to the reporter, e.g. CAS-2023-001.
	CaseNumber  string `gorm:"uniqueIndex;not null" json:"caseNumber"`
	Type        string `gorm:"type:text;not null" json:"type"`
	Description string `gorm:"type:text" json:"description"`

	Location Location `gorm:"embedded;embeddedPrefix:location_" json:"location"`

	Status    ReportStatus `gorm:"type:text;not null;index" json:"status"`
	Priority  Priority     `gorm:"type:text;not null" json:"priority"`
	CreatedAt time.Time    `json:"createdAt"`

	// AssignedOfficerID is nil until dispatch assigns somebody.
	AssignedOfficerID *string `json:"assignedOfficerId,omitempty"`
	IsAnonymous       bool    `json:"isAnonymous"`
	EvidenceCount     int     `json:"evidenceCount"`
}

// IsAssigned reports whether an officer has picked the case up.
func (r *Report) IsAssigned() bool {
	return r.AssignedOfficerID != nil && *r.AssignedOfficerID != ""
}

// BeforeCreate fills in an ID for rows written without one.
func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

// CreateReportInput carries the fields a reporter may set. Everything else is
// assigned by the provider.
type CreateReportInput struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Location    *Location `json:"location,omitempty"`
	IsAnonymous bool      `json:"isAnonymous"`
}
