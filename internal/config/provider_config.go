package config

import "time"

const (
	// Provider latency, mirrors what the public site was tuned against
	ListReportsDelay  = 800 * time.Millisecond
	GetReportDelay    = 1000 * time.Millisecond
	CreateReportDelay = 1500 * time.Millisecond
	ListNoticesDelay  = 600 * time.Millisecond
	ListBlogsDelay    = 600 * time.Millisecond

	// Case numbers
	CaseNumberPrefix      = "CAS"
	CaseNumberSpace       = 1000
	CaseNumberMaxAttempts = 50

	// Defaults applied by the provider on create
	DefaultReportType = "Other"
	DefaultAddress    = "Unknown"

	// Mock geocoding used by the wizard until a real geocoder exists
	GeocodeLat = 8.54
	GeocodeLng = 39.27

	// Wizard
	WizardSteps       = 4
	WizardSessionTTL  = 2 * time.Hour
	TrackingPath      = "/track"
	TrackingCaseParam = "newCase"

	// Dashboard
	RecentReportsLimit = 5

	// Cache
	CaseLookupTTL = 5 * time.Minute
)

// IncidentOption is one entry of the incident type picker.
type IncidentOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// IncidentTypes are the options offered on the first wizard step, in display order.
var IncidentTypes = []IncidentOption{
	{Value: "Theft", Label: "Theft / Burglary"},
	{Value: "Assault", Label: "Assault / Violence"},
	{Value: "Vandalism", Label: "Vandalism / Property Damage"},
	{Value: "Suspicious", Label: "Suspicious Activity"},
	{Value: "Traffic", Label: "Traffic Violation"},
	{Value: "Other", Label: "Other"},
}
