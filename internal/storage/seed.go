package storage

import (
	_ "embed"
	"fmt"
	"time"

	"safecity/backend/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the record set a fresh provider starts with.
type Seed struct {
	Reports []models.Report
	Notices []models.Notice
	Blogs   []models.BlogSummary
}

type seedFile struct {
	Reports []seedReport         `yaml:"reports"`
	Notices []models.Notice      `yaml:"notices"`
	Blogs   []models.BlogSummary `yaml:"blogs"`
}

type seedReport struct {
	ID                string          `yaml:"id"`
	CaseNumber        string          `yaml:"caseNumber"`
	Type              string          `yaml:"type"`
	Description       string          `yaml:"description"`
	Location          models.Location `yaml:"location"`
	Status            string          `yaml:"status"`
	Priority          string          `yaml:"priority"`
	CreatedAt         time.Time       `yaml:"createdAt"`
	AssignedOfficerID *string         `yaml:"assignedOfficerId"`
	IsAnonymous       bool            `yaml:"isAnonymous"`
	EvidenceCount     int             `yaml:"evidenceCount"`
}

// DefaultSeed returns a fresh copy of the built-in fixture.
func DefaultSeed() (*Seed, error) {
	return ParseSeed(defaultSeed)
}

// ParseSeed decodes a YAML fixture. Unknown statuses or priorities and
// duplicate case numbers are rejected.
func ParseSeed(raw []byte) (*Seed, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	seed := &Seed{Notices: f.Notices, Blogs: f.Blogs}
	seen := make(map[string]bool, len(f.Reports))
	for _, r := range f.Reports {
		status, ok := models.ParseStatus(r.Status)
		if !ok {
			return nil, fmt.Errorf("seed report %s: unknown status %q", r.CaseNumber, r.Status)
		}
		priority, ok := models.ParsePriority(r.Priority)
		if !ok {
			return nil, fmt.Errorf("seed report %s: unknown priority %q", r.CaseNumber, r.Priority)
		}
		if seen[r.CaseNumber] {
			return nil, fmt.Errorf("seed report %s: duplicate case number", r.CaseNumber)
		}
		seen[r.CaseNumber] = true

		seed.Reports = append(seed.Reports, models.Report{
			ID:                r.ID,
			CaseNumber:        r.CaseNumber,
			Type:              r.Type,
			Description:       r.Description,
			Location:          r.Location,
			Status:            status,
			Priority:          priority,
			CreatedAt:         r.CreatedAt.UTC(),
			AssignedOfficerID: r.AssignedOfficerID,
			IsAnonymous:       r.IsAnonymous,
			EvidenceCount:     r.EvidenceCount,
		})
	}
	return seed, nil
}
