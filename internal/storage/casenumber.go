package storage

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"safecity/backend/internal/config"
)

// ErrCaseNumberExhausted means no free case number was found within the retry budget.
// With a space of 1000 numbers per year this happens once a year gets busy.
var ErrCaseNumberExhausted = errors.New("no free case number available")

// CaseNumberGenerator issues CAS-<year>-<NNN> handles.
type CaseNumberGenerator struct {
	Now         func() time.Time
	Intn        func(n int) int
	MaxAttempts int
}

func NewCaseNumberGenerator() *CaseNumberGenerator {
	return &CaseNumberGenerator{
		Now:         time.Now,
		Intn:        rand.IntN,
		MaxAttempts: config.CaseNumberMaxAttempts,
	}
}

// Format renders a case number for the given year and sequence.
func FormatCaseNumber(year, n int) string {
	return fmt.Sprintf("%s-%d-%03d", config.CaseNumberPrefix, year, n)
}

// Next draws random case numbers until exists reports a free one.
func (g *CaseNumberGenerator) Next(exists func(caseNumber string) (bool, error)) (string, error) {
	year := g.Now().Year()
	for i := 0; i < g.MaxAttempts; i++ {
		candidate := FormatCaseNumber(year, g.Intn(config.CaseNumberSpace))
		taken, err := exists(candidate)
		if err != nil {
			return "", fmt.Errorf("check case number %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrCaseNumberExhausted
}
