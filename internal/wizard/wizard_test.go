package wizard_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"safecity/backend/internal/config"
	"safecity/backend/internal/models"
	"safecity/backend/internal/storage"
	"safecity/backend/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func toReview(w *wizard.Wizard) {
	for i := 0; i < 3; i++ {
		w.Next()
	}
}

func TestWizard_StartsOnTypeStep(t *testing.T) {
	w := wizard.New()

	assert.Equal(t, wizard.StepType, w.Step())
	assert.False(t, w.CanGoBack())
	assert.False(t, w.CanSubmit())
	assert.Equal(t, "Type", w.Step().Title())
}

func TestWizard_NextAndBackClamp(t *testing.T) {
	w := wizard.New()

	assert.Equal(t, wizard.StepType, w.Back())
	assert.Equal(t, wizard.StepDetails, w.Next())
	assert.Equal(t, wizard.StepEvidence, w.Next())
	assert.Equal(t, wizard.StepReview, w.Next())
	assert.Equal(t, wizard.StepReview, w.Next())
	assert.True(t, w.CanSubmit())
	assert.Equal(t, wizard.StepEvidence, w.Back())
}

func TestWizard_StepNeverLeavesRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	w := wizard.New()

	for i := 0; i < 10000; i++ {
		if rng.Intn(2) == 0 {
			w.Next()
		} else {
			w.Back()
		}
		require.GreaterOrEqual(t, int(w.Step()), 1)
		require.LessOrEqual(t, int(w.Step()), 4)
	}
}

func TestWizard_ReviewReachableWithEmptyDraft(t *testing.T) {
	w := wizard.New()
	toReview(w)

	require.Equal(t, wizard.StepReview, w.Step())
	review := w.Review()
	require.Len(t, review, 5)
	for _, item := range review[:4] {
		assert.Equal(t, "N/A", item.Value, item.Label)
	}
	assert.Equal(t, "Named Contact", review[4].Value)
}

func TestWizard_ToggleAnonymousKeepsContactFields(t *testing.T) {
	w := wizard.New()
	w.Update(wizard.DraftPatch{FullName: strPtr("Abebe Kebede"), Contact: strPtr("+251 911 000000")})

	assert.True(t, w.ToggleAnonymous())
	assert.False(t, w.View().ShowContact)
	// hidden but still in the draft
	assert.Equal(t, "Abebe Kebede", w.Draft().FullName)
	assert.Equal(t, "+251 911 000000", w.Draft().Contact)

	assert.False(t, w.ToggleAnonymous())
	assert.True(t, w.View().ShowContact)
	assert.Equal(t, "+251 911 000000", w.Draft().Contact)
}

func TestWizard_UpdateOnlyTouchesSetFields(t *testing.T) {
	w := wizard.New()
	w.Update(wizard.DraftPatch{Type: strPtr("Theft"), Address: strPtr("Main St")})
	w.Update(wizard.DraftPatch{Description: strPtr("bike gone")})

	d := w.Draft()
	assert.Equal(t, "Theft", d.Type)
	assert.Equal(t, "Main St", d.Address)
	assert.Equal(t, "bike gone", d.Description)
	assert.Empty(t, d.Date)
}

func TestWizard_SubmitOnlyFromReview(t *testing.T) {
	creator := new(MockCreator)
	w := wizard.New()

	for _, step := range []wizard.Step{wizard.StepType, wizard.StepDetails, wizard.StepEvidence} {
		require.Equal(t, step, w.Step())
		_, err := w.Submit(context.Background(), creator)
		assert.ErrorIs(t, err, wizard.ErrNotAtReview)
		w.Next()
	}
	creator.AssertNotCalled(t, "CreateReport", mock.Anything, mock.Anything)
}

func TestWizard_SubmitSendsDraftWithoutContact(t *testing.T) {
	creator := new(MockCreator)
	w := wizard.New()
	w.Update(wizard.DraftPatch{
		Type:        strPtr("Theft"),
		Description: strPtr("bike gone"),
		Address:     strPtr("Main St"),
		Contact:     strPtr("me@example.com"),
	})
	w.ToggleAnonymous()
	toReview(w)

	expected := models.CreateReportInput{
		Type:        "Theft",
		Description: "bike gone",
		Location:    &models.Location{Lat: config.GeocodeLat, Lng: config.GeocodeLng, Address: "Main St"},
		IsAnonymous: true,
	}
	report := &models.Report{CaseNumber: "CAS-2025-123", Status: models.StatusPending}
	creator.On("CreateReport", mock.Anything, expected).Return(report, nil).Once()

	sub, err := w.Submit(context.Background(), creator)

	require.NoError(t, err)
	assert.Same(t, report, sub.Report)
	assert.Equal(t, "/track?newCase=CAS-2025-123", sub.Redirect)
	assert.False(t, w.Submitting())
	creator.AssertExpectations(t)
}

func TestWizard_SubmitFailureStaysOnReview(t *testing.T) {
	creator := new(MockCreator)
	w := wizard.New()
	w.Update(wizard.DraftPatch{Type: strPtr("Assault")})
	toReview(w)
	cause := errors.New("upstream unavailable")
	creator.On("CreateReport", mock.Anything, mock.Anything).Return(nil, cause).Once()

	sub, err := w.Submit(context.Background(), creator)

	assert.Nil(t, sub)
	assert.ErrorIs(t, err, wizard.ErrSubmitFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, wizard.StepReview, w.Step())
	assert.Equal(t, "Assault", w.Draft().Type)
	assert.True(t, w.CanSubmit())
}

func TestWizard_SubmitThenTrack(t *testing.T) {
	seed, err := storage.DefaultSeed()
	require.NoError(t, err)
	store := storage.NewMemoryStore(config.Delays{}, seed)
	ctx := context.Background()

	w := wizard.New()
	w.Update(wizard.DraftPatch{Type: strPtr("Theft"), Address: strPtr("Main St")})
	toReview(w)

	sub, err := w.Submit(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, sub.Report.Status)
	assert.Equal(t, models.PriorityMedium, sub.Report.Priority)
	assert.Equal(t, 0, sub.Report.EvidenceCount)

	found, err := store.GetReportByCaseNumber(ctx, sub.Report.CaseNumber)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Main St", found.Location.Address)
	assert.Equal(t, 1, found.Status.Stage())
}

func TestTrackingURLEscapes(t *testing.T) {
	assert.Equal(t, "/track?newCase=CAS-2023-001", wizard.TrackingURL("CAS-2023-001"))
	assert.Equal(t, "/track?newCase=a+b%26c", wizard.TrackingURL("a b&c"))
}

func TestWizard_ViewMarksProgress(t *testing.T) {
	w := wizard.New()
	w.Next()

	v := w.View()
	require.Len(t, v.Steps, 4)
	assert.True(t, v.Steps[0].Active)
	assert.True(t, v.Steps[1].Active)
	assert.True(t, v.Steps[1].Current)
	assert.False(t, v.Steps[2].Active)
	assert.Empty(t, v.Review)
}

func TestWizard_ViewOffersIncidentTypesOnFirstStep(t *testing.T) {
	w := wizard.New()

	v := w.View()
	require.Len(t, v.IncidentTypes, len(config.IncidentTypes))
	assert.Equal(t, "Theft", v.IncidentTypes[0].Value)
	assert.Equal(t, "Theft / Burglary", v.IncidentTypes[0].Label)
	assert.Equal(t, "Other", v.IncidentTypes[len(v.IncidentTypes)-1].Value)

	w.Next()
	assert.Empty(t, w.View().IncidentTypes)
}
