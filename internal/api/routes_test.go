package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"safecity/backend/internal/api"
	"safecity/backend/internal/api/handler"
	"safecity/backend/internal/config"
	"safecity/backend/internal/feed"
	"safecity/backend/internal/localization"
	"safecity/backend/internal/logger"
	"safecity/backend/internal/models"
	"safecity/backend/internal/storage"
	"safecity/backend/internal/wizard"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router   *gin.Engine
	hub      *feed.ManagerService
	notifier *recordingNotifier
	wizards  *wizard.Sessions
}

func newTestServer(t *testing.T, store storage.Storage) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.SetOutput(io.Discard)

	if store == nil {
		seed, err := storage.DefaultSeed()
		require.NoError(t, err)
		store = storage.NewMemoryStore(config.Delays{}, seed)
	}
	loc, err := localization.NewEmbeddedLocalizer()
	require.NoError(t, err)

	ts := &testServer{
		hub:      feed.NewManagerService(),
		notifier: newRecordingNotifier(),
		wizards:  wizard.NewSessions(time.Hour),
	}
	h := handler.NewHandler(store, ts.wizards, ts.hub, ts.notifier, loc)
	ts.router = api.SetupRouter(h)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			r = strings.NewReader(s)
		} else {
			raw, err := json.Marshal(body)
			require.NoError(t, err)
			r = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

type reportsBody struct {
	Reports []models.Report `json:"reports"`
	Count   int             `json:"count"`
}

type wizardBody struct {
	ID     string      `json:"id"`
	Wizard wizard.View `json:"wizard"`
	Error  string      `json:"error"`
	Code   string      `json:"code"`
}

type trackBody struct {
	Outcome    string         `json:"outcome"`
	CaseNumber string         `json:"caseNumber"`
	Report     *models.Report `json:"report"`
	Progress   *struct {
		Stage   int     `json:"stage"`
		Percent float64 `json:"percent"`
	} `json:"progress"`
	Message string `json:"message"`
	Note    string `json:"note"`
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)
	w := ts.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListReports(t *testing.T) {
	ts := newTestServer(t, nil)

	t.Run("all", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/reports", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode[reportsBody](t, w)
		assert.Equal(t, 3, body.Count)
		assert.Len(t, body.Reports, 3)
	})

	t.Run("filtered by type", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/reports?q=THEFT", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode[reportsBody](t, w)
		require.Len(t, body.Reports, 1)
		assert.Equal(t, "CAS-2023-001", body.Reports[0].CaseNumber)
	})

	t.Run("filtered by case number", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/reports?q=2023-00", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 3, decode[reportsBody](t, w).Count)
	})
}

func TestReportStats(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/api/reports/stats", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Stats struct {
			Total    int `json:"total"`
			Pending  int `json:"pending"`
			Resolved int `json:"resolved"`
		} `json:"stats"`
	}](t, w)
	assert.Equal(t, 3, body.Stats.Total)
	assert.Equal(t, 1, body.Stats.Pending)
	assert.Equal(t, 1, body.Stats.Resolved)
}

func TestRecentReports(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/api/reports/recent", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode[struct {
		Reports []struct {
			CaseNumber   string `json:"caseNumber"`
			HighPriority bool   `json:"highPriority"`
		} `json:"reports"`
	}](t, w)
	require.Len(t, body.Reports, 3)
	assert.False(t, body.Reports[0].HighPriority)
	assert.True(t, body.Reports[1].HighPriority)
}

func TestListReports_StoreFailure(t *testing.T) {
	store := new(MockStorage)
	store.On("ListReports", mock.Anything).Return(nil, errors.New("connection refused"))
	ts := newTestServer(t, store)

	w := ts.do(t, http.MethodGet, "/api/reports", nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "load.failed", decode[wizardBody](t, w).Code)
	store.AssertExpectations(t)
}

func TestCreateReport(t *testing.T) {
	ts := newTestServer(t, nil)

	t.Run("applies defaults", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/reports", map[string]any{"description": "Broken streetlight"})

		require.Equal(t, http.StatusCreated, w.Code)
		sub := decode[wizard.Submission](t, w)
		require.NotNil(t, sub.Report)
		assert.Equal(t, config.DefaultReportType, sub.Report.Type)
		assert.Equal(t, models.StatusPending, sub.Report.Status)
		assert.Equal(t, models.PriorityMedium, sub.Report.Priority)
		assert.Equal(t, "/track?newCase="+sub.Report.CaseNumber, sub.Redirect)

		select {
		case got := <-ts.notifier.seen:
			assert.Equal(t, sub.Report.CaseNumber, got)
		case <-time.After(time.Second):
			t.Fatal("dispatch was not notified")
		}
		select {
		case ev := <-ts.hub.BroadcastCh:
			assert.Equal(t, models.FeedReportCreated, ev.Type)
			assert.Equal(t, sub.Report.CaseNumber, ev.Report.CaseNumber)
		default:
			t.Fatal("report was not broadcast to the feed")
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/reports", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTrack(t *testing.T) {
	ts := newTestServer(t, nil)

	t.Run("redirect parameter", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/track?newCase=CAS-2023-002", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode[trackBody](t, w)
		assert.Equal(t, "found", body.Outcome)
		require.NotNil(t, body.Progress)
		assert.Equal(t, 2, body.Progress.Stage)
		assert.InDelta(t, 33.33, body.Progress.Percent, 0.01)
		assert.Contains(t, body.Note, "Officer assigned")
	})

	t.Run("path parameter", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/track/CAS-2023-003", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "found", decode[trackBody](t, w).Outcome)
	})

	t.Run("not found is localized", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/track/CAS-9999-999?lang=am", nil)
		require.Equal(t, http.StatusNotFound, w.Code)
		body := decode[trackBody](t, w)
		assert.Equal(t, "not_found", body.Outcome)
		assert.Equal(t, "በዚህ የጉዳይ ቁጥር የተመዘገበ ሪፖርት አልተገኘም።", body.Message)
	})

	t.Run("blank stays idle", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/track?caseNumber=%20%20", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "idle", decode[trackBody](t, w).Outcome)
	})
}

func TestTrack_StoreFailure(t *testing.T) {
	store := new(MockStorage)
	store.On("GetReportByCaseNumber", mock.Anything, "CAS-2023-001").Return(nil, errors.New("timeout"))
	ts := newTestServer(t, store)

	w := ts.do(t, http.MethodGet, "/api/track/CAS-2023-001", nil)

	require.Equal(t, http.StatusBadGateway, w.Code)
	body := decode[trackBody](t, w)
	assert.Equal(t, "error", body.Outcome)
	assert.Equal(t, "An error occurred. Please try again.", body.Message)
}

func TestWizardFlow(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/api/wizard", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	started := decode[wizardBody](t, w)
	require.NotEmpty(t, started.ID)
	assert.Equal(t, wizard.StepType, started.Wizard.Step)
	base := "/api/wizard/" + started.ID

	w = ts.do(t, http.MethodPatch, base+"/draft", map[string]any{
		"type":        "Theft",
		"description": "Phone snatched at the bus stop",
		"address":     "Central Station",
		"fullName":    "Abebe Kebede",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Theft", decode[wizardBody](t, w).Wizard.Draft.Type)

	w = ts.do(t, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "submit.not_review", decode[wizardBody](t, w).Code)

	w = ts.do(t, http.MethodPost, base+"/anonymous", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[wizardBody](t, w).Wizard.ShowContact)

	for i := 0; i < 3; i++ {
		w = ts.do(t, http.MethodPost, base+"/next", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	view := decode[wizardBody](t, w).Wizard
	assert.Equal(t, wizard.StepReview, view.Step)
	assert.True(t, view.CanSubmit)
	assert.NotEmpty(t, view.Review)

	w = ts.do(t, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	sub := decode[wizard.Submission](t, w)
	require.NotNil(t, sub.Report)
	assert.True(t, sub.Report.IsAnonymous)
	assert.Equal(t, "Central Station", sub.Report.Location.Address)
	assert.True(t, strings.HasPrefix(sub.Redirect, "/track?newCase=CAS-"))

	// the session ends with a successful submit
	w = ts.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/api/track?newCase="+sub.Report.CaseNumber, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "found", decode[trackBody](t, w).Outcome)
}

func TestWizardBackIsClamped(t *testing.T) {
	ts := newTestServer(t, nil)
	id := decode[wizardBody](t, ts.do(t, http.MethodPost, "/api/wizard", nil)).ID

	w := ts.do(t, http.MethodPost, "/api/wizard/"+id+"/back", nil)

	require.Equal(t, http.StatusOK, w.Code)
	view := decode[wizardBody](t, w).Wizard
	assert.Equal(t, wizard.StepType, view.Step)
	assert.False(t, view.CanGoBack)
}

func TestWizardSubmitFailureStaysOnReview(t *testing.T) {
	store := new(MockStorage)
	store.On("CreateReport", mock.Anything, mock.Anything).Return(nil, errors.New("network down")).Once()
	ts := newTestServer(t, store)

	id := decode[wizardBody](t, ts.do(t, http.MethodPost, "/api/wizard", nil)).ID
	base := "/api/wizard/" + id
	for i := 0; i < 3; i++ {
		ts.do(t, http.MethodPost, base+"/next", nil)
	}

	w := ts.do(t, http.MethodPost, base+"/submit", nil)

	require.Equal(t, http.StatusBadGateway, w.Code)
	body := decode[wizardBody](t, w)
	assert.Equal(t, "submit.failed", body.Code)
	assert.Equal(t, wizard.StepReview, body.Wizard.Step)
	assert.True(t, body.Wizard.CanSubmit)

	// still there for a retry
	w = ts.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestWizardUnknownSession(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodPost, "/api/wizard/nope/next", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "wizard.not_found", decode[wizardBody](t, w).Code)
}

func TestDiscardWizard(t *testing.T) {
	ts := newTestServer(t, nil)
	id := decode[wizardBody](t, ts.do(t, http.MethodPost, "/api/wizard", nil)).ID

	w := ts.do(t, http.MethodDelete, "/api/wizard/"+id, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, ts.wizards.Len())
}

func TestCommunityContent(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(t, http.MethodGet, "/api/notices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	notices := decode[struct {
		Notices []models.Notice `json:"notices"`
	}](t, w)
	assert.Len(t, notices.Notices, 2)

	w = ts.do(t, http.MethodGet, "/api/blogs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	blogs := decode[struct {
		Blogs []models.BlogSummary `json:"blogs"`
	}](t, w)
	require.Len(t, blogs.Blogs, 2)
	assert.Equal(t, "Community Safety Tips", blogs.Blogs[0].Title)
}

func TestServeFeed_WithoutHub(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger.SetOutput(io.Discard)
	seed, err := storage.DefaultSeed()
	require.NoError(t, err)
	loc, err := localization.NewEmbeddedLocalizer()
	require.NoError(t, err)
	h := handler.NewHandler(storage.NewMemoryStore(config.Delays{}, seed), wizard.NewSessions(time.Hour), nil, nil, loc)
	router := api.SetupRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws/reports", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "feed.unavailable", decode[wizardBody](t, w).Code)
}

func TestWizardUnknownSession_Amharic(t *testing.T) {
	ts := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/wizard/nope", nil)
	req.Header.Set("Accept-Language", "en;q=0.2, am;q=0.8")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ረቂቅዎ ጊዜው አልፎበታል። እባክዎ አዲስ ሪፖርት ይጀምሩ።", decode[wizardBody](t, w).Error)
}
