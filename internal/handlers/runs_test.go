package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/themizzi/saucecheck/internal/models"
	"github.com/themizzi/saucecheck/internal/repository"
)

type stubRuns struct {
	runs      []*models.Run
	err       error
	lastLimit int
}

func (s *stubRuns) ListRuns(limit int) ([]*models.Run, error) {
	s.lastLimit = limit
	return s.runs, s.err
}

func (s *stubRuns) GetRun(id string) (*models.Run, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, r := range s.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", repository.ErrRunNotFound, id)
}

func sampleRuns() []*models.Run {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return []*models.Run{
		{
			ID:          "run-failed",
			Name:        "TestCheckout/Jane_Smith",
			Environment: "qa",
			Browser:     "chromium",
			Status:      models.RunStatusFailed,
			Failure:     "element not found: class=summary_total_label",
			Screenshot:  "reports/screenshots/failure_TestCheckout_Jane_Smith.png",
			StartedAt:   start,
			FinishedAt:  start.Add(2500 * time.Millisecond),
		},
		{
			ID:          "run-passed",
			Name:        "TestLogin/valid_user",
			Environment: "dev",
			Browser:     "firefox",
			Status:      models.RunStatusPassed,
			StartedAt:   start,
			FinishedAt:  start.Add(time.Second),
		},
	}
}

func TestRunsHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		runs           []*models.Run
		listErr        error
		expectedStatus int
		wantLimit      int
		checkContent   []string
	}{
		{
			name:           "lists runs",
			method:         http.MethodGet,
			target:         "/",
			runs:           sampleRuns(),
			expectedStatus: http.StatusOK,
			checkContent: []string{
				"TestCheckout/Jane_Smith", "/runs?id=run-failed", "TestLogin/valid_user",
				"passed: 1", "failed: 1", "2.5s",
			},
		},
		{
			name:           "custom limit",
			method:         http.MethodGet,
			target:         "/?limit=5",
			expectedStatus: http.StatusOK,
			wantLimit:      5,
			checkContent:   []string{"No runs recorded yet."},
		},
		{
			name:           "invalid limit",
			method:         http.MethodGet,
			target:         "/?limit=many",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "repository failure",
			method:         http.MethodGet,
			target:         "/",
			listErr:        errors.New("connection refused"),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "unknown path",
			method:         http.MethodGet,
			target:         "/favicon.ico",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "method not allowed - POST",
			method:         http.MethodPost,
			target:         "/",
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, _ := logtest.NewNullLogger()
			store := &stubRuns{runs: tt.runs, err: tt.listErr}

			handler, err := NewRunsHandler("../../templates/runs.html", store, log)
			if err != nil {
				t.Fatalf("Failed to create handler: %v", err)
			}

			req := httptest.NewRequest(tt.method, tt.target, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if store.lastLimit != tt.wantLimit {
				t.Errorf("expected limit %d, got %d", tt.wantLimit, store.lastLimit)
			}

			body := w.Body.String()
			for _, content := range tt.checkContent {
				if !strings.Contains(body, content) {
					t.Errorf("expected response to contain '%s'", content)
				}
			}
		})
	}
}

func TestRunHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		getErr         error
		expectedStatus int
		checkContent   []string
		absentContent  []string
	}{
		{
			name:           "failed run with screenshot",
			method:         http.MethodGet,
			target:         "/runs?id=run-failed",
			expectedStatus: http.StatusOK,
			checkContent: []string{
				"TestCheckout/Jane_Smith",
				"element not found: class=summary_total_label",
				`src="/screenshots/failure_TestCheckout_Jane_Smith.png"`,
			},
		},
		{
			name:           "passed run has no screenshot",
			method:         http.MethodGet,
			target:         "/runs?id=run-passed",
			expectedStatus: http.StatusOK,
			checkContent:   []string{"TestLogin/valid_user", "firefox", "1s"},
			absentContent:  []string{"<img", "Failure"},
		},
		{
			name:           "missing id",
			method:         http.MethodGet,
			target:         "/runs",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown run",
			method:         http.MethodGet,
			target:         "/runs?id=nope",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "repository failure",
			method:         http.MethodGet,
			target:         "/runs?id=run-passed",
			getErr:         errors.New("timeout"),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "method not allowed - DELETE",
			method:         http.MethodDelete,
			target:         "/runs?id=run-passed",
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, _ := logtest.NewNullLogger()
			handler, err := NewRunHandler("../../templates/run.html", &stubRuns{runs: sampleRuns(), err: tt.getErr}, log)
			if err != nil {
				t.Fatalf("Failed to create handler: %v", err)
			}

			req := httptest.NewRequest(tt.method, tt.target, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			body := w.Body.String()
			for _, content := range tt.checkContent {
				if !strings.Contains(body, content) {
					t.Errorf("expected response to contain '%s'", content)
				}
			}
			for _, content := range tt.absentContent {
				if strings.Contains(body, content) {
					t.Errorf("expected response not to contain '%s'", content)
				}
			}
		})
	}
}

func TestNewRunsHandler_MissingTemplate(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	if _, err := NewRunsHandler("does-not-exist.html", &stubRuns{}, log); err == nil {
		t.Error("expected error for missing template")
	}
}

func TestScreenshotURL(t *testing.T) {
	if got := screenshotURL(""); got != "" {
		t.Errorf("expected empty URL, got %q", got)
	}
	if got := screenshotURL("reports/screenshots/failure_a.png"); got != "/screenshots/failure_a.png" {
		t.Errorf("unexpected URL %q", got)
	}
}
