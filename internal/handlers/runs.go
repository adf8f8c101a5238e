package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/saucecheck/internal/models"
)

// RunLister lists recorded runs, newest first
type RunLister interface {
	ListRuns(limit int) ([]*models.Run, error)
}

// RunGetter fetches one recorded run
type RunGetter interface {
	GetRun(id string) (*models.Run, error)
}

var funcMap = template.FuncMap{
	"duration": func(d time.Duration) string {
		return d.Round(time.Millisecond).String()
	},
	"stamp": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02 15:04:05")
	},
	"screenshotURL": screenshotURL,
}

// screenshotURL maps a stored screenshot path onto the /screenshots/ route.
func screenshotURL(path string) string {
	if path == "" {
		return ""
	}
	return "/screenshots/" + filepath.Base(path)
}

func parseTemplate(templatePath string) (*template.Template, error) {
	tmpl, err := template.New(filepath.Base(templatePath)).Funcs(funcMap).ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl, nil
}

// RunsHandler renders the list of recent runs
type RunsHandler struct {
	template *template.Template
	runs     RunLister
	log      logrus.FieldLogger
}

// NewRunsHandler creates a new runs handler
func NewRunsHandler(templatePath string, runs RunLister, log logrus.FieldLogger) (*RunsHandler, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return nil, err
	}

	return &RunsHandler{
		template: tmpl,
		runs:     runs,
		log:      log,
	}, nil
}

// RunsData represents the data for the runs template
type RunsData struct {
	Runs   []*models.Run
	Counts map[string]int
}

// ServeHTTP handles the run list request
func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.runs.ListRuns(limit)
	if err != nil {
		h.log.WithError(err).Error("failed to list runs")
		http.Error(w, "Failed to load runs", http.StatusInternalServerError)
		return
	}

	data := RunsData{Runs: runs, Counts: make(map[string]int)}
	for _, run := range runs {
		data.Counts[string(run.Status)]++
	}

	if err := h.template.Execute(w, data); err != nil {
		h.log.WithError(err).Error("failed to render runs")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
