package handlers

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/saucecheck/internal/models"
	"github.com/themizzi/saucecheck/internal/repository"
)

// RunHandler renders a single run with its failure screenshot
type RunHandler struct {
	template *template.Template
	runs     RunGetter
	log      logrus.FieldLogger
}

// NewRunHandler creates a new run handler
func NewRunHandler(templatePath string, runs RunGetter, log logrus.FieldLogger) (*RunHandler, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return nil, err
	}

	return &RunHandler{
		template: tmpl,
		runs:     runs,
		log:      log,
	}, nil
}

// RunData represents the data for the run template
type RunData struct {
	Run *models.Run
}

// ServeHTTP handles the run detail request
func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing run ID", http.StatusBadRequest)
		return
	}

	run, err := h.runs.GetRun(id)
	if errors.Is(err, repository.ErrRunNotFound) {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("run_id", id).Error("failed to get run")
		http.Error(w, "Failed to load run", http.StatusInternalServerError)
		return
	}

	if err := h.template.Execute(w, RunData{Run: run}); err != nil {
		h.log.WithError(err).Error("failed to render run")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
