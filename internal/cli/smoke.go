package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/themizzi/saucecheck/internal/flows"
	"github.com/themizzi/saucecheck/internal/models"
	"github.com/themizzi/saucecheck/internal/pages"
	"github.com/themizzi/saucecheck/internal/session"
)

// SmokeOptions describes the purchase made by the smoke check
type SmokeOptions struct {
	Name     string
	Items    []string
	Customer pages.CustomerInfo
}

// DefaultSmokeOptions buys a backpack as John Doe.
func DefaultSmokeOptions() SmokeOptions {
	return SmokeOptions{
		Name:     "smoke",
		Items:    []string{"Sauce Labs Backpack"},
		Customer: pages.CustomerInfo{FirstName: "John", LastName: "Doe", PostalCode: "12345"},
	}
}

// RunSmoke signs in and completes one purchase in a fresh session. The
// session is always released, with a screenshot when the check failed.
// The returned error is the check's own failure; problems releasing the
// session are logged.
func RunSmoke(m *session.Manager, opts SmokeOptions, log logrus.FieldLogger) (*models.Run, error) {
	h, err := m.Open(opts.Name)
	if err != nil {
		return nil, err
	}

	runErr := smoke(h, opts, log)
	if err := h.Release(runErr != nil, runErr); err != nil {
		log.WithError(err).Warn("failed to release smoke session")
	}
	return h.Run(), runErr
}

func smoke(h *session.Handle, opts SmokeOptions, log logrus.FieldLogger) error {
	if err := h.Home(); err != nil {
		return err
	}
	site := h.Site()
	if err := flows.SignIn(site, h.Environment()); err != nil {
		return err
	}
	summary, err := flows.Purchase(site, opts.Items, opts.Customer)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"item_total": summary.ItemTotal,
		"tax":        summary.Tax,
		"total":      summary.Total,
	}).Info("purchase confirmed")
	return nil
}

// PrintRunResult writes a one line verdict for run.
func PrintRunResult(w io.Writer, run *models.Run) {
	var status string
	switch run.Status {
	case models.RunStatusPassed:
		status = color.New(color.FgGreen, color.Bold).Sprint("PASSED")
	case models.RunStatusFailed:
		status = color.New(color.FgRed, color.Bold).Sprint("FAILED")
	default:
		status = color.New(color.FgYellow).Sprint(string(run.Status))
	}
	fmt.Fprintf(w, "%s %s [%s, %s] in %s\n", status, run.Name, run.Environment, run.Browser, run.Duration().Round(time.Millisecond))
	if run.Failure != "" {
		fmt.Fprintf(w, "  %s\n", run.Failure)
	}
	if run.Screenshot != "" {
		fmt.Fprintf(w, "  screenshot: %s\n", run.Screenshot)
	}
}
