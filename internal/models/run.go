package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the state of a recorded test run
type RunStatus string

// Run statuses
const (
	RunStatusRunning RunStatus = "running"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
	RunStatusSkipped RunStatus = "skipped"
)

// Run is one scenario executed against one environment
type Run struct {
	ID          string
	Name        string
	Environment string
	Browser     string
	Status      RunStatus
	Failure     string
	Screenshot  string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Domain errors
var (
	ErrInvalidRunName          = errors.New("run name cannot be empty")
	ErrInvalidEnvironment      = errors.New("run environment cannot be empty")
	ErrInvalidStatusTransition = errors.New("invalid run status transition")
)

// NewRun starts a run with validation
func NewRun(name, environment, browser string) (*Run, error) {
	if name == "" {
		return nil, ErrInvalidRunName
	}
	if environment == "" {
		return nil, ErrInvalidEnvironment
	}

	return &Run{
		ID:          uuid.New().String(),
		Name:        name,
		Environment: environment,
		Browser:     browser,
		Status:      RunStatusRunning,
		StartedAt:   time.Now(),
	}, nil
}

func (r *Run) finish(status RunStatus) error {
	if r.Status != RunStatusRunning {
		return fmt.Errorf("%w: cannot mark %s run as %s", ErrInvalidStatusTransition, r.Status, status)
	}
	r.Status = status
	r.FinishedAt = time.Now()
	return nil
}

// Pass marks the run as passed
func (r *Run) Pass() error {
	return r.finish(RunStatusPassed)
}

// Fail marks the run as failed. screenshot is the captured diagnostic, if any.
func (r *Run) Fail(cause, screenshot string) error {
	if err := r.finish(RunStatusFailed); err != nil {
		return err
	}
	r.Failure = cause
	r.Screenshot = screenshot
	return nil
}

// Skip marks the run as skipped
func (r *Run) Skip(reason string) error {
	if err := r.finish(RunStatusSkipped); err != nil {
		return err
	}
	r.Failure = reason
	return nil
}

// IsFinished returns true once the run left the running state
func (r *Run) IsFinished() bool {
	return r.Status != RunStatusRunning
}

// Duration returns the run time so far, or the total once finished
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
