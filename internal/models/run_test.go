package models

import (
	"errors"
	"testing"
	"time"
)

func TestNewRun(t *testing.T) {
	tests := []struct {
		name        string
		runName     string
		environment string
		wantErr     error
	}{
		{
			name:        "valid run",
			runName:     "TestLogin/valid",
			environment: "dev",
			wantErr:     nil,
		},
		{
			name:        "empty name",
			runName:     "",
			environment: "dev",
			wantErr:     ErrInvalidRunName,
		},
		{
			name:        "empty environment",
			runName:     "TestLogin/valid",
			environment: "",
			wantErr:     ErrInvalidEnvironment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := NewRun(tt.runName, tt.environment, "chromium")

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("NewRun() error = %v, wantErr %v", err, tt.wantErr)
				}
				if run != nil {
					t.Error("Expected run to be nil when error occurs")
				}
				return
			}

			if err != nil {
				t.Fatalf("NewRun() unexpected error = %v", err)
			}
			if run.ID == "" {
				t.Error("Run ID should not be empty")
			}
			if run.Status != RunStatusRunning {
				t.Errorf("Expected status %s, got %s", RunStatusRunning, run.Status)
			}
			if run.StartedAt.IsZero() {
				t.Error("StartedAt should be set")
			}
			if run.IsFinished() {
				t.Error("New run should not be finished")
			}
		})
	}
}

func TestRun_Transitions(t *testing.T) {
	finish := map[RunStatus]func(r *Run) error{
		RunStatusPassed:  func(r *Run) error { return r.Pass() },
		RunStatusFailed:  func(r *Run) error { return r.Fail("boom", "failure_x.png") },
		RunStatusSkipped: func(r *Run) error { return r.Skip("not configured") },
	}

	tests := []struct {
		name         string
		initialState RunStatus
		target       RunStatus
		wantErr      bool
	}{
		{name: "pass running run", initialState: RunStatusRunning, target: RunStatusPassed},
		{name: "fail running run", initialState: RunStatusRunning, target: RunStatusFailed},
		{name: "skip running run", initialState: RunStatusRunning, target: RunStatusSkipped},
		{name: "cannot pass failed run", initialState: RunStatusFailed, target: RunStatusPassed, wantErr: true},
		{name: "cannot fail passed run", initialState: RunStatusPassed, target: RunStatusFailed, wantErr: true},
		{name: "cannot skip passed run", initialState: RunStatusPassed, target: RunStatusSkipped, wantErr: true},
		{name: "cannot pass twice", initialState: RunStatusPassed, target: RunStatusPassed, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &Run{ID: "test-id", Name: "n", Environment: "dev", Status: tt.initialState}

			err := finish[tt.target](run)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStatusTransition) {
					t.Errorf("expected ErrInvalidStatusTransition, got %v", err)
				}
				if run.Status != tt.initialState {
					t.Errorf("status changed to %s on rejected transition", run.Status)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error = %v", err)
			}
			if run.Status != tt.target {
				t.Errorf("Expected status %s, got %s", tt.target, run.Status)
			}
			if run.FinishedAt.IsZero() {
				t.Error("FinishedAt should be set")
			}
			if tt.target == RunStatusFailed && (run.Failure != "boom" || run.Screenshot != "failure_x.png") {
				t.Errorf("failure details not recorded: %+v", run)
			}
		})
	}
}

func TestRun_Duration(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	run := &Run{StartedAt: start, FinishedAt: start.Add(1500 * time.Millisecond), Status: RunStatusPassed}

	if got := run.Duration(); got != 1500*time.Millisecond {
		t.Errorf("Duration() = %s, want 1.5s", got)
	}

	running := &Run{StartedAt: time.Now().Add(-time.Second), Status: RunStatusRunning}
	if got := running.Duration(); got < time.Second {
		t.Errorf("Duration() of running run = %s, want at least 1s", got)
	}
}
