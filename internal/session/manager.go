// Package session owns the lifecycle of one browser session per test: open,
// diagnostic capture on failure, run recording and guaranteed teardown.
package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/saucecheck/internal/browser"
	"github.com/themizzi/saucecheck/internal/config"
	"github.com/themizzi/saucecheck/internal/locator"
	"github.com/themizzi/saucecheck/internal/models"
	"github.com/themizzi/saucecheck/internal/pages"
)

// ErrSessionClosed is returned for any use of a released session.
var ErrSessionClosed = errors.New("browser session already released")

// Launcher starts isolated browser sessions.
type Launcher interface {
	NewSession() (browser.Session, error)
}

// Recorder persists run outcomes.
type Recorder interface {
	CreateRun(run *models.Run) error
	FinishRun(run *models.Run) error
}

// Manager opens sessions for one suite against one environment.
type Manager struct {
	suite    *config.Suite
	env      config.Environment
	launcher Launcher
	sink     DiagnosticSink
	recorder Recorder
	log      logrus.FieldLogger
}

// Option configures a Manager.
type Option func(*Manager)

// WithSink replaces the default file sink.
func WithSink(sink DiagnosticSink) Option {
	return func(m *Manager) { m.sink = sink }
}

// WithRecorder records every run through r.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithLogger sets the manager's logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates a Manager. Screenshots go to suite.ScreenshotsPath
// unless WithSink says otherwise.
func NewManager(suite *config.Suite, env config.Environment, launcher Launcher, opts ...Option) *Manager {
	m := &Manager{
		suite:    suite,
		env:      env,
		launcher: launcher,
		sink:     NewFileSink(suite.ScreenshotsPath),
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Environment returns the environment sessions are opened against.
func (m *Manager) Environment() config.Environment {
	return m.env
}

// Suite returns the suite settings.
func (m *Manager) Suite() *config.Suite {
	return m.suite
}

// Open starts a session for the named test.
func (m *Manager) Open(name string) (*Handle, error) {
	run, err := models.NewRun(name, m.env.Name, m.suite.Browser)
	if err != nil {
		return nil, err
	}

	sess, err := m.launcher.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to open browser session: %w", err)
	}

	log := m.log.WithFields(logrus.Fields{
		"test":   name,
		"env":    m.env.Name,
		"run_id": run.ID,
	})

	if m.recorder != nil {
		if err := m.recorder.CreateRun(run); err != nil {
			log.WithError(err).Warn("failed to record run start")
		}
	}

	h := &Handle{
		name: name,
		m:    m,
		sess: sess,
		run:  run,
		log:  log,
	}
	h.resolver = browser.NewResolver(guard{h},
		browser.WithWait(m.suite.ImplicitWait),
		browser.WithPollInterval(m.suite.PollInterval),
		browser.WithLogger(log),
	)
	log.Debug("session opened")
	return h, nil
}

// Start opens a session for t and releases it when t finishes, capturing a
// screenshot if t failed.
func (m *Manager) Start(t testing.TB) *Handle {
	t.Helper()
	h, err := m.Open(t.Name())
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	t.Cleanup(func() {
		var err error
		if t.Skipped() {
			err = h.release(models.RunStatusSkipped, nil)
		} else {
			err = h.Release(t.Failed(), nil)
		}
		if err != nil {
			t.Logf("failed to release session: %v", err)
		}
	})
	return h
}

// Handle is one open session.
type Handle struct {
	name     string
	m        *Manager
	sess     browser.Session
	run      *models.Run
	resolver *browser.Resolver
	released bool
	log      logrus.FieldLogger
}

// guard rejects queries once the handle is released.
type guard struct {
	h *Handle
}

func (g guard) Query(loc locator.Locator) ([]browser.Element, error) {
	if g.h.released {
		return nil, ErrSessionClosed
	}
	return g.h.sess.Query(loc)
}

// Name returns the test name the handle was opened for.
func (h *Handle) Name() string {
	return h.name
}

// Run returns the run being recorded.
func (h *Handle) Run() *models.Run {
	return h.run
}

// Resolver returns the session's resolver, bound to the implicit wait.
func (h *Handle) Resolver() *browser.Resolver {
	return h.resolver
}

// Site returns fresh page objects for the session.
func (h *Handle) Site() *pages.Site {
	return pages.NewSite(h.resolver, h.m.suite.ExplicitWait)
}

// Environment returns the environment under test.
func (h *Handle) Environment() config.Environment {
	return h.m.env
}

// Home navigates to the environment's base URL.
func (h *Handle) Home() error {
	if h.released {
		return ErrSessionClosed
	}
	return h.sess.Navigate(h.m.env.URL)
}

// CurrentURL returns the session's current URL.
func (h *Handle) CurrentURL() (string, error) {
	if h.released {
		return "", ErrSessionClosed
	}
	return h.sess.CurrentURL(), nil
}

// Released reports whether Release already ran.
func (h *Handle) Released() bool {
	return h.released
}

// Release ends the session. A failed test gets its screenshot captured
// before the browser closes. Later calls do nothing.
func (h *Handle) Release(failed bool, cause error) error {
	status := models.RunStatusPassed
	if failed {
		status = models.RunStatusFailed
	}
	return h.release(status, cause)
}

func (h *Handle) release(status models.RunStatus, cause error) error {
	if h.released {
		return nil
	}
	h.released = true

	var errs []error
	var screenshot string
	if status == models.RunStatusFailed {
		path, err := h.capture()
		if err != nil {
			h.log.WithError(err).Warn("failed to capture failure screenshot")
			errs = append(errs, err)
		}
		screenshot = path
	}

	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	var err error
	switch status {
	case models.RunStatusFailed:
		if msg == "" {
			msg = "test failed"
		}
		err = h.run.Fail(msg, screenshot)
	case models.RunStatusSkipped:
		err = h.run.Skip(msg)
	default:
		err = h.run.Pass()
	}
	if err != nil {
		errs = append(errs, err)
	}

	if h.m.recorder != nil {
		if err := h.m.recorder.FinishRun(h.run); err != nil {
			h.log.WithError(err).Warn("failed to record run result")
			errs = append(errs, err)
		}
	}

	if err := h.sess.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close browser session: %w", err))
	}

	h.log.WithFields(logrus.Fields{
		"status":   h.run.Status,
		"duration": h.run.Duration(),
	}).Info("session released")
	return errors.Join(errs...)
}

func (h *Handle) capture() (string, error) {
	png, err := h.sess.Screenshot()
	if err != nil {
		return "", fmt.Errorf("failed to take screenshot: %w", err)
	}
	return h.m.sink.Capture(h.name, png)
}

// LaunchOptions derives playwright launch settings from the suite.
func LaunchOptions(suite *config.Suite) browser.LaunchOptions {
	return browser.LaunchOptions{
		Browser:        suite.Browser,
		Headless:       suite.Headless,
		Args:           suite.LaunchArgs(),
		ActionTimeout:  suite.ImplicitWait,
		ViewportWidth:  suite.ViewportWidth,
		ViewportHeight: suite.ViewportHeight,
	}
}
