package pages

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/themizzi/saucecheck/internal/browser"
	"github.com/themizzi/saucecheck/internal/browser/browsertest"
	"github.com/themizzi/saucecheck/internal/locator"
)

const testWait = 30 * time.Millisecond

func newResolver(scope browser.Scope, log logrus.FieldLogger) *browser.Resolver {
	return browser.NewResolver(scope,
		browser.WithWait(testWait),
		browser.WithPollInterval(5*time.Millisecond),
		browser.WithLogger(log),
	)
}

// newStoreSite returns a fake store and a site driving it.
func newStoreSite(t *testing.T) (*browsertest.Store, *Site, *logtest.Hook) {
	t.Helper()
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	st := browsertest.NewStore()
	return st, NewSite(newResolver(st, log), testWait), hook
}

type stubScope struct {
	query func(loc locator.Locator) ([]browser.Element, error)
}

func (s stubScope) Query(loc locator.Locator) ([]browser.Element, error) {
	return s.query(loc)
}

// stubElement returns the next scripted text on each Text call.
type stubElement struct {
	texts []string
	errs  []error
	calls int
}

func (e *stubElement) Query(locator.Locator) ([]browser.Element, error) { return nil, nil }
func (e *stubElement) Click() error                                     { return nil }
func (e *stubElement) SendKeys(string) error                            { return nil }
func (e *stubElement) SelectByValue(string) error                       { return nil }
func (e *stubElement) IsDisplayed() (bool, error)                       { return true, nil }

func (e *stubElement) Text() (string, error) {
	i := e.calls
	e.calls++
	if i < len(e.errs) && e.errs[i] != nil {
		return "", e.errs[i]
	}
	if i < len(e.texts) {
		return e.texts[i], nil
	}
	return e.texts[len(e.texts)-1], nil
}
