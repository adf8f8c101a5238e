// Package browser resolves registry locators against a live browser session.
//
// The driver itself is abstracted behind Session and Element so that page
// objects can run against playwright in the e2e suite and against the
// in-memory browsertest session in unit tests.
package browser

import (
	"errors"
	"fmt"
	"time"

	"github.com/themizzi/saucecheck/internal/locator"
)

// Driver errors
var (
	// ErrNotFound means no element matched within the wait budget.
	ErrNotFound = errors.New("element not found")
	// ErrStale means a resolved element is no longer attached to the document.
	ErrStale = errors.New("stale element reference")
	// ErrUnsupportedStrategy is returned by drivers that cannot evaluate a strategy.
	ErrUnsupportedStrategy = errors.New("unsupported locator strategy")
)

// Scope is anything elements can be queried from: the session document or an element subtree.
type Scope interface {
	Query(loc locator.Locator) ([]Element, error)
}

// Element is a live reference to one DOM node.
type Element interface {
	Scope
	Text() (string, error)
	Click() error
	// SendKeys replaces the value of an input with text.
	SendKeys(text string) error
	SelectByValue(value string) error
	IsDisplayed() (bool, error)
}

// Session is one active browser instance under automation.
type Session interface {
	Scope
	Navigate(url string) error
	CurrentURL() string
	Screenshot() ([]byte, error)
	Close() error
}

// NotFoundError reports a locator that did not resolve before the wait ran out.
type NotFoundError struct {
	Locator  locator.Locator
	Wait     time.Duration
	Attempts int
	Last     error
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s: %s after %s (%d attempts)", ErrNotFound, e.Locator, e.Wait, e.Attempts)
	if e.Last != nil {
		msg += ": last error: " + e.Last.Error()
	}
	return msg
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
