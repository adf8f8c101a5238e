package browser

import (
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/themizzi/saucecheck/internal/locator"
)

// DefaultPollInterval is the delay between resolution attempts.
const DefaultPollInterval = 250 * time.Millisecond

var errNoMatch = errors.New("no match yet")

// Resolver finds elements within a scope, polling up to its wait budget.
//
// Find always returns the first match of the underlying query. Several
// matches are not an error; callers needing uniqueness must use FindAll.
type Resolver struct {
	scope Scope
	wait  time.Duration
	poll  time.Duration
	log   logrus.FieldLogger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithWait sets the wait budget used by Find.
func WithWait(d time.Duration) Option {
	return func(r *Resolver) { r.wait = d }
}

// WithPollInterval sets the delay between attempts.
func WithPollInterval(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.poll = d
		}
	}
}

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver creates a resolver over scope.
func NewResolver(scope Scope, opts ...Option) *Resolver {
	discard := logrus.New()
	discard.SetLevel(logrus.PanicLevel)

	r := &Resolver{
		scope: scope,
		poll:  DefaultPollInterval,
		log:   discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Within returns a resolver scoped to the subtree of el, sharing the wait policy.
func (r *Resolver) Within(el Element) *Resolver {
	cp := *r
	cp.scope = el
	return &cp
}

// WithWait returns a copy using an explicit wait that overrides the current one.
func (r *Resolver) WithWait(d time.Duration) *Resolver {
	cp := *r
	cp.wait = d
	return &cp
}

// Wait returns the wait budget.
func (r *Resolver) Wait() time.Duration {
	return r.wait
}

// Logger returns the resolver's logger.
func (r *Resolver) Logger() logrus.FieldLogger {
	return r.log
}

// Find resolves exactly one element. Empty results and stale references are
// retried until the wait is spent; any other driver error stops immediately.
func (r *Resolver) Find(loc locator.Locator) (Element, error) {
	var (
		found    Element
		lastErr  error
		attempts int
	)

	op := func() error {
		attempts++
		els, err := r.scope.Query(loc)
		switch {
		case errors.Is(err, ErrStale):
			lastErr = err
			return err
		case err != nil:
			return backoff.Permanent(err)
		case len(els) == 0:
			return errNoMatch
		}
		found = els[0]
		return nil
	}

	err := backoff.Retry(op, r.policy())
	if err == nil {
		return found, nil
	}
	if errors.Is(err, errNoMatch) || errors.Is(err, ErrStale) {
		r.log.WithFields(logrus.Fields{
			"locator":  loc.String(),
			"wait":     r.wait,
			"attempts": attempts,
		}).Debug("element did not resolve")
		return nil, &NotFoundError{Locator: loc, Wait: r.wait, Attempts: attempts, Last: lastErr}
	}
	return nil, err
}

// FindAll returns every current match. No match is an empty slice, not an error.
func (r *Resolver) FindAll(loc locator.Locator) ([]Element, error) {
	els, err := r.scope.Query(loc)
	if err != nil {
		return nil, err
	}
	if els == nil {
		els = []Element{}
	}
	return els, nil
}

func (r *Resolver) policy() backoff.BackOff {
	if r.wait <= 0 {
		return &backoff.StopBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.poll
	b.MaxInterval = r.poll
	b.Multiplier = 1
	b.RandomizationFactor = 0
	b.MaxElapsedTime = r.wait
	b.Reset()
	return b
}
