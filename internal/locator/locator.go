// Package locator holds the static registry of element locators for the
// Swag Labs demo store, grouped by page.
//
// Every element may be addressed by several strategies. ByID is the fastest
// and most stable choice when the element carries an id; ByCSS is flexible
// and still cheap; ByXPath can express structural relations CSS cannot but is
// the slowest and breaks first when markup changes. Callers pick the strategy
// explicitly.
package locator

import (
	"errors"
	"fmt"
	"sort"
)

// Strategy is the lookup method used to resolve a selector.
type Strategy string

// Supported strategies
const (
	ByID        Strategy = "id"
	ByCSS       Strategy = "css"
	ByXPath     Strategy = "xpath"
	ByClassName Strategy = "class"
)

// ErrUnknownLocator is returned when a page, element or strategy is not in the registry.
var ErrUnknownLocator = errors.New("unknown locator")

// Locator identifies a DOM element by a strategy and a selector.
type Locator struct {
	By       Strategy
	Selector string
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.By, l.Selector)
}

// Entry is an immutable record of the selectors known for one element.
type Entry struct {
	name       string
	strategies map[Strategy]string
}

// NewEntry builds an entry. It panics when the entry has no strategy or an
// empty selector, since entries are only built from static tables.
func NewEntry(name string, strategies map[Strategy]string) Entry {
	if len(strategies) == 0 {
		panic(fmt.Sprintf("locator %q has no strategy", name))
	}
	copied := make(map[Strategy]string, len(strategies))
	for by, selector := range strategies {
		if selector == "" {
			panic(fmt.Sprintf("locator %q has an empty %s selector", name, by))
		}
		copied[by] = selector
	}
	return Entry{name: name, strategies: copied}
}

// Name returns the element name.
func (e Entry) Name() string {
	return e.name
}

// Locator returns the locator for the given strategy.
func (e Entry) Locator(by Strategy) (Locator, error) {
	selector, ok := e.strategies[by]
	if !ok {
		return Locator{}, fmt.Errorf("%w: %s has no %s selector", ErrUnknownLocator, e.name, by)
	}
	return Locator{By: by, Selector: selector}, nil
}

// Strategies returns the strategies available for the entry in a stable order.
func (e Entry) Strategies() []Strategy {
	out := make([]Strategy, 0, len(e.strategies))
	for by := range e.strategies {
		out = append(out, by)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Page is a named group of entries scoped to one logical page. A page may
// nest further groups, e.g. the checkout summary.
type Page struct {
	name    string
	entries map[string]Entry
	groups  map[string]Page
}

func newPage(name string, entries []Entry, groups ...Page) Page {
	p := Page{
		name:    name,
		entries: make(map[string]Entry, len(entries)),
		groups:  make(map[string]Page, len(groups)),
	}
	for _, e := range entries {
		p.entries[e.name] = e
	}
	for _, g := range groups {
		p.groups[g.name] = g
	}
	return p
}

// Name returns the page name.
func (p Page) Name() string {
	return p.name
}

// Entry returns the named element entry.
func (p Page) Entry(name string) (Entry, error) {
	e, ok := p.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s has no element %q", ErrUnknownLocator, p.name, name)
	}
	return e, nil
}

// Group returns a nested group.
func (p Page) Group(name string) (Page, error) {
	g, ok := p.groups[name]
	if !ok {
		return Page{}, fmt.Errorf("%w: %s has no group %q", ErrUnknownLocator, p.name, name)
	}
	return g, nil
}

// Locate is shorthand for Entry(name) followed by Locator(by).
func (p Page) Locate(name string, by Strategy) (Locator, error) {
	e, err := p.Entry(name)
	if err != nil {
		return Locator{}, err
	}
	return e.Locator(by)
}

// Elements returns the element names of the page in sorted order.
func (p Page) Elements() []string {
	out := make([]string, 0, len(p.entries))
	for name := range p.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Groups returns the nested group names in sorted order.
func (p Page) Groups() []string {
	out := make([]string, 0, len(p.groups))
	for name := range p.groups {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
