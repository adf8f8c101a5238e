// Package browsertest provides an in-memory browser.Session backed by a
// goquery document, for exercising page objects without a browser.
//
// Nodes removed from the document, or left behind when the document is
// replaced, report browser.ErrStale exactly like detached WebDriver
// references. XPath locators are not supported.
package browsertest

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/themizzi/saucecheck/internal/browser"
	"github.com/themizzi/saucecheck/internal/locator"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("session closed")

// ClickFunc reacts to a click on an element matching the registered selector.
type ClickFunc func(el *goquery.Selection) error

// ChangeFunc reacts to an option being selected on a matching <select>.
type ChangeFunc func(el *goquery.Selection, value string) error

// NavigateFunc returns the document served for url.
type NavigateFunc func(url string) (string, error)

type clickHandler struct {
	selector string
	fn       ClickFunc
}

type changeHandler struct {
	selector string
	fn       ChangeFunc
}

// Session is a fake browser.Session.
type Session struct {
	doc      *goquery.Document
	url      string
	closed   bool
	clicks   []clickHandler
	changes  []changeHandler
	navigate NavigateFunc

	queryErrs map[string][]error
	shotErr   error

	// Queries counts Query calls per locator string.
	Queries map[string]int
	// Screenshots counts captured screenshots.
	Screenshots int
}

var _ browser.Session = (*Session)(nil)

// New returns a session showing the given markup.
func New(markup string) *Session {
	s := &Session{
		url:       "about:blank",
		queryErrs: make(map[string][]error),
		Queries:   make(map[string]int),
	}
	s.SetHTML(markup)
	return s
}

// SetHTML replaces the document. Every previously resolved element goes stale.
func (s *Session) SetHTML(markup string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		// html.Parse only fails on reader errors, which a strings.Reader never returns.
		panic(err)
	}
	s.doc = doc
}

// Document exposes the live document for assertions and handlers.
func (s *Session) Document() *goquery.Document {
	return s.doc
}

// OnClick registers fn for clicks on elements matching selector. The first
// registered match wins.
func (s *Session) OnClick(selector string, fn ClickFunc) {
	s.clicks = append(s.clicks, clickHandler{selector: selector, fn: fn})
}

// OnChange registers fn for option selection on elements matching selector.
func (s *Session) OnChange(selector string, fn ChangeFunc) {
	s.changes = append(s.changes, changeHandler{selector: selector, fn: fn})
}

// OnNavigate sets the document source used by Navigate.
func (s *Session) OnNavigate(fn NavigateFunc) {
	s.navigate = fn
}

// FailQuery makes the next queries for loc return errs, one per call.
func (s *Session) FailQuery(loc locator.Locator, errs ...error) {
	key := loc.String()
	s.queryErrs[key] = append(s.queryErrs[key], errs...)
}

// FailScreenshot makes Screenshot return err.
func (s *Session) FailScreenshot(err error) {
	s.shotErr = err
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	return s.closed
}

// Query implements browser.Scope over the whole document.
func (s *Session) Query(loc locator.Locator) ([]browser.Element, error) {
	if s.closed {
		return nil, ErrClosed
	}
	key := loc.String()
	s.Queries[key]++
	if errs := s.queryErrs[key]; len(errs) > 0 {
		s.queryErrs[key] = errs[1:]
		return nil, errs[0]
	}
	css, err := cssFor(loc)
	if err != nil {
		return nil, err
	}
	return s.wrap(s.doc.Find(css)), nil
}

// Navigate loads the document registered for url.
func (s *Session) Navigate(url string) error {
	if s.closed {
		return ErrClosed
	}
	if s.navigate == nil {
		return fmt.Errorf("no page served for %s", url)
	}
	markup, err := s.navigate(url)
	if err != nil {
		return err
	}
	s.url = url
	s.SetHTML(markup)
	return nil
}

// SetURL records the current URL without loading a document.
func (s *Session) SetURL(url string) {
	s.url = url
}

// CurrentURL returns the last navigated URL.
func (s *Session) CurrentURL() string {
	return s.url
}

// Screenshot returns a 1x1 PNG.
func (s *Session) Screenshot() ([]byte, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.shotErr != nil {
		return nil, s.shotErr
	}
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	s.Screenshots++
	return buf.Bytes(), nil
}

// Close marks the session closed.
func (s *Session) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return nil
}

func (s *Session) wrap(sel *goquery.Selection) []browser.Element {
	out := make([]browser.Element, 0, sel.Length())
	sel.Each(func(_ int, node *goquery.Selection) {
		out = append(out, &element{session: s, sel: node})
	})
	return out
}

func (s *Session) attached(n *html.Node) bool {
	root := s.doc.Nodes[0]
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

func cssFor(loc locator.Locator) (string, error) {
	switch loc.By {
	case locator.ByID:
		return `[id="` + loc.Selector + `"]`, nil
	case locator.ByCSS:
		return loc.Selector, nil
	case locator.ByClassName:
		return "." + loc.Selector, nil
	default:
		return "", fmt.Errorf("%w: %q", browser.ErrUnsupportedStrategy, loc.By)
	}
}

type element struct {
	session *Session
	sel     *goquery.Selection
}

func (e *element) check() error {
	if e.session.closed {
		return ErrClosed
	}
	if !e.session.attached(e.sel.Nodes[0]) {
		return browser.ErrStale
	}
	return nil
}

func (e *element) Query(loc locator.Locator) ([]browser.Element, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	css, err := cssFor(loc)
	if err != nil {
		return nil, err
	}
	return e.session.wrap(e.sel.Find(css)), nil
}

func (e *element) Text() (string, error) {
	if err := e.check(); err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(e.sel.Text()), " "), nil
}

func (e *element) Click() error {
	if err := e.check(); err != nil {
		return err
	}
	if !visible(e.sel) {
		return fmt.Errorf("element %s is not visible", describe(e.sel))
	}
	if _, disabled := e.sel.Attr("disabled"); disabled {
		return fmt.Errorf("element %s is disabled", describe(e.sel))
	}
	for _, h := range e.session.clicks {
		if e.sel.Is(h.selector) {
			return h.fn(e.sel)
		}
	}
	return nil
}

func (e *element) SendKeys(text string) error {
	if err := e.check(); err != nil {
		return err
	}
	if goquery.NodeName(e.sel) != "input" {
		return fmt.Errorf("element %s is not an input", describe(e.sel))
	}
	e.sel.SetAttr("value", text)
	return nil
}

func (e *element) SelectByValue(value string) error {
	if err := e.check(); err != nil {
		return err
	}
	if goquery.NodeName(e.sel) != "select" {
		return fmt.Errorf("element %s is not a select", describe(e.sel))
	}
	option := e.sel.Find(`option[value="` + value + `"]`)
	if option.Length() == 0 {
		return fmt.Errorf("no option with value %q", value)
	}
	e.sel.Find("option").RemoveAttr("selected")
	option.First().SetAttr("selected", "selected")
	for _, h := range e.session.changes {
		if e.sel.Is(h.selector) {
			return h.fn(e.sel, value)
		}
	}
	return nil
}

func (e *element) IsDisplayed() (bool, error) {
	if err := e.check(); err != nil {
		return false, err
	}
	return visible(e.sel), nil
}

func visible(sel *goquery.Selection) bool {
	for n := sel; n.Length() > 0; n = n.Parent() {
		if _, hidden := n.Attr("hidden"); hidden {
			return false
		}
		style, _ := n.Attr("style")
		if strings.Contains(strings.ReplaceAll(style, " ", ""), "display:none") {
			return false
		}
	}
	return true
}

func describe(sel *goquery.Selection) string {
	name := goquery.NodeName(sel)
	if id, ok := sel.Attr("id"); ok {
		return name + "#" + id
	}
	if class, ok := sel.Attr("class"); ok {
		return name + "." + strings.ReplaceAll(class, " ", ".")
	}
	return name
}
