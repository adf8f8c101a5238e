// Package pages holds the page objects of the Swag Labs store. Each page
// object composes a shared browser.Resolver with its slice of the locator
// registry. Page objects keep no element references between calls.
package pages

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/themizzi/saucecheck/internal/browser"
	"github.com/themizzi/saucecheck/internal/locator"
)

// ErrInvalidPrice is returned when a displayed price cannot be parsed.
var ErrInvalidPrice = errors.New("invalid price")

type page struct {
	r   *browser.Resolver
	loc locator.Page
}

func (p page) locate(name string, by locator.Strategy) (locator.Locator, error) {
	return p.loc.Locate(name, by)
}

func (p page) find(name string, by locator.Strategy) (browser.Element, error) {
	loc, err := p.locate(name, by)
	if err != nil {
		return nil, err
	}
	return p.r.Find(loc)
}

func (p page) findAll(name string, by locator.Strategy) ([]browser.Element, error) {
	loc, err := p.locate(name, by)
	if err != nil {
		return nil, err
	}
	return p.r.FindAll(loc)
}

func (p page) click(name string, by locator.Strategy) error {
	el, err := p.find(name, by)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", p.loc.Name(), name, err)
	}
	if err := el.Click(); err != nil {
		return fmt.Errorf("click %s.%s: %w", p.loc.Name(), name, err)
	}
	return nil
}

func (p page) typeInto(name string, by locator.Strategy, text string) error {
	el, err := p.find(name, by)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", p.loc.Name(), name, err)
	}
	if err := el.SendKeys(text); err != nil {
		return fmt.Errorf("type into %s.%s: %w", p.loc.Name(), name, err)
	}
	return nil
}

func (p page) text(name string, by locator.Strategy) (string, error) {
	el, err := p.find(name, by)
	if err != nil {
		return "", fmt.Errorf("%s.%s: %w", p.loc.Name(), name, err)
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("read %s.%s: %w", p.loc.Name(), name, err)
	}
	return text, nil
}

// firstText returns the text of the first match of loc within r, without
// waiting. ok is false when nothing matches.
func firstText(r *browser.Resolver, loc locator.Locator) (text string, ok bool, err error) {
	els, err := r.FindAll(loc)
	if err != nil || len(els) == 0 {
		return "", false, err
	}
	text, err = els[0].Text()
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// ParsePrice parses a displayed price such as "$29.99". A leading label
// ending in a colon ("Total: $32.39") and the currency symbol are stripped.
func ParsePrice(s string) (float64, error) {
	raw := s
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£ ")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	return v, nil
}

// Site bundles fresh page objects for one session.
type Site struct {
	Login     *LoginPage
	Inventory *InventoryPage
	Cart      *CartPage
	Checkout  *CheckoutPage
}

// NewSite builds every page object over r. badgeWait is the explicit wait
// used when reading the cart badge.
func NewSite(r *browser.Resolver, badgeWait time.Duration) *Site {
	return &Site{
		Login:     NewLoginPage(r),
		Inventory: NewInventoryPage(r, badgeWait),
		Cart:      NewCartPage(r),
		Checkout:  NewCheckoutPage(r),
	}
}
