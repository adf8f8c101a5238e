package pages

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/themizzi/saucecheck/internal/browser"
	"github.com/themizzi/saucecheck/internal/locator"
)

// SortOption is a value of the product sort dropdown.
type SortOption string

// Sort options
const (
	SortNameAsc   SortOption = "az"
	SortNameDesc  SortOption = "za"
	SortPriceAsc  SortOption = "lohi"
	SortPriceDesc SortOption = "hilo"
)

// SortOptions lists every accepted sort option.
var SortOptions = []SortOption{SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc}

// ErrInvalidSortOption is returned for an option outside SortOptions.
var ErrInvalidSortOption = errors.New("invalid sort option")

// Valid reports whether o is one of SortOptions.
func (o SortOption) Valid() bool {
	for _, v := range SortOptions {
		if o == v {
			return true
		}
	}
	return false
}

// ParseSortOption converts a raw dropdown value into a SortOption.
func ParseSortOption(s string) (SortOption, error) {
	o := SortOption(s)
	if !o.Valid() {
		return "", fmt.Errorf("%w: %q (valid: az, za, lohi, hilo)", ErrInvalidSortOption, s)
	}
	return o, nil
}

// SortError reports a valid sort option that could not be applied.
type SortError struct {
	Option SortOption
	Err    error
}

func (e *SortError) Error() string {
	return fmt.Sprintf("failed to sort products by %s: %v", e.Option, e.Err)
}

func (e *SortError) Unwrap() error {
	return e.Err
}

// PricedItem is a product tile's name and parsed price.
type PricedItem struct {
	Name  string
	Price float64
}

// InventoryPage is the product listing shown after login.
type InventoryPage struct {
	page
	badgeWait time.Duration
}

// NewInventoryPage creates an InventoryPage. badgeWait bounds CartCount.
func NewInventoryPage(r *browser.Resolver, badgeWait time.Duration) *InventoryPage {
	return &InventoryPage{page: page{r: r, loc: locator.Inventory}, badgeWait: badgeWait}
}

// VerifyCartIcon reports whether the cart icon is displayed.
func (p *InventoryPage) VerifyCartIcon() (bool, error) {
	el, err := p.find("cart_icon", locator.ByID)
	if err != nil {
		return false, err
	}
	return el.IsDisplayed()
}

// item returns a resolver scoped to the first product tile whose name
// equals name, ignoring case.
func (p *InventoryPage) item(name string) (*browser.Resolver, bool, error) {
	tiles, err := p.findAll("item", locator.ByClassName)
	if err != nil {
		return nil, false, err
	}
	nameLoc, err := p.locate("item_name", locator.ByClassName)
	if err != nil {
		return nil, false, err
	}
	for _, tile := range tiles {
		scoped := p.r.Within(tile)
		text, ok, err := firstText(scoped, nameLoc)
		if err != nil {
			return nil, false, err
		}
		if ok && strings.EqualFold(text, name) {
			return scoped, true, nil
		}
	}
	return nil, false, nil
}

func (p *InventoryPage) clickInItem(name, button string) (bool, error) {
	scoped, ok, err := p.item(name)
	if err != nil || !ok {
		return false, err
	}
	loc, err := p.locate(button, locator.ByCSS)
	if err != nil {
		return false, err
	}
	el, err := scoped.Find(loc)
	if err != nil {
		return false, fmt.Errorf("%s for %q: %w", button, name, err)
	}
	if err := el.Click(); err != nil {
		return false, fmt.Errorf("click %s for %q: %w", button, name, err)
	}
	return true, nil
}

// AddItemToCart clicks the add button of the named product. It returns
// false when no product has that name.
func (p *InventoryPage) AddItemToCart(name string) (bool, error) {
	return p.clickInItem(name, "add_button")
}

// RemoveItemFromCart clicks the remove button of the named product.
func (p *InventoryPage) RemoveItemFromCart(name string) (bool, error) {
	return p.clickInItem(name, "remove_button")
}

// ItemPrice returns the displayed price text of the named product.
func (p *InventoryPage) ItemPrice(name string) (string, bool, error) {
	scoped, ok, err := p.item(name)
	if err != nil || !ok {
		return "", false, err
	}
	loc, err := p.locate("item_price", locator.ByClassName)
	if err != nil {
		return "", false, err
	}
	el, err := scoped.Find(loc)
	if err != nil {
		return "", false, err
	}
	text, err := el.Text()
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

type badgeParseError struct {
	text string
	err  error
}

func (e *badgeParseError) Error() string {
	return fmt.Sprintf("cart badge %q is not a number: %v", e.text, e.err)
}

func (p *InventoryPage) readBadge() (int, error) {
	loc, err := p.locate("cart_badge", locator.ByClassName)
	if err != nil {
		return 0, err
	}
	el, err := p.r.WithWait(p.badgeWait).Find(loc)
	if err != nil {
		return 0, err
	}
	text, err := el.Text()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, &badgeParseError{text: text, err: err}
	}
	return n, nil
}

// CartCount returns the number on the cart badge. A missing badge means an
// empty cart. A badge that goes stale while being read is read once more.
// Any other failure is logged and reported as 0.
func (p *InventoryPage) CartCount() int {
	n, err := p.readBadge()
	if errors.Is(err, browser.ErrStale) {
		n, err = p.readBadge()
	}

	var parseErr *badgeParseError
	switch {
	case err == nil:
		return n
	case errors.Is(err, browser.ErrNotFound):
		return 0
	case errors.As(err, &parseErr):
		p.r.Logger().WithField("badge", parseErr.text).Warn("cart badge is not a number")
		return 0
	default:
		p.r.Logger().WithError(err).Warn("failed to read cart badge")
		return 0
	}
}

// GoToCart opens the cart page.
func (p *InventoryPage) GoToCart() error {
	return p.click("cart_icon", locator.ByID)
}

// SortProducts applies option through the sort dropdown. Invalid options
// are rejected before the page is touched.
func (p *InventoryPage) SortProducts(option SortOption) error {
	if !option.Valid() {
		return fmt.Errorf("%w: %q (valid: az, za, lohi, hilo)", ErrInvalidSortOption, option)
	}
	el, err := p.find("sort_dropdown", locator.ByClassName)
	if err != nil {
		return &SortError{Option: option, Err: err}
	}
	if err := el.SelectByValue(string(option)); err != nil {
		return &SortError{Option: option, Err: err}
	}
	p.r.Logger().WithField("option", option).Debug("sorted products")
	return nil
}

// ProductNames returns product names in display order.
func (p *InventoryPage) ProductNames() ([]string, error) {
	els, err := p.findAll("item_name", locator.ByClassName)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			return nil, err
		}
		names = append(names, text)
	}
	return names, nil
}

// ProductPrices returns parsed product prices in display order.
func (p *InventoryPage) ProductPrices() ([]float64, error) {
	els, err := p.findAll("item_price", locator.ByClassName)
	if err != nil {
		return nil, err
	}
	prices := make([]float64, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			return nil, err
		}
		v, err := ParsePrice(text)
		if err != nil {
			return nil, err
		}
		prices = append(prices, v)
	}
	return prices, nil
}

// FilterByPriceRange returns the products priced within [lo, hi], in
// display order.
func (p *InventoryPage) FilterByPriceRange(lo, hi float64) ([]PricedItem, error) {
	tiles, err := p.findAll("item", locator.ByClassName)
	if err != nil {
		return nil, err
	}
	nameLoc, err := p.locate("item_name", locator.ByClassName)
	if err != nil {
		return nil, err
	}
	priceLoc, err := p.locate("item_price", locator.ByClassName)
	if err != nil {
		return nil, err
	}

	items := []PricedItem{}
	for _, tile := range tiles {
		scoped := p.r.Within(tile)
		name, ok, err := firstText(scoped, nameLoc)
		if err != nil {
			return nil, err
		}
		priceText, hasPrice, err := firstText(scoped, priceLoc)
		if err != nil {
			return nil, err
		}
		if !ok || !hasPrice {
			continue
		}
		price, err := ParsePrice(priceText)
		if err != nil {
			return nil, err
		}
		if price >= lo && price <= hi {
			items = append(items, PricedItem{Name: name, Price: price})
		}
	}
	return items, nil
}

// Logout opens the side menu and signs out.
func (p *InventoryPage) Logout() error {
	if err := p.click("menu_button", locator.ByID); err != nil {
		return err
	}
	return p.click("logout_link", locator.ByID)
}
