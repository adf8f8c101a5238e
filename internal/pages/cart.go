package pages

import (
	"fmt"
	"strings"

	"github.com/themizzi/saucecheck/internal/browser"
	"github.com/themizzi/saucecheck/internal/locator"
)

// CartItem is one line of the cart.
type CartItem struct {
	Name  string
	Price string
}

// CartPage is the shopping cart.
type CartPage struct {
	page
}

// NewCartPage creates a CartPage.
func NewCartPage(r *browser.Resolver) *CartPage {
	return &CartPage{page{r: r, loc: locator.Cart}}
}

// Items returns the cart lines in display order. An empty cart is an empty slice.
func (p *CartPage) Items() ([]CartItem, error) {
	rows, err := p.findAll("cart_item", locator.ByClassName)
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

	items := make([]CartItem, 0, len(rows))
	for _, row := range rows {
		scoped := p.r.Within(row)
		name, err := scoped.Find(nameLoc)
		if err != nil {
			return nil, err
		}
		price, err := scoped.Find(priceLoc)
		if err != nil {
			return nil, err
		}
		var item CartItem
		if item.Name, err = name.Text(); err != nil {
			return nil, err
		}
		if item.Price, err = price.Text(); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// RemoveItem removes the first line whose name equals name, ignoring case.
// It returns false when no line matches.
func (p *CartPage) RemoveItem(name string) (bool, error) {
	rows, err := p.findAll("cart_item", locator.ByClassName)
	if err != nil {
		return false, err
	}
	nameLoc, err := p.locate("item_name", locator.ByClassName)
	if err != nil {
		return false, err
	}
	removeLoc, err := p.locate("remove_button", locator.ByCSS)
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		scoped := p.r.Within(row)
		text, ok, err := firstText(scoped, nameLoc)
		if err != nil {
			return false, err
		}
		if !ok || !strings.EqualFold(text, name) {
			continue
		}
		btn, err := scoped.Find(removeLoc)
		if err != nil {
			return false, fmt.Errorf("remove button for %q: %w", name, err)
		}
		if err := btn.Click(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// ProceedToCheckout starts checkout.
func (p *CartPage) ProceedToCheckout() error {
	return p.click("checkout_button", locator.ByID)
}
