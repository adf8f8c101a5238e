package pages

import (
	"strings"

	"github.com/themizzi/saucecheck/internal/browser"
	"github.com/themizzi/saucecheck/internal/locator"
)

// ConfirmationText is contained in the header of the order complete page.
const ConfirmationText = "Thank you for your order"

// CustomerInfo is the information requested on checkout step one.
type CustomerInfo struct {
	FirstName  string
	LastName   string
	PostalCode string
}

// Summary holds the label texts of the order overview, as displayed.
type Summary struct {
	ItemTotal string
	Tax       string
	Total     string
}

// TotalAmount parses the grand total.
func (s Summary) TotalAmount() (float64, error) {
	return ParsePrice(s.Total)
}

// ItemTotalAmount parses the item subtotal.
func (s Summary) ItemTotalAmount() (float64, error) {
	return ParsePrice(s.ItemTotal)
}

// TaxAmount parses the tax.
func (s Summary) TaxAmount() (float64, error) {
	return ParsePrice(s.Tax)
}

// CheckoutPage covers checkout step one, the overview and the complete page.
type CheckoutPage struct {
	page
}

// NewCheckoutPage creates a CheckoutPage.
func NewCheckoutPage(r *browser.Resolver) *CheckoutPage {
	return &CheckoutPage{page{r: r, loc: locator.Checkout}}
}

// FillCheckoutInfo types the customer information and continues to the overview.
func (p *CheckoutPage) FillCheckoutInfo(info CustomerInfo) error {
	if err := p.typeInto("first_name", locator.ByID, info.FirstName); err != nil {
		return err
	}
	if err := p.typeInto("last_name", locator.ByID, info.LastName); err != nil {
		return err
	}
	if err := p.typeInto("postal_code", locator.ByID, info.PostalCode); err != nil {
		return err
	}
	return p.click("continue_button", locator.ByID)
}

// SummaryInfo reads the overview's item total, tax and total labels.
func (p *CheckoutPage) SummaryInfo() (Summary, error) {
	group, err := p.loc.Group(locator.GroupSummary)
	if err != nil {
		return Summary{}, err
	}
	summary := page{r: p.r, loc: group}

	var s Summary
	if s.ItemTotal, err = summary.text("item_total", locator.ByClassName); err != nil {
		return Summary{}, err
	}
	if s.Tax, err = summary.text("tax", locator.ByClassName); err != nil {
		return Summary{}, err
	}
	if s.Total, err = summary.text("total", locator.ByClassName); err != nil {
		return Summary{}, err
	}
	return s, nil
}

// CompletePurchase finishes the order.
func (p *CheckoutPage) CompletePurchase() error {
	return p.click("finish_button", locator.ByID)
}

// IsPurchaseSuccessful reports whether the confirmation header is shown.
func (p *CheckoutPage) IsPurchaseSuccessful() (bool, error) {
	text, err := p.text("complete_header", locator.ByClassName)
	if err != nil {
		return false, err
	}
	return strings.Contains(text, ConfirmationText), nil
}

// Cancel leaves checkout.
func (p *CheckoutPage) Cancel() error {
	return p.click("cancel_button", locator.ByID)
}
