// Package flows chains page object calls into the steps shared by the e2e
// scenarios and the smoke command.
package flows

import (
	"errors"
	"fmt"

	"github.com/themizzi/saucecheck/internal/config"
	"github.com/themizzi/saucecheck/internal/pages"
)

// Flow errors
var (
	ErrSignInFailed         = errors.New("sign in failed")
	ErrItemNotFound         = errors.New("item not found")
	ErrPurchaseNotConfirmed = errors.New("purchase not confirmed")
)

// SignIn logs in with the environment's credentials and waits for the inventory.
func SignIn(site *pages.Site, env config.Environment) error {
	if err := site.Login.Login(env.Username, env.Password); err != nil {
		return err
	}
	ok, err := site.Inventory.VerifyCartIcon()
	if err == nil && ok {
		return nil
	}
	if msg, msgErr := site.Login.ErrorMessage(); msgErr == nil {
		return fmt.Errorf("%w: %s", ErrSignInFailed, msg)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSignInFailed, err)
	}
	return fmt.Errorf("%w: cart icon not displayed", ErrSignInFailed)
}

// AddItems adds every named product to the cart.
func AddItems(site *pages.Site, names []string) error {
	for _, name := range names {
		found, err := site.Inventory.AddItemToCart(name)
		if err != nil {
			return fmt.Errorf("add %q: %w", name, err)
		}
		if !found {
			return fmt.Errorf("%w: %q", ErrItemNotFound, name)
		}
	}
	return nil
}

// Purchase buys items as customer, starting from the inventory page, and
// returns the order summary shown before finishing.
func Purchase(site *pages.Site, items []string, customer pages.CustomerInfo) (pages.Summary, error) {
	if err := AddItems(site, items); err != nil {
		return pages.Summary{}, err
	}
	if err := site.Inventory.GoToCart(); err != nil {
		return pages.Summary{}, err
	}
	if err := site.Cart.ProceedToCheckout(); err != nil {
		return pages.Summary{}, err
	}
	if err := site.Checkout.FillCheckoutInfo(customer); err != nil {
		return pages.Summary{}, err
	}
	summary, err := site.Checkout.SummaryInfo()
	if err != nil {
		return pages.Summary{}, err
	}
	if err := site.Checkout.CompletePurchase(); err != nil {
		return summary, err
	}
	ok, err := site.Checkout.IsPurchaseSuccessful()
	if err != nil {
		return summary, err
	}
	if !ok {
		return summary, ErrPurchaseNotConfirmed
	}
	return summary, nil
}
