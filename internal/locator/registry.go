package locator

import (
	"fmt"
	"sort"
)

// Page names
const (
	PageLogin     = "login"
	PageInventory = "inventory"
	PageCart      = "cart"
	PageCheckout  = "checkout"

	GroupSummary = "summary"
)

// Login page
var Login = newPage(PageLogin, []Entry{
	NewEntry("username_input", map[Strategy]string{
		ByID:    "user-name",
		ByCSS:   "input[data-test='username']",
		ByXPath: "//input[@id='user-name']",
	}),
	NewEntry("password_input", map[Strategy]string{
		ByID:    "password",
		ByCSS:   "input[data-test='password']",
		ByXPath: "//input[@id='password']",
	}),
	NewEntry("login_button", map[Strategy]string{
		ByID:    "login-button",
		ByCSS:   "input[type='submit']",
		ByXPath: "//input[@value='Login']",
	}),
	NewEntry("error_message", map[Strategy]string{
		ByCSS:   "[data-test='error']",
		ByXPath: "//h3[@data-test='error']",
	}),
})

// Inventory page
var Inventory = newPage(PageInventory, []Entry{
	NewEntry("cart_icon", map[Strategy]string{
		ByID:    "shopping_cart_container",
		ByCSS:   ".shopping_cart_link",
		ByXPath: "//a[@class='shopping_cart_link']",
	}),
	NewEntry("cart_badge", map[Strategy]string{
		ByClassName: "shopping_cart_badge",
		ByCSS:       ".shopping_cart_badge",
		ByXPath:     "//span[@class='shopping_cart_badge']",
	}),
	NewEntry("menu_button", map[Strategy]string{
		ByID:    "react-burger-menu-btn",
		ByCSS:   "#react-burger-menu-btn",
		ByXPath: "//button[@id='react-burger-menu-btn']",
	}),
	NewEntry("logout_link", map[Strategy]string{
		ByID:    "logout_sidebar_link",
		ByCSS:   "#logout_sidebar_link",
		ByXPath: "//a[@id='logout_sidebar_link']",
	}),
	NewEntry("item", map[Strategy]string{
		ByClassName: "inventory_item",
		ByCSS:       ".inventory_item",
		ByXPath:     "//div[@class='inventory_item']",
	}),
	NewEntry("item_name", map[Strategy]string{
		ByClassName: "inventory_item_name",
		ByCSS:       ".inventory_item_name",
		ByXPath:     "//div[contains(@class, 'inventory_item_name')]",
	}),
	NewEntry("item_price", map[Strategy]string{
		ByClassName: "inventory_item_price",
		ByCSS:       ".inventory_item_price",
		ByXPath:     "//div[@class='inventory_item_price']",
	}),
	NewEntry("add_button", map[Strategy]string{
		ByCSS:   "button[id^='add-to-cart-']",
		ByXPath: ".//button[starts-with(@id, 'add-to-cart-')]",
	}),
	NewEntry("remove_button", map[Strategy]string{
		ByCSS:   "button[id^='remove-']",
		ByXPath: ".//button[starts-with(@id, 'remove-')]",
	}),
	NewEntry("sort_dropdown", map[Strategy]string{
		ByClassName: "product_sort_container",
		ByCSS:       "select[data-test='product-sort-container']",
		ByXPath:     "//select[@class='product_sort_container']",
	}),
})

// Cart page
var Cart = newPage(PageCart, []Entry{
	NewEntry("cart_item", map[Strategy]string{
		ByClassName: "cart_item",
		ByCSS:       ".cart_item",
		ByXPath:     "//div[@class='cart_item']",
	}),
	NewEntry("item_name", map[Strategy]string{
		ByClassName: "inventory_item_name",
		ByCSS:       ".inventory_item_name",
		ByXPath:     "//div[@class='inventory_item_name']",
	}),
	NewEntry("item_price", map[Strategy]string{
		ByClassName: "inventory_item_price",
		ByCSS:       ".inventory_item_price",
		ByXPath:     "//div[@class='inventory_item_price']",
	}),
	NewEntry("checkout_button", map[Strategy]string{
		ByID:    "checkout",
		ByCSS:   "#checkout",
		ByXPath: "//button[@id='checkout']",
	}),
	NewEntry("remove_button", map[Strategy]string{
		ByCSS:   "button[id^='remove-']",
		ByXPath: "//button[starts-with(@id, 'remove-')]",
	}),
})

// Checkout pages, including the order summary group
var Checkout = newPage(PageCheckout, []Entry{
	NewEntry("first_name", map[Strategy]string{
		ByID:    "first-name",
		ByCSS:   "#first-name",
		ByXPath: "//input[@id='first-name']",
	}),
	NewEntry("last_name", map[Strategy]string{
		ByID:    "last-name",
		ByCSS:   "#last-name",
		ByXPath: "//input[@id='last-name']",
	}),
	NewEntry("postal_code", map[Strategy]string{
		ByID:    "postal-code",
		ByCSS:   "#postal-code",
		ByXPath: "//input[@id='postal-code']",
	}),
	NewEntry("continue_button", map[Strategy]string{
		ByID:    "continue",
		ByCSS:   "#continue",
		ByXPath: "//input[@id='continue']",
	}),
	NewEntry("finish_button", map[Strategy]string{
		ByID:    "finish",
		ByCSS:   "#finish",
		ByXPath: "//button[@id='finish']",
	}),
	NewEntry("cancel_button", map[Strategy]string{
		ByID:    "cancel",
		ByCSS:   "#cancel",
		ByXPath: "//button[@id='cancel']",
	}),
	NewEntry("complete_header", map[Strategy]string{
		ByClassName: "complete-header",
		ByCSS:       ".complete-header",
		ByXPath:     "//h2[@class='complete-header']",
	}),
}, newPage(GroupSummary, []Entry{
	NewEntry("item_total", map[Strategy]string{
		ByClassName: "summary_subtotal_label",
		ByCSS:       ".summary_subtotal_label",
		ByXPath:     "//div[@class='summary_subtotal_label']",
	}),
	NewEntry("tax", map[Strategy]string{
		ByClassName: "summary_tax_label",
		ByCSS:       ".summary_tax_label",
		ByXPath:     "//div[@class='summary_tax_label']",
	}),
	NewEntry("total", map[Strategy]string{
		ByClassName: "summary_total_label",
		ByCSS:       ".summary_total_label",
		ByXPath:     "//div[@class='summary_total_label']",
	}),
}))

var registry = map[string]Page{
	PageLogin:     Login,
	PageInventory: Inventory,
	PageCart:      Cart,
	PageCheckout:  Checkout,
}

// PageByName returns the page descriptor registered under name.
func PageByName(name string) (Page, error) {
	p, ok := registry[name]
	if !ok {
		return Page{}, fmt.Errorf("%w: no page %q", ErrUnknownLocator, name)
	}
	return p, nil
}

// Lookup returns the entry for element on page.
func Lookup(page, element string) (Entry, error) {
	p, err := PageByName(page)
	if err != nil {
		return Entry{}, err
	}
	return p.Entry(element)
}

// Pages returns the registered page names in sorted order.
func Pages() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
