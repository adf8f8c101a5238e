package browsertest

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Product is an item sold by the fake store.
type Product struct {
	ID    string
	Name  string
	Price float64
}

// Catalog mirrors the demo store's inventory.
var Catalog = []Product{
	{ID: "sauce-labs-backpack", Name: "Sauce Labs Backpack", Price: 29.99},
	{ID: "sauce-labs-bike-light", Name: "Sauce Labs Bike Light", Price: 9.99},
	{ID: "sauce-labs-bolt-t-shirt", Name: "Sauce Labs Bolt T-Shirt", Price: 15.99},
	{ID: "sauce-labs-fleece-jacket", Name: "Sauce Labs Fleece Jacket", Price: 49.99},
	{ID: "sauce-labs-onesie", Name: "Sauce Labs Onesie", Price: 7.99},
	{ID: "test.allthethings()-t-shirt-(red)", Name: "Test.allTheThings() T-Shirt (Red)", Price: 15.99},
}

// Messages shown by the store.
const (
	MsgBadCredentials   = "Epic sadface: Username and password do not match any user in this service"
	MsgLockedOut        = "Epic sadface: Sorry, this user has been locked out."
	MsgUsernameRequired = "Epic sadface: Username is required"
	MsgPasswordRequired = "Epic sadface: Password is required"
	MsgThankYou         = "Thank you for your order!"
	taxRate             = 0.08
)

// Store views
const (
	ViewLogin     = "login"
	ViewInventory = "inventory"
	ViewCart      = "cart"
	ViewStepOne   = "checkout-step-one"
	ViewStepTwo   = "checkout-step-two"
	ViewComplete  = "checkout-complete"
)

var viewPaths = map[string]string{
	ViewLogin:     "/",
	ViewInventory: "/inventory.html",
	ViewCart:      "/cart.html",
	ViewStepOne:   "/checkout-step-one.html",
	ViewStepTwo:   "/checkout-step-two.html",
	ViewComplete:  "/checkout-complete.html",
}

// Customer is the shipping information captured on checkout step one.
type Customer struct {
	FirstName  string
	LastName   string
	PostalCode string
}

// Store simulates the demo store on top of a Session. Every state change
// re-renders the whole document.
type Store struct {
	*Session

	BaseURL  string
	Products []Product
	Password string
	Locked   map[string]bool
	Users    map[string]bool

	View       string
	User       string
	Cart       []string
	SortBy     string
	MenuOpen   bool
	Error      string
	Customer   Customer
	Orders     int
	LastRender string
}

// NewStore returns a store showing the login page.
func NewStore() *Store {
	st := &Store{
		Session:  New("<html><body></body></html>"),
		BaseURL:  "https://www.saucedemo.com",
		Products: append([]Product(nil), Catalog...),
		Password: "secret_sauce",
		Users: map[string]bool{
			"standard_user":           true,
			"locked_out_user":         true,
			"problem_user":            true,
			"performance_glitch_user": true,
		},
		Locked: map[string]bool{"locked_out_user": true},
		View:   ViewLogin,
		SortBy: "az",
	}
	st.wire()
	st.render()
	st.SetURL(st.BaseURL + "/")
	return st
}

// SignIn puts the store straight into the logged-in inventory view.
func (st *Store) SignIn(user string) {
	st.User = user
	st.show(ViewInventory)
}

// CartNames returns the names of the products in the cart, in add order.
func (st *Store) CartNames() []string {
	var out []string
	for _, id := range st.Cart {
		if p, ok := st.product(id); ok {
			out = append(out, p.Name)
		}
	}
	return out
}

func (st *Store) wire() {
	st.OnNavigate(func(raw string) (string, error) {
		u, err := url.Parse(raw)
		if err != nil {
			return "", err
		}
		st.Error = ""
		view := ViewLogin
		for v, p := range viewPaths {
			if p == u.Path || (u.Path == "" && p == "/") {
				view = v
			}
		}
		if view != ViewLogin && st.User == "" {
			st.Error = fmt.Sprintf("Epic sadface: You can only access '%s' when you are logged in.", u.Path)
			view = ViewLogin
		}
		st.View = view
		return st.markup(), nil
	})

	st.OnClick("#login-button", func(*goquery.Selection) error {
		user := st.inputValue("user-name")
		pass := st.inputValue("password")
		switch {
		case user == "":
			st.Error = MsgUsernameRequired
		case pass == "":
			st.Error = MsgPasswordRequired
		case !st.Users[user] || pass != st.Password:
			st.Error = MsgBadCredentials
		case st.Locked[user]:
			st.Error = MsgLockedOut
		default:
			st.Error = ""
			st.User = user
			st.show(ViewInventory)
			return nil
		}
		st.render()
		return nil
	})

	st.OnClick("button[id^='add-to-cart-']", func(el *goquery.Selection) error {
		id := strings.TrimPrefix(el.AttrOr("id", ""), "add-to-cart-")
		if !st.inCart(id) {
			st.Cart = append(st.Cart, id)
		}
		st.render()
		return nil
	})

	st.OnClick("button[id^='remove-']", func(el *goquery.Selection) error {
		id := strings.TrimPrefix(el.AttrOr("id", ""), "remove-")
		for i, c := range st.Cart {
			if c == id {
				st.Cart = append(st.Cart[:i], st.Cart[i+1:]...)
				break
			}
		}
		st.render()
		return nil
	})

	st.OnClick("#shopping_cart_container, .shopping_cart_link", func(*goquery.Selection) error {
		st.show(ViewCart)
		return nil
	})

	st.OnClick("#react-burger-menu-btn", func(*goquery.Selection) error {
		st.MenuOpen = true
		st.render()
		return nil
	})

	st.OnClick("#logout_sidebar_link", func(*goquery.Selection) error {
		st.User = ""
		st.MenuOpen = false
		st.show(ViewLogin)
		return nil
	})

	st.OnClick("#continue-shopping, #back-to-products", func(*goquery.Selection) error {
		st.show(ViewInventory)
		return nil
	})

	st.OnClick("#checkout", func(*goquery.Selection) error {
		st.show(ViewStepOne)
		return nil
	})

	st.OnClick("#continue", func(*goquery.Selection) error {
		st.Customer = Customer{
			FirstName:  st.inputValue("first-name"),
			LastName:   st.inputValue("last-name"),
			PostalCode: st.inputValue("postal-code"),
		}
		switch {
		case st.Customer.FirstName == "":
			st.Error = "Error: First Name is required"
		case st.Customer.LastName == "":
			st.Error = "Error: Last Name is required"
		case st.Customer.PostalCode == "":
			st.Error = "Error: Postal Code is required"
		default:
			st.Error = ""
			st.show(ViewStepTwo)
			return nil
		}
		st.render()
		return nil
	})

	st.OnClick("#cancel", func(*goquery.Selection) error {
		if st.View == ViewStepOne {
			st.show(ViewCart)
		} else {
			st.show(ViewInventory)
		}
		return nil
	})

	st.OnClick("#finish", func(*goquery.Selection) error {
		st.Cart = nil
		st.Orders++
		st.show(ViewComplete)
		return nil
	})

	st.OnChange(".product_sort_container", func(_ *goquery.Selection, value string) error {
		st.SortBy = value
		st.render()
		return nil
	})
}

func (st *Store) show(view string) {
	st.View = view
	if view != ViewLogin && view != ViewStepOne {
		st.Error = ""
	}
	st.SetURL(st.BaseURL + viewPaths[view])
	st.render()
}

func (st *Store) render() {
	st.SetHTML(st.markup())
}

func (st *Store) markup() string {
	var buf bytes.Buffer
	if err := storeTemplate.ExecuteTemplate(&buf, st.View, st.viewData()); err != nil {
		panic(err)
	}
	st.LastRender = buf.String()
	return st.LastRender
}

func (st *Store) inputValue(id string) string {
	return st.Document().Find(`[id="`+id+`"]`).AttrOr("value", "")
}

func (st *Store) inCart(id string) bool {
	for _, c := range st.Cart {
		if c == id {
			return true
		}
	}
	return false
}

func (st *Store) product(id string) (Product, bool) {
	for _, p := range st.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

type itemView struct {
	Product
	Index  int
	InCart bool
}

type storeView struct {
	Error     string
	CartCount int
	MenuOpen  bool
	SortBy    string
	Items     []itemView
	CartItems []itemView
	Subtotal  float64
	Tax       float64
	Total     float64
}

func (st *Store) viewData() storeView {
	v := storeView{
		Error:     st.Error,
		CartCount: len(st.Cart),
		MenuOpen:  st.MenuOpen,
		SortBy:    st.SortBy,
	}

	sorted := append([]Product(nil), st.Products...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch st.SortBy {
		case "za":
			return a.Name > b.Name
		case "lohi":
			return a.Price < b.Price
		case "hilo":
			return a.Price > b.Price
		default:
			return a.Name < b.Name
		}
	})
	for i, p := range sorted {
		v.Items = append(v.Items, itemView{Product: p, Index: i, InCart: st.inCart(p.ID)})
	}

	for i, id := range st.Cart {
		if p, ok := st.product(id); ok {
			v.CartItems = append(v.CartItems, itemView{Product: p, Index: i, InCart: true})
			v.Subtotal += p.Price
		}
	}
	v.Tax = math.Round(v.Subtotal*taxRate*100) / 100
	v.Total = v.Subtotal + v.Tax
	return v
}

var storeTemplate = template.Must(template.New("store").Funcs(template.FuncMap{
	"money": func(f float64) string { return fmt.Sprintf("$%.2f", f) },
}).Parse(storeMarkup))

const storeMarkup = `
{{define "header"}}
<div id="header_container" class="header_container">
  <div class="primary_header">
    <div id="menu_button_container">
      <button type="button" id="react-burger-menu-btn">Open Menu</button>
      <nav class="bm-item-list"{{if not .MenuOpen}} hidden{{end}}>
        <a id="inventory_sidebar_link" class="bm-item menu-item" href="#">All Items</a>
        <a id="logout_sidebar_link" class="bm-item menu-item" href="#">Logout</a>
      </nav>
    </div>
    <div class="app_logo">Swag Labs</div>
    <div id="shopping_cart_container" class="shopping_cart_container">
      <a class="shopping_cart_link" data-test="shopping-cart-link">{{if .CartCount}}<span class="shopping_cart_badge" data-test="shopping-cart-badge">{{.CartCount}}</span>{{end}}</a>
    </div>
  </div>
</div>
{{end}}

{{define "error"}}{{if .Error}}<div class="error-message-container error"><h3 data-test="error">{{.Error}}</h3></div>{{end}}{{end}}

{{define "login"}}<html><body>
<div class="login_wrapper"><form>
  <input class="form_input" placeholder="Username" type="text" data-test="username" id="user-name" name="user-name" value="">
  <input class="form_input" placeholder="Password" type="password" data-test="password" id="password" name="password" value="">
  {{template "error" .}}
  <input type="submit" class="submit-button btn_action" data-test="login-button" id="login-button" name="login-button" value="Login">
</form></div>
</body></html>{{end}}

{{define "inventory"}}<html><body>
{{template "header" .}}
<div class="header_secondary_container">
  <span class="title">Products</span>
  <select class="product_sort_container" data-test="product-sort-container">
    <option value="az"{{if eq .SortBy "az"}} selected{{end}}>Name (A to Z)</option>
    <option value="za"{{if eq .SortBy "za"}} selected{{end}}>Name (Z to A)</option>
    <option value="lohi"{{if eq .SortBy "lohi"}} selected{{end}}>Price (low to high)</option>
    <option value="hilo"{{if eq .SortBy "hilo"}} selected{{end}}>Price (high to low)</option>
  </select>
</div>
<div class="inventory_list">
{{range .Items}}
  <div class="inventory_item" data-test="inventory-item">
    <div class="inventory_item_description">
      <div class="inventory_item_label">
        <a id="item_{{.Index}}_title_link" href="#"><div class="inventory_item_name" data-test="inventory-item-name">{{.Name}}</div></a>
      </div>
      <div class="pricebar">
        <div class="inventory_item_price" data-test="inventory-item-price">{{money .Price}}</div>
        {{if .InCart}}<button class="btn btn_secondary btn_small btn_inventory" id="remove-{{.ID}}" name="remove-{{.ID}}">Remove</button>{{else}}<button class="btn btn_primary btn_small btn_inventory" id="add-to-cart-{{.ID}}" name="add-to-cart-{{.ID}}">Add to cart</button>{{end}}
      </div>
    </div>
  </div>
{{end}}
</div>
</body></html>{{end}}

{{define "cartlist"}}
<div class="cart_list">
{{range .CartItems}}
  <div class="cart_item" data-test="inventory-item">
    <div class="cart_quantity">1</div>
    <div class="cart_item_label">
      <a id="item_{{.Index}}_title_link" href="#"><div class="inventory_item_name">{{.Name}}</div></a>
      <div class="item_pricebar">
        <div class="inventory_item_price">{{money .Price}}</div>
        <button class="btn btn_secondary btn_small cart_button" id="remove-{{.ID}}" name="remove-{{.ID}}">Remove</button>
      </div>
    </div>
  </div>
{{end}}
</div>
{{end}}

{{define "cart"}}<html><body>
{{template "header" .}}
<span class="title">Your Cart</span>
{{template "cartlist" .}}
<button id="continue-shopping" class="btn btn_secondary back">Continue Shopping</button>
<button id="checkout" class="btn btn_action checkout_button">Checkout</button>
</body></html>{{end}}

{{define "checkout-step-one"}}<html><body>
{{template "header" .}}
<span class="title">Checkout: Your Information</span>
<form>
  <input class="input_error form_input" placeholder="First Name" type="text" data-test="firstName" id="first-name" name="firstName" value="">
  <input class="input_error form_input" placeholder="Last Name" type="text" data-test="lastName" id="last-name" name="lastName" value="">
  <input class="input_error form_input" placeholder="Zip/Postal Code" type="text" data-test="postalCode" id="postal-code" name="postalCode" value="">
  {{template "error" .}}
  <button id="cancel" class="btn btn_secondary back cart_cancel_link">Cancel</button>
  <input type="submit" class="submit-button btn btn_primary cart_button btn_action" data-test="continue" id="continue" name="continue" value="Continue">
</form>
</body></html>{{end}}

{{define "checkout-step-two"}}<html><body>
{{template "header" .}}
<span class="title">Checkout: Overview</span>
{{template "cartlist" .}}
<div class="summary_info">
  <div class="summary_info_label">Price Total</div>
  <div class="summary_subtotal_label" data-test="subtotal-label">Item total: {{money .Subtotal}}</div>
  <div class="summary_tax_label" data-test="tax-label">Tax: {{money .Tax}}</div>
  <div class="summary_total_label" data-test="total-label">Total: {{money .Total}}</div>
  <button id="cancel" class="btn btn_secondary back cart_cancel_link">Cancel</button>
  <button id="finish" class="btn btn_action btn_medium cart_button">Finish</button>
</div>
</body></html>{{end}}

{{define "checkout-complete"}}<html><body>
{{template "header" .}}
<span class="title">Checkout: Complete!</span>
<div id="checkout_complete_container" class="checkout_complete_container">
  <h2 class="complete-header">Thank you for your order!</h2>
  <div class="complete-text">Your order has been dispatched, and will arrive just as fast as the pony can get there!</div>
  <button id="back-to-products" class="btn btn_primary btn_small">Back Home</button>
</div>
</body></html>{{end}}
`
