package pages

import (
	"github.com/themizzi/saucecheck/internal/browser"
	"github.com/themizzi/saucecheck/internal/locator"
)

// LoginPage is the store's landing page.
type LoginPage struct {
	page
}

// NewLoginPage creates a LoginPage.
func NewLoginPage(r *browser.Resolver) *LoginPage {
	return &LoginPage{page{r: r, loc: locator.Login}}
}

// Login types the credentials and submits the form. It does not decide
// whether the attempt succeeded; callers check the error banner or the
// inventory page afterwards.
func (p *LoginPage) Login(username, password string) error {
	if err := p.typeInto("username_input", locator.ByID, username); err != nil {
		return err
	}
	if err := p.typeInto("password_input", locator.ByID, password); err != nil {
		return err
	}
	return p.click("login_button", locator.ByID)
}

// ErrorMessage returns the text of the login error banner.
func (p *LoginPage) ErrorMessage() (string, error) {
	return p.text("error_message", locator.ByCSS)
}
