package browser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/saucecheck/internal/locator"
)

// Messages playwright uses when an element handle outlives its node or frame.
var staleMessages = []string{
	"not attached to the DOM",
	"Element is detached",
	"Cannot find context with specified id",
	"JSHandle is disposed",
}

// selectorFor maps a registry locator onto a playwright selector engine.
func selectorFor(loc locator.Locator) (string, error) {
	switch loc.By {
	case locator.ByID:
		return `css=[id="` + strings.ReplaceAll(loc.Selector, `"`, `\"`) + `"]`, nil
	case locator.ByCSS:
		return "css=" + loc.Selector, nil
	case locator.ByXPath:
		return "xpath=" + loc.Selector, nil
	case locator.ByClassName:
		return "css=." + loc.Selector, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedStrategy, loc.By)
	}
}

// translate maps playwright failures onto the driver error taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, m := range staleMessages {
		if strings.Contains(msg, m) {
			return fmt.Errorf("%w: %v", ErrStale, err)
		}
	}
	return err
}

// PlaywrightSession drives one isolated browser context through element handles.
type PlaywrightSession struct {
	context playwright.BrowserContext
	page    playwright.Page
}

// NewPlaywrightSession wraps a page and the context that owns it.
func NewPlaywrightSession(context playwright.BrowserContext, page playwright.Page) *PlaywrightSession {
	return &PlaywrightSession{context: context, page: page}
}

// Query returns the handles matching loc in the page.
func (s *PlaywrightSession) Query(loc locator.Locator) ([]Element, error) {
	sel, err := selectorFor(loc)
	if err != nil {
		return nil, err
	}
	handles, err := s.page.QuerySelectorAll(sel)
	if err != nil {
		return nil, translate(err)
	}
	return wrapHandles(handles), nil
}

// Navigate loads url in the page.
func (s *PlaywrightSession) Navigate(url string) error {
	if _, err := s.page.Goto(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// CurrentURL returns the page URL.
func (s *PlaywrightSession) CurrentURL() string {
	return s.page.URL()
}

// Screenshot captures the full page as PNG.
func (s *PlaywrightSession) Screenshot() ([]byte, error) {
	return s.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
}

// Close closes the page and its context.
func (s *PlaywrightSession) Close() error {
	pageErr := s.page.Close()
	ctxErr := s.context.Close()
	return errors.Join(pageErr, ctxErr)
}

type playwrightElement struct {
	handle playwright.ElementHandle
}

func wrapHandles(handles []playwright.ElementHandle) []Element {
	out := make([]Element, 0, len(handles))
	for _, h := range handles {
		out = append(out, &playwrightElement{handle: h})
	}
	return out
}

func (e *playwrightElement) Query(loc locator.Locator) ([]Element, error) {
	sel, err := selectorFor(loc)
	if err != nil {
		return nil, err
	}
	handles, err := e.handle.QuerySelectorAll(sel)
	if err != nil {
		return nil, translate(err)
	}
	return wrapHandles(handles), nil
}

func (e *playwrightElement) Text() (string, error) {
	text, err := e.handle.InnerText()
	if err != nil {
		return "", translate(err)
	}
	return strings.TrimSpace(text), nil
}

func (e *playwrightElement) Click() error {
	return translate(e.handle.Click())
}

func (e *playwrightElement) SendKeys(text string) error {
	return translate(e.handle.Fill(text))
}

func (e *playwrightElement) SelectByValue(value string) error {
	_, err := e.handle.SelectOption(playwright.SelectOptionValues{Values: &[]string{value}})
	return translate(err)
}

func (e *playwrightElement) IsDisplayed() (bool, error) {
	visible, err := e.handle.IsVisible()
	return visible, translate(err)
}

// LaunchOptions configures the browser started by LaunchPlaywright.
type LaunchOptions struct {
	// Browser is chromium, firefox or webkit.
	Browser  string
	Headless bool
	// Args are passed to chromium only.
	Args []string
	// ActionTimeout is the implicit floor applied to every playwright action.
	ActionTimeout  time.Duration
	ViewportWidth  int
	ViewportHeight int
}

// PlaywrightLauncher owns the playwright driver and one browser process.
type PlaywrightLauncher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    LaunchOptions
}

// LaunchPlaywright starts playwright and launches the configured browser.
func LaunchPlaywright(opts LaunchOptions) (*PlaywrightLauncher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launch := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}

	var browserType playwright.BrowserType
	switch opts.Browser {
	case "", "chromium":
		browserType = pw.Chromium
		launch.Args = opts.Args
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		_ = pw.Stop()
		return nil, fmt.Errorf("unsupported browser %q", opts.Browser)
	}

	b, err := browserType.Launch(launch)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", browserType.Name(), err)
	}

	return &PlaywrightLauncher{pw: pw, browser: b, opts: opts}, nil
}

// NewSession opens a fresh context and page. Nothing is shared between sessions.
func (l *PlaywrightLauncher) NewSession() (Session, error) {
	ctxOpts := playwright.BrowserNewContextOptions{}
	if l.opts.ViewportWidth > 0 && l.opts.ViewportHeight > 0 {
		ctxOpts.Viewport = &playwright.Size{Width: l.opts.ViewportWidth, Height: l.opts.ViewportHeight}
	}

	bctx, err := l.browser.NewContext(ctxOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	if l.opts.ActionTimeout > 0 {
		bctx.SetDefaultTimeout(float64(l.opts.ActionTimeout.Milliseconds()))
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return NewPlaywrightSession(bctx, page), nil
}

// Close shuts the browser down and stops the driver.
func (l *PlaywrightLauncher) Close() error {
	browserErr := l.browser.Close()
	stopErr := l.pw.Stop()
	return errors.Join(browserErr, stopErr)
}

// InstallBrowsers downloads the playwright driver and the named browsers.
func InstallBrowsers(browsers ...string) error {
	if len(browsers) == 0 {
		browsers = []string{"chromium"}
	}
	if err := playwright.Install(&playwright.RunOptions{Browsers: browsers}); err != nil {
		return fmt.Errorf("failed to install browsers: %w", err)
	}
	return nil
}
