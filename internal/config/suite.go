package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Suite defaults
const (
	DefaultBrowser         = "chromium"
	DefaultImplicitWait    = 10 * time.Second
	DefaultExplicitWait    = 20 * time.Second
	DefaultPollInterval    = 250 * time.Millisecond
	DefaultReportsPath     = "reports"
	DefaultScreenshotsPath = "reports/screenshots"
	DefaultViewportWidth   = 1920
	DefaultViewportHeight  = 1080
)

// ErrorMessages are the login errors the store is expected to show.
type ErrorMessages struct {
	LoginError string
	LockedUser string
}

// DefaultErrorMessages returns the store's login error texts.
func DefaultErrorMessages() ErrorMessages {
	return ErrorMessages{
		LoginError: "Epic sadface: Username and password do not match any user in this service",
		LockedUser: "Epic sadface: Sorry, this user has been locked out.",
	}
}

// Suite holds the browser and timing settings of a test run
type Suite struct {
	Browser         string
	Headless        bool
	ImplicitWait    time.Duration
	ExplicitWait    time.Duration
	PollInterval    time.Duration
	ReportsPath     string
	ScreenshotsPath string
	ViewportWidth   int
	ViewportHeight  int
	ErrorMessages   ErrorMessages
}

// LoadSuite loads suite settings from environment variables. Waits accept Go
// durations ("1500ms") or whole seconds ("10").
func LoadSuite(getenv func(string) string) (*Suite, error) {
	suite := &Suite{
		Browser:         DefaultBrowser,
		Headless:        strings.ToLower(getenv("HEADLESS")) == "true",
		ImplicitWait:    DefaultImplicitWait,
		ExplicitWait:    DefaultExplicitWait,
		PollInterval:    DefaultPollInterval,
		ReportsPath:     DefaultReportsPath,
		ScreenshotsPath: DefaultScreenshotsPath,
		ViewportWidth:   DefaultViewportWidth,
		ViewportHeight:  DefaultViewportHeight,
		ErrorMessages:   DefaultErrorMessages(),
	}

	if b := strings.ToLower(getenv("BROWSER")); b != "" {
		switch b {
		case "chromium", "firefox", "webkit":
			suite.Browser = b
		case "chrome":
			suite.Browser = "chromium"
		default:
			return nil, fmt.Errorf("BROWSER must be chromium, firefox or webkit, got %q", b)
		}
	}

	waits := []struct {
		key string
		dst *time.Duration
	}{
		{"IMPLICIT_WAIT", &suite.ImplicitWait},
		{"EXPLICIT_WAIT", &suite.ExplicitWait},
		{"POLL_INTERVAL", &suite.PollInterval},
	}
	for _, w := range waits {
		v := getenv(w.key)
		if v == "" {
			continue
		}
		d, err := parseWait(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", w.key, err)
		}
		*w.dst = d
	}
	if suite.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL must be positive")
	}

	if v := getenv("REPORTS_PATH"); v != "" {
		suite.ReportsPath = v
	}
	if v := getenv("SCREENSHOTS_PATH"); v != "" {
		suite.ScreenshotsPath = v
	}

	return suite, nil
}

func parseWait(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("negative wait %q", v)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative wait %q", v)
	}
	return d, nil
}

// LaunchArgs returns the chromium command line switches for the suite.
func (s *Suite) LaunchArgs() []string {
	args := []string{
		"--no-sandbox",
		"--start-maximized",
		"--disable-popup-blocking",
	}
	if s.Headless {
		args = append(args,
			"--disable-gpu",
			fmt.Sprintf("--window-size=%d,%d", s.ViewportWidth, s.ViewportHeight),
		)
	}
	return args
}
