//go:build e2e

package e2e

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/themizzi/saucecheck/internal/browser"
	"github.com/themizzi/saucecheck/internal/config"
	"github.com/themizzi/saucecheck/internal/database"
	"github.com/themizzi/saucecheck/internal/flows"
	"github.com/themizzi/saucecheck/internal/pages"
	"github.com/themizzi/saucecheck/internal/repository"
	"github.com/themizzi/saucecheck/internal/session"
)

var (
	manager  *session.Manager
	messages config.ErrorMessages
)

// TestMain launches one browser for the whole suite. Every test gets its own
// context through the session manager.
func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	_ = godotenv.Load("../.env")

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	suite, err := config.LoadSuite(os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	env, err := config.LoadEnvironment(os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	messages = suite.ErrorMessages

	opts := []session.Option{session.WithLogger(log)}
	pgConfig, err := config.LoadPostgresConfig(os.Getenv)
	switch {
	case errors.Is(err, config.ErrReportingDisabled):
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		return 1
	default:
		db, err := database.Connect(pgConfig)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer db.Close()
		if err := database.RunMigrations(db, log); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		opts = append(opts, session.WithRecorder(repository.NewRunRepositoryWithDB(db)))
	}

	// Browsers are installed with: saucecheck install chromium
	launcher, err := browser.LaunchPlaywright(session.LaunchOptions(suite))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer launcher.Close()

	manager = session.NewManager(suite, env, launcher, opts...)
	return m.Run()
}

// open starts a session on the store's landing page.
func open(t *testing.T) *pages.Site {
	t.Helper()
	h := manager.Start(t)
	if err := h.Home(); err != nil {
		t.Fatalf("Failed to open the store: %v", err)
	}
	return h.Site()
}

// signedIn starts a session already logged in with the environment's user.
func signedIn(t *testing.T) *pages.Site {
	t.Helper()
	site := open(t)
	if err := flows.SignIn(site, manager.Environment()); err != nil {
		t.Fatalf("Failed to sign in: %v", err)
	}
	return site
}
