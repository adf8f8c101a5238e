package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/themizzi/saucecheck/internal/browser"
	internalcli "github.com/themizzi/saucecheck/internal/cli"
	"github.com/themizzi/saucecheck/internal/config"
	"github.com/themizzi/saucecheck/internal/database"
	"github.com/themizzi/saucecheck/internal/handlers"
	"github.com/themizzi/saucecheck/internal/pages"
	"github.com/themizzi/saucecheck/internal/repository"
	"github.com/themizzi/saucecheck/internal/session"
)

var version = "0.1.0"

func newLogger() *logrus.Logger {
	return newLoggerFrom(os.Getenv)
}

// newLoggerFrom builds the CLI logger, leveled by LOG_LEVEL.
func newLoggerFrom(getenv func(string) string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}
	return log
}

// buildServerDependencies wires the run repository into the dashboard handlers
func buildServerDependencies(repo *repository.RunRepository, suite *config.Suite, log logrus.FieldLogger) (internalcli.ServerDependencies, error) {
	var deps internalcli.ServerDependencies

	deps.ServerConfig = config.LoadServerConfig(os.Getenv)
	deps.ScreenshotsDir = suite.ScreenshotsPath
	deps.StaticDir = "static"
	deps.Log = log

	runsHandler, err := handlers.NewRunsHandler("templates/runs.html", repo, log)
	if err != nil {
		return deps, fmt.Errorf("failed to create runs handler: %w", err)
	}
	deps.RunsHandler = runsHandler

	runHandler, err := handlers.NewRunHandler("templates/run.html", repo, log)
	if err != nil {
		return deps, fmt.Errorf("failed to create run handler: %w", err)
	}
	deps.RunHandler = runHandler

	return deps, nil
}

// ServeCommand returns the serve command
func ServeCommand(log *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the run report dashboard",
		Action: func(c *cli.Context) error {
			suite, err := config.LoadSuite(os.Getenv)
			if err != nil {
				return err
			}
			pgConfig, err := config.LoadPostgresConfig(os.Getenv)
			if err != nil {
				return fmt.Errorf("the dashboard needs a database: %w", err)
			}

			db, err := database.Connect(pgConfig)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()
			log.Info("Connected to database successfully")

			if err := database.RunMigrations(db, log); err != nil {
				return fmt.Errorf("failed to run database migrations: %w", err)
			}

			deps, err := buildServerDependencies(repository.NewRunRepositoryWithDB(db), suite, log)
			if err != nil {
				return err
			}
			return internalcli.RunServe(deps)
		},
	}
}

// SmokeCommand returns the smoke command
func SmokeCommand(log *logrus.Logger) *cli.Command {
	defaults := internalcli.DefaultSmokeOptions()
	return &cli.Command{
		Name:  "smoke",
		Usage: "Sign in and complete one purchase against an environment",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env", Usage: "environment to check", EnvVars: []string{"SAUCE_ENV"}, Value: config.DefaultEnvironment},
			&cli.StringSliceFlag{Name: "item", Usage: "product to buy, repeatable", Value: cli.NewStringSlice(defaults.Items...)},
			&cli.StringFlag{Name: "first-name", Value: defaults.Customer.FirstName},
			&cli.StringFlag{Name: "last-name", Value: defaults.Customer.LastName},
			&cli.StringFlag{Name: "postal-code", Value: defaults.Customer.PostalCode},
		},
		Action: func(c *cli.Context) error {
			suite, err := config.LoadSuite(os.Getenv)
			if err != nil {
				return err
			}
			envs, err := config.LoadEnvironments(os.Getenv)
			if err != nil {
				return err
			}
			env, err := envs.Select(c.String("env"))
			if err != nil {
				return err
			}

			opts := []session.Option{session.WithLogger(log)}
			pgConfig, err := config.LoadPostgresConfig(os.Getenv)
			switch {
			case errors.Is(err, config.ErrReportingDisabled):
				log.Debug("run reporting disabled")
			case err != nil:
				return err
			default:
				db, err := database.Connect(pgConfig)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer db.Close()
				if err := database.RunMigrations(db, log); err != nil {
					return fmt.Errorf("failed to run database migrations: %w", err)
				}
				opts = append(opts, session.WithRecorder(repository.NewRunRepositoryWithDB(db)))
			}

			launcher, err := browser.LaunchPlaywright(session.LaunchOptions(suite))
			if err != nil {
				return err
			}
			defer func() {
				if err := launcher.Close(); err != nil {
					log.WithError(err).Warn("failed to stop browser")
				}
			}()

			m := session.NewManager(suite, env, launcher, opts...)
			run, err := internalcli.RunSmoke(m, internalcli.SmokeOptions{
				Name:  "smoke",
				Items: c.StringSlice("item"),
				Customer: pages.CustomerInfo{
					FirstName:  c.String("first-name"),
					LastName:   c.String("last-name"),
					PostalCode: c.String("postal-code"),
				},
			}, log)
			if run != nil {
				internalcli.PrintRunResult(c.App.Writer, run)
			}
			if err != nil {
				return cli.Exit(fmt.Sprintf("smoke check failed: %v", err), 1)
			}
			return nil
		},
	}
}

// InstallCommand returns the install command
func InstallCommand() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Download the playwright driver and browsers",
		ArgsUsage: "[browser...]",
		Action: func(c *cli.Context) error {
			return browser.InstallBrowsers(c.Args().Slice()...)
		},
	}
}

// LocatorsCommand returns the locators command
func LocatorsCommand() *cli.Command {
	return &cli.Command{
		Name:      "locators",
		Usage:     "Print the element locator registry",
		ArgsUsage: "[page]",
		Action: func(c *cli.Context) error {
			return internalcli.PrintLocators(c.App.Writer, c.Args().First())
		},
	}
}

func main() {
	// Load environment variables from .env file before LOG_LEVEL is read
	envErr := godotenv.Load()
	log := newLogger()
	if envErr != nil {
		log.Debug(".env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "saucecheck",
		Usage:   "End-to-end checks for the Sauce Demo store",
		Version: version,
		Commands: []*cli.Command{
			ServeCommand(log),
			SmokeCommand(log),
			InstallCommand(),
			LocatorsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
