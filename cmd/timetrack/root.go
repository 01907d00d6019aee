// ABOUTME: Root Cobra command for timetrack CLI.
// ABOUTME: Loads config, logger, auth, and storage in PersistentPreRunE; closes them on finalize.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/harperreed/timetrack/internal/auth"
	"github.com/harperreed/timetrack/internal/config"
	"github.com/harperreed/timetrack/internal/models"
	"github.com/harperreed/timetrack/internal/storage"
	"github.com/harperreed/timetrack/internal/tracker"
	"github.com/spf13/cobra"
)

// noStorage marks commands that must not open the activity store.
const noStorage = "no-storage"

var (
	cfg        *config.Config
	logger     *log.Logger
	accounts   *auth.AccountStore
	authSvc    *auth.Service
	repo       storage.Repository
	activities *tracker.Service

	logLevelFlag string
	dateFlag     string
)

var rootCmd = &cobra.Command{
	Use:   "timetrack",
	Short: "Daily activity time tracker",
	Long: `Timetrack logs how you spend the 24 hours of each day.

Each activity has a name, a category, and a duration in minutes. A day holds
at most 1440 minutes; once they are all logged the day is complete.

CATEGORIES:

  work, sleep, study, exercise, entertainment, other

QUICK START:

  $ timetrack signup you@example.com      # Create an account
  $ timetrack add "Sleep" sleep 480       # Log 8 hours of sleep
  $ timetrack add "Deep work" work 240    # Log 4 hours of work
  $ timetrack list                        # See today's activities
  $ timetrack analyse                     # Category breakdown and timeline
  $ timetrack list --date 2025-01-31      # Any other day

ACCOUNTS:

  $ timetrack login                       # Email and password
  $ timetrack login --google              # Google sign-in (needs client id in config)
  $ timetrack whoami
  $ timetrack logout

STORAGE:

  The backend is set in ~/.config/timetrack/config.json ("backend") or with
  TIMETRACK_BACKEND:

    charm    Charm Cloud KV, synced across devices (default)
    badger   Local badger database in the data directory
    sqlite   Local SQLite database in the data directory

MCP INTEGRATION:

  Run 'timetrack mcp' to start the Model Context Protocol server for AI
  assistants:

  {
    "mcpServers": {
      "timetrack": { "command": "timetrack", "args": ["mcp"] }
    }
  }`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for commands that don't need it
		if cmd.Name() == "help" || cmd.Name() == "install-skill" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err = newLogger(cfg)
		if err != nil {
			return err
		}
		log.SetDefault(logger)

		changed, err := cfg.EnsureTokenSecret()
		if err != nil {
			return err
		}
		if changed {
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			logger.Debug("generated session token secret", "config", config.GetConfigPath())
		}

		accounts, err = auth.OpenAccounts(cfg.AccountsPath())
		if err != nil {
			return fmt.Errorf("failed to open account store: %w", err)
		}
		authSvc = auth.NewService(auth.Options{
			Accounts: accounts,
			Tokens:   auth.NewTokenManager(cfg.Auth.TokenSecret, cfg.Auth.GetTokenTTL()),
			Google: auth.GoogleConfig{
				ClientID:     cfg.Auth.GoogleClientID,
				ClientSecret: cfg.Auth.GoogleClientSecret,
				OpenURL:      openBrowser,
			},
			Logger: logger,
		})

		if skipsStorage(cmd) {
			return nil
		}

		repo, err = cfg.OpenStorage(logger)
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		activities = tracker.NewService(repo, logger)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error (default from config, else warn)")
	cobra.OnFinalize(closeResources)
}

func closeResources() {
	if repo != nil {
		if err := repo.Close(); err != nil && logger != nil {
			logger.Warn("closing storage failed", "err", err)
		}
		repo = nil
	}
	if accounts != nil {
		_ = accounts.Close()
		accounts = nil
	}
}

func newLogger(c *config.Config) (*log.Logger, error) {
	name := logLevelFlag
	if name == "" {
		name = c.GetLogLevel()
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "timetrack",
		Level:  level,
	}), nil
}

func skipsStorage(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[noStorage]; ok {
			return true
		}
	}
	return false
}

// requireSession returns the signed-in session or a hint to log in.
func requireSession(ctx context.Context) (*auth.Session, error) {
	session, err := authSvc.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !session.Valid() {
		return nil, fmt.Errorf("%w: run 'timetrack login' or 'timetrack signup' first", tracker.ErrNotSignedIn)
	}
	return session, nil
}

// addDateFlag registers --date on a day-scoped command.
func addDateFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&dateFlag, "date", "d", "", "day as YYYY-MM-DD (default today)")
}

// selectedDate returns the --date value, defaulting to today.
func selectedDate() (models.Date, error) {
	if dateFlag == "" {
		return models.Today(), nil
	}
	return models.ParseDate(dateFlag)
}

// storeFailure logs err and returns the one-line message shown to the user.
func storeFailure(action string, err error) error {
	if errors.Is(err, tracker.ErrNotSignedIn) {
		return err
	}
	logger.Error(action+" failed", "err", err)
	return fmt.Errorf("Failed to %s", action)
}

func openBrowser(url string) error {
	fmt.Println("Open this URL to sign in with Google:")
	fmt.Printf("  %s\n\n", url)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		logger.Debug("could not launch browser", "err", err)
	}
	return nil
}
