// ABOUTME: CLI command for copying activities between storage backends.
// ABOUTME: Moves the signed-in user's days from one backend to another, keeping IDs.
package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/timetrack/internal/analytics"
	"github.com/harperreed/timetrack/internal/config"
	"github.com/harperreed/timetrack/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy activities between storage backends",
	Long: `Copy the signed-in user's activities from one storage backend to another.

BACKENDS:

  charm    Charm Cloud KV (synced)
  badger   Local badger database
  sqlite   Local SQLite database

Activity IDs are kept, so running the migration twice is harmless. The source
is never modified. Afterwards, set "backend" in ~/.config/timetrack/config.json
(or TIMETRACK_BACKEND) to switch.

USAGE:

  timetrack migrate --from charm --to sqlite --dry-run   # Preview
  timetrack migrate --from charm --to sqlite             # Copy`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{noStorage: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		from := strings.ToLower(migrateFrom)
		to := strings.ToLower(migrateTo)
		for _, name := range []string{from, to} {
			if !slices.Contains(config.Backends, name) {
				return fmt.Errorf("unknown backend: %q (use %s)", name, strings.Join(config.Backends, ", "))
			}
		}
		if from == to {
			return errors.New("--from and --to must differ")
		}

		session, err := requireSession(cmd.Context())
		if err != nil {
			return err
		}

		warning, err := destinationWarning(to)
		if err != nil {
			return err
		}
		if warning != "" {
			color.Yellow("⚠ %s", warning)
		}

		src, err := cfg.OpenBackend(from, logger)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", from, err)
		}
		defer src.Close()

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()
			data, err := storage.GetAllData(cmd.Context(), src, session.UID)
			if err != nil {
				return storeFailure("read source", err)
			}
			total := 0
			for _, day := range data.Days {
				fmt.Printf("  %s  %s\n", padRight(string(day.Date), 12), analytics.FormatDuration(day.TotalMinutes))
				total += len(day.Activities)
			}
			fmt.Printf("\nWould copy %d activities across %d days from %s to %s.\n", total, len(data.Days), from, to)
			return nil
		}

		dst, err := cfg.OpenBackend(to, logger)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", to, err)
		}
		defer dst.Close()

		summary, err := storage.MigrateData(cmd.Context(), src, dst, session.UID)
		if err != nil {
			return storeFailure("migrate data", err)
		}

		color.Green("✓ Migrated %d activities across %d days from %s to %s", summary.Activities, summary.Days, from, to)
		if cfg.GetBackend() != to {
			fmt.Printf("\nSet \"backend\": %q in %s to use it.\n", to, config.GetConfigPath())
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", config.BackendCharm, "source backend")
	migrateCmd.Flags().StringVar(&migrateTo, "to", config.BackendSQLite, "destination backend")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}

// destinationWarning describes data already present at a local destination, or "".
func destinationWarning(to string) (string, error) {
	if to != config.BackendBadger {
		return "", nil
	}
	dir := cfg.BadgerDir()
	nonEmpty, err := storage.IsDirNonEmpty(dir)
	if err != nil {
		return "", err
	}
	if !nonEmpty {
		return "", nil
	}
	return fmt.Sprintf("%s already holds data; activities with the same ID will be overwritten", dir), nil
}
