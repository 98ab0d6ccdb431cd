// Package cli provides the cobra command tree for quizdeck.
// It is a driving adapter: commands call core services through driving ports.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quizdeck/internal/core/ports/driving"
	"github.com/custodia-labs/quizdeck/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// verbose enables debug logging for every command.
var verbose bool

// Services wired by the composition root.
var (
	settingsService driving.SettingsService
	cacheService    driving.CacheService
	newDataSource   func(noCache bool) driving.DataSource
)

// errNotConfigured is returned when a command runs before Configure.
var errNotConfigured = errors.New("services not configured")

// Services holds the core services the commands run against.
type Services struct {
	// Settings manages the configured source and filters.
	Settings driving.SettingsService

	// Cache inspects and clears cached documents.
	Cache driving.CacheService

	// NewDataSource builds a data source. With noCache set it must not
	// read or write the persistent cache.
	NewDataSource func(noCache bool) driving.DataSource
}

var rootCmd = &cobra.Command{
	Use:   "quizdeck",
	Short: "Quiz questions from Google Sheets and delimited files",
	Long: `quizdeck loads quiz questions from a published Google Sheet, a CSV/TSV URL
or a local file. Documents are cached for an hour; cached questions are shown
immediately while a fresh copy is fetched in the background.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Configure installs the services used by every command.
func Configure(s Services) {
	settingsService = s.Settings
	cacheService = s.Cache
	newDataSource = s.NewDataSource
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the command context, or Background outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
