package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear cached documents",
	Long: `Documents are cached for an hour under a key derived from the source.
Without an argument the configured source is used.`,
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status [source]",
	Short: "Show the cached copy of a source",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheStatus,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [source]",
	Short: "Remove the cached copy of a source",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

// resolveSource returns the source argument or the configured source.
func resolveSource(args []string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	if settingsService == nil {
		return "", errNotConfigured
	}
	settings, err := settingsService.Get()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	if settings.SourceURL == "" {
		return "", errNoSource
	}
	return settings.SourceURL, nil
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	if cacheService == nil {
		return errNotConfigured
	}
	source, err := resolveSource(args)
	if err != nil {
		return err
	}

	status, err := cacheService.Status(commandContext(cmd), source)
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	cmd.Printf("Source: %s\n", status.Identifier)
	cmd.Printf("Key:    %s\n", status.Key)
	if !status.Present {
		cmd.Println("Status: not cached")
		return nil
	}

	state := "fresh"
	if status.Expired {
		state = "expired"
	}
	captured := status.Entry.CapturedAt()
	cmd.Printf("Status: %s\n", state)
	cmd.Printf("Cached: %s (%s ago)\n", captured.Format(time.RFC3339), time.Since(captured).Round(time.Second))
	cmd.Printf("Size:   %d bytes\n", len(status.Entry.Data))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	if cacheService == nil {
		return errNotConfigured
	}
	source, err := resolveSource(args)
	if err != nil {
		return err
	}

	if err := cacheService.Clear(commandContext(cmd), source); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	cmd.Printf("Cleared cache for %s\n", source)
	return nil
}
