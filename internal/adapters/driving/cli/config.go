package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// configKeys lists the keys accepted by config set.
var configKeys = []string{"source", "category", "difficulty", "max-attempts"}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage settings",
	Long: `View and change the question source and filters.

Settings are stored in ~/.quizdeck/config.toml.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting. An empty value clears source, category and difficulty.

Keys:
  source        Google Sheet URL, CSV/TSV URL or file path
  category      game_type to filter by
  difficulty    difficulty to filter by
  max-attempts  fetch attempts before a load fails`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: configKeys,
	RunE:      runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	cmd.Println("[Source]")
	cmd.Printf("  URL: %s\n", orNotSet(settings.SourceURL))
	cmd.Printf("  Category: %s\n", orAll(settings.Category))
	cmd.Printf("  Difficulty: %s\n", orAll(settings.Difficulty))
	cmd.Println()
	cmd.Println("[Fetch]")
	cmd.Printf("  Max attempts: %d\n", settings.MaxAttempts)
	if path := settingsService.ConfigPath(); path != "" {
		cmd.Println()
		cmd.Printf("Config file: %s\n", path)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured
	}

	key, value := strings.ToLower(args[0]), args[1]

	var err error
	switch key {
	case "source", "url":
		err = settingsService.SetSourceURL(value)
	case "category":
		err = settingsService.SetCategory(value)
	case "difficulty":
		err = settingsService.SetDifficulty(value)
	case "max-attempts", "max_attempts":
		n, convErr := strconv.Atoi(value)
		if convErr != nil {
			return fmt.Errorf("invalid max-attempts %q: %w", value, convErr)
		}
		err = settingsService.SetMaxAttempts(n)
	default:
		return fmt.Errorf("unknown key %q (valid: %s)", key, strings.Join(configKeys, ", "))
	}
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func orAll(s string) string {
	if s == "" {
		return "(all)"
	}
	return s
}
