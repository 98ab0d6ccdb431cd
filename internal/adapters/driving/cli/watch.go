package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quizdeck/internal/adapters/driving/watcher"
	"github.com/custodia-labs/quizdeck/internal/core/domain"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload questions whenever the config file changes",
	Long: `Loads the configured source, then watches the config file. Each change
re-reads the settings and switches to the new source or category. A load
still in flight for the old settings is discarded.

Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "delay before applying a config change")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if settingsService == nil || newDataSource == nil {
		return errNotConfigured
	}

	ctx := commandContext(cmd)
	ds := newDataSource(false)
	defer ds.Close()

	out := cmd.OutOrStdout()
	unsubscribe := ds.Subscribe(func(state domain.LoadState) {
		printState(out, state)
	})
	defer unsubscribe()

	fmt.Fprintf(out, "Watching %s (ctrl+c to stop)\n", settingsService.ConfigPath())
	return watcher.New(settingsService, ds, watcher.WithDebounce(watchDebounce)).Run(ctx)
}

// printState writes a one-line summary of a load state.
func printState(w io.Writer, state domain.LoadState) {
	source := state.Identifier
	if source == "" {
		source = "(no source)"
	}
	if state.Category != "" {
		source += " [" + state.Category + "]"
	}

	switch {
	case state.IsLoading:
		fmt.Fprintf(w, "[loading] %s\n", source)
	case state.HasError():
		fmt.Fprintf(w, "[error] %s: %s: %s\n", source, domain.ClassifyFailure(state.Err).Description(), state.Err)
	case state.Phase == domain.PhaseReady:
		suffix := ""
		if state.IsFromCache {
			suffix = " (cached)"
		}
		fmt.Fprintf(w, "[ready] %s: %d questions%s\n", source, len(state.Records), suffix)
	default:
		fmt.Fprintf(w, "[%s] %s\n", state.Phase, source)
	}
}
