package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quizdeck/internal/core/domain"
)

var (
	questionsCategory   string
	questionsDifficulty string
	questionsLimit      int
	questionsJSON       bool
	questionsNoCache    bool
)

// errNoSource is returned when neither the arguments nor the settings name a source.
var errNoSource = errors.New("no source given; pass a URL or run: quizdeck config set source <url>")

var questionsCmd = &cobra.Command{
	Use:   "questions [source]",
	Short: "List quiz questions",
	Long: `Loads questions from a Google Sheet URL, a CSV/TSV URL or a local file.
Without an argument the configured source is used. A cached copy younger
than an hour is used when present.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runQuestions,
}

func init() {
	questionsCmd.Flags().StringVarP(&questionsCategory, "category", "c", "", "game_type to filter by (default: configured category)")
	questionsCmd.Flags().StringVarP(&questionsDifficulty, "difficulty", "d", "", "difficulty to filter by (default: configured difficulty)")
	questionsCmd.Flags().IntVarP(&questionsLimit, "limit", "n", 0, "maximum number of questions (0 = all)")
	questionsCmd.Flags().BoolVar(&questionsJSON, "json", false, "output questions as JSON")
	questionsCmd.Flags().BoolVar(&questionsNoCache, "no-cache", false, "bypass the persistent cache")
	rootCmd.AddCommand(questionsCmd)
}

// questionsOutput is the JSON form of a load.
type questionsOutput struct {
	Source    string           `json:"source"`
	Category  string           `json:"category,omitempty"`
	FromCache bool             `json:"from_cache"`
	Count     int              `json:"count"`
	Questions domain.RecordSet `json:"questions"`
}

func runQuestions(cmd *cobra.Command, args []string) error {
	if settingsService == nil || newDataSource == nil {
		return errNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	source := settings.SourceURL
	if len(args) == 1 {
		source = args[0]
	}
	if source == "" {
		return errNoSource
	}

	category := settings.Category
	if cmd.Flags().Changed("category") {
		category = questionsCategory
	}
	difficulty := settings.Difficulty
	if cmd.Flags().Changed("difficulty") {
		difficulty = questionsDifficulty
	}

	ctx := commandContext(cmd)
	ds := newDataSource(questionsNoCache)
	defer ds.Close()

	ds.Reload(ctx, source, category)
	state, err := ds.Await(ctx)
	if err != nil {
		return fmt.Errorf("waiting for questions: %w", err)
	}
	if state.HasError() {
		failure := domain.ClassifyFailure(state.Err)
		cmd.PrintErrln(failure.Hint())
		return fmt.Errorf("%s: %s", failure.Description(), state.Err)
	}

	records := state.Records.FilterByDifficulty(difficulty)
	if questionsLimit > 0 && len(records) > questionsLimit {
		records = records[:questionsLimit]
	}

	if questionsJSON {
		return outputQuestionsJSON(cmd, questionsOutput{
			Source:    source,
			Category:  category,
			FromCache: state.IsFromCache,
			Count:     len(records),
			Questions: records,
		})
	}
	return outputQuestionsTable(cmd, records, state.IsFromCache)
}

func outputQuestionsJSON(cmd *cobra.Command, out questionsOutput) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputQuestionsTable(cmd *cobra.Command, records domain.RecordSet, cached bool) error {
	if len(records) == 0 {
		cmd.Println("No questions found.")
		return nil
	}

	header := fmt.Sprintf("Questions (%d)", len(records))
	if cached {
		header += " [cached]"
	}
	cmd.Println(header)
	cmd.Println()

	for i, r := range records {
		keys := r.Keys()
		if len(keys) == 0 {
			continue
		}
		// Format: [N] first field, then the remaining fields indented.
		cmd.Printf("  [%d] %s\n", i+1, r.Get(keys[0]))
		for _, k := range keys[1:] {
			if v := r.Get(k); v != "" {
				cmd.Printf("      %s: %s\n", k, strings.ReplaceAll(v, "\n", " "))
			}
		}
		cmd.Println()
	}
	return nil
}
