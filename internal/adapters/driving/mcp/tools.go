package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quizdeck/internal/core/domain"
)

// defaultLimit caps list_questions results when no limit is given.
const defaultLimit = 50

// ListQuestionsInput is the input schema for the list_questions tool.
type ListQuestionsInput struct {
	Source     string `json:"source,omitempty" jsonschema:"sheet URL or file path (default: configured source)"`
	Category   string `json:"category,omitempty" jsonschema:"game_type to filter by (default: configured category)"`
	Difficulty string `json:"difficulty,omitempty" jsonschema:"difficulty to filter by"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of questions to return (default 50)"`
}

// ListQuestionsOutput is the output schema for the list_questions tool.
type ListQuestionsOutput struct {
	Source    string              `json:"source"`
	Category  string              `json:"category,omitempty"`
	FromCache bool                `json:"from_cache"`
	Total     int                 `json:"total"`
	Count     int                 `json:"count"`
	Questions []map[string]string `json:"questions"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_questions",
		Description: "List quiz questions from a Google Sheet or delimited file, optionally filtered by category and difficulty",
	}, s.handleListQuestions)
}

// handleListQuestions handles the list_questions tool invocation.
func (s *Server) handleListQuestions(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListQuestionsInput,
) (*mcp.CallToolResult, ListQuestionsOutput, error) {
	source, category, difficulty := input.Source, input.Category, input.Difficulty
	if s.ports.Settings != nil {
		settings, err := s.ports.Settings.Get()
		if err != nil {
			return nil, ListQuestionsOutput{}, fmt.Errorf("reading settings: %w", err)
		}
		if source == "" {
			source = settings.SourceURL
		}
		if category == "" {
			category = settings.Category
		}
		if difficulty == "" {
			difficulty = settings.Difficulty
		}
	}
	if source == "" {
		return nil, ListQuestionsOutput{}, ErrNoSource
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	state, err := s.load(ctx, source, category)
	if err != nil {
		return nil, ListQuestionsOutput{}, err
	}
	if state.HasError() {
		failure := domain.ClassifyFailure(state.Err)
		return nil, ListQuestionsOutput{}, fmt.Errorf("%s: %s", failure.Description(), state.Err)
	}

	records := state.Records.FilterByDifficulty(difficulty)
	output := ListQuestionsOutput{
		Source:    source,
		Category:  category,
		FromCache: state.IsFromCache,
		Total:     len(records),
		Questions: make([]map[string]string, 0, min(limit, len(records))),
	}
	for i := range records {
		if i == limit {
			break
		}
		output.Questions = append(output.Questions, records[i].Map())
	}
	output.Count = len(output.Questions)

	return nil, output, nil
}

// load points the data source at (source, category) and waits for a settled state.
// For unchanged inputs the current state is served unless it failed, came from
// the cache or is older than maxAge; those are loaded again.
func (s *Server) load(ctx context.Context, source, category string) (domain.LoadState, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	// Revalidation outlives the tool call.
	loadCtx := context.WithoutCancel(ctx)

	q := s.ports.Questions
	current := q.State()
	now := s.now()
	sameInputs := current.Phase != domain.PhaseIdle &&
		current.Identifier == source && current.Category == category

	switch {
	case !sameInputs:
		q.Reload(loadCtx, source, category)
		s.loadedAt = now
	case current.HasError() || current.IsFromCache || now.Sub(s.loadedAt) >= s.maxAge:
		q.Retry(loadCtx)
		s.loadedAt = now
	}

	state, err := q.Await(ctx)
	if err != nil {
		return state, fmt.Errorf("waiting for questions: %w", err)
	}
	return state, nil
}
