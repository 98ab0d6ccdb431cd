package cli

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/quizdeck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quizdeck/internal/core/domain"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driven"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driving"
	"github.com/custodia-labs/quizdeck/internal/core/services"
	"github.com/custodia-labs/quizdeck/internal/parsers/delimited"
)

const (
	testSource = "https://example.com/questions.csv"
	testCSV    = "question,answer,game_type,difficulty\n" +
		"2+2?,4,math,easy\n" +
		"Capital of France?,Paris,geo,easy\n" +
		"3*3?,9,math,hard\n"
)

// testEnv holds the services installed by setupTestServices.
type testEnv struct {
	settings *services.SettingsService
	store    *memory.KVStore
	cache    *services.DocumentCache
	docs     map[string]string
	fetches  atomic.Int32
}

// fetch serves documents from docs, or a 404.
func (e *testEnv) fetch(_ context.Context, identifier string) (string, error) {
	e.fetches.Add(1)
	if text, ok := e.docs[identifier]; ok {
		return text, nil
	}
	return "", &domain.StatusError{URL: identifier, StatusCode: 404, Status: "Not Found"}
}

// setupTestServices configures the commands against in-memory services.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		settings: services.NewSettingsService(memory.NewConfigStore()),
		store:    memory.NewKVStore(),
		docs:     map[string]string{testSource: testCSV},
	}
	env.cache = services.NewDocumentCache(env.store)

	fetcher := services.NewResilientFetcher(
		driven.TextFetcherFunc(env.fetch),
		services.WithMaxAttempts(1),
	)

	Configure(Services{
		Settings: env.settings,
		Cache:    env.cache,
		NewDataSource: func(noCache bool) driving.DataSource {
			cache := env.cache
			if noCache {
				cache = services.NewDocumentCache(memory.NewKVStore())
			}
			return services.NewDataSourceController(cache, fetcher, delimited.New())
		},
	})

	t.Cleanup(func() {
		Configure(Services{})
	})
	return env
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCommand executes the root command with args and returns stdout and stderr.
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	resetFlags(rootCmd)
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
