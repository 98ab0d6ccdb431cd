// Command quizdeck loads quiz questions from Google Sheets and delimited files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/quizdeck/internal/adapters/driven/config/file"
	"github.com/custodia-labs/quizdeck/internal/adapters/driven/fetch"
	"github.com/custodia-labs/quizdeck/internal/adapters/driven/fetch/local"
	"github.com/custodia-labs/quizdeck/internal/adapters/driven/fetch/web"
	"github.com/custodia-labs/quizdeck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quizdeck/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/quizdeck/internal/adapters/driving/cli"
	"github.com/custodia-labs/quizdeck/internal/core/domain"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driven"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driving"
	"github.com/custodia-labs/quizdeck/internal/core/services"
	"github.com/custodia-labs/quizdeck/internal/logger"
	"github.com/custodia-labs/quizdeck/internal/parsers/delimited"
)

// version is set via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		// cobra has already printed command errors.
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore)

	kv, closeStore := openCache()
	defer closeStore()
	cache := services.NewDocumentCache(kv)

	fetcher := fetch.NewRouter(local.NewFetcher()).
		Handle(web.NewFetcher(web.Config{UserAgent: "quizdeck/" + version}), "http", "https")
	parser := delimited.New()

	cli.SetVersion(version)
	cli.Configure(cli.Services{
		Settings: settingsService,
		Cache:    cache,
		NewDataSource: func(noCache bool) driving.DataSource {
			attempts := domain.DefaultMaxAttempts
			if settings, err := settingsService.Get(); err == nil {
				attempts = settings.MaxAttempts
			}

			c := cache
			if noCache {
				c = services.NewDocumentCache(memory.NewKVStore())
			}
			return services.NewDataSourceController(
				c,
				services.NewResilientFetcher(fetcher, services.WithMaxAttempts(attempts)),
				parser,
			)
		},
	})

	return cli.Execute(ctx)
}

// openCache opens the persistent cache, falling back to memory when the
// database cannot be opened.
func openCache() (driven.KeyValueStore, func()) {
	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("Persistent cache unavailable, using memory: %v", err)
		return memory.NewKVStore(), func() {}
	}
	return store.KVStore(), func() {
		if err := store.Close(); err != nil {
			logger.Warn("Closing cache: %v", err)
		}
	}
}
