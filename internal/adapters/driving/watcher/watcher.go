// Package watcher reloads the data source when the config file changes.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/quizdeck/internal/core/domain"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driving"
	"github.com/custodia-labs/quizdeck/internal/logger"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher feeds settings changes into a DataSource.
type Watcher struct {
	settings driving.SettingsService
	source   driving.DataSource
	debounce time.Duration
	log      logger.Component

	// onApply is called after every Reload, for tests.
	onApply func(domain.Settings)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the delay between the last file event and the reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher over the settings' config file.
func New(settings driving.SettingsService, source driving.DataSource, opts ...Option) *Watcher {
	w := &Watcher{
		settings: settings,
		source:   source,
		debounce: DefaultDebounce,
		log:      logger.For("watcher"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run applies the current settings, then re-applies them after every change
// to the config file until ctx is done. The data source decides whether a
// change needs a new load.
func (w *Watcher) Run(ctx context.Context) error {
	path := w.settings.ConfigPath()
	if path == "" {
		return errors.New("settings have no backing file to watch")
	}
	path = filepath.Clean(path)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	// Watch the directory: editors often replace the file rather than write it.
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %q: %w", dir, err)
	}

	if err := w.apply(ctx); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("%s %s", ev.Op, ev.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if err := w.settings.Reload(); err != nil {
				// Keep the previous settings until the file parses again.
				w.log.Warn("Ignoring config change: %v", err)
				continue
			}
			if err := w.apply(ctx); err != nil {
				w.log.Warn("Applying config change: %v", err)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Watch error: %v", err)
		}
	}
}

func (w *Watcher) apply(ctx context.Context) error {
	settings, err := w.settings.Get()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	w.source.Reload(ctx, settings.SourceURL, settings.Category)
	if w.onApply != nil {
		w.onApply(*settings)
	}
	return nil
}
