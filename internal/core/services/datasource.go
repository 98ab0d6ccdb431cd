package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/quizdeck/internal/core/domain"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driven"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driving"
	"github.com/custodia-labs/quizdeck/internal/logger"
)

// Ensure DataSourceController implements the interface.
var _ driving.DataSource = (*DataSourceController)(nil)

// DataSourceController loads records for an (identifier, category) pair
// with a stale-while-revalidate policy:
//
//   - cache hit: Ready from cache immediately, then a background fetch that
//     replaces the records on success and is ignored on failure.
//   - cache miss: Loading, then a foreground fetch that ends in Ready or Error.
//
// Every load is stamped with a generation. A result is applied only while its
// generation is current, so switching inputs or retrying discards anything
// still in flight from earlier loads.
type DataSourceController struct {
	cache   *DocumentCache
	fetcher driven.TextFetcher
	parser  driven.RecordParser
	log     logger.Component

	// notifyMu serialises state changes with their delivery so subscribers
	// see states in the order they were applied. Acquired before mu.
	notifyMu sync.Mutex

	mu          sync.Mutex
	identifier  string
	category    string
	started     bool
	generation  uint64
	cancel      context.CancelFunc
	state       domain.LoadState
	changed     chan struct{}
	subscribers map[int]func(domain.LoadState)
	nextSubID   int
	closed      bool

	wg sync.WaitGroup
}

// NewDataSourceController creates an idle data source.
func NewDataSourceController(
	cache *DocumentCache,
	fetcher driven.TextFetcher,
	parser driven.RecordParser,
) *DataSourceController {
	return &DataSourceController{
		cache:       cache,
		fetcher:     fetcher,
		parser:      parser,
		log:         logger.For("datasource"),
		state:       domain.LoadState{Phase: domain.PhaseIdle, Records: domain.RecordSet{}},
		changed:     make(chan struct{}),
		subscribers: make(map[int]func(domain.LoadState)),
	}
}

// Reload switches to the given inputs. With unchanged inputs it does nothing;
// otherwise it starts a new load. ctx bounds every fetch the load starts.
func (c *DataSourceController) Reload(ctx context.Context, identifier, category string) {
	c.mu.Lock()
	if c.closed || (c.started && identifier == c.identifier && category == c.category) {
		c.mu.Unlock()
		return
	}
	c.identifier = identifier
	c.category = category
	c.started = true
	req := c.beginLocked(ctx)
	c.mu.Unlock()

	c.load(req)
}

// Retry re-runs the full load for the current inputs, re-reading the cache.
func (c *DataSourceController) Retry(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.started = true
	req := c.beginLocked(ctx)
	c.mu.Unlock()

	c.load(req)
}

// State returns the current load state.
func (c *DataSourceController) State() domain.LoadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn for every applied state.
// fn runs synchronously on the goroutine that applied the state; it must not
// call Reload or Retry directly.
func (c *DataSourceController) Subscribe(fn func(domain.LoadState)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Await blocks until the current state is not loading, or ctx is done.
func (c *DataSourceController) Await(ctx context.Context) (domain.LoadState, error) {
	for {
		c.mu.Lock()
		state, changed := c.state, c.changed
		c.mu.Unlock()

		if !state.IsLoading {
			return state, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return state, ctx.Err()
		}
	}
}

// Wait blocks until every fetch started so far, including background
// revalidation, has finished.
func (c *DataSourceController) Wait() {
	c.wg.Wait()
}

// Close stops observing in-flight loads and waits for them to return.
// Later calls to Reload and Retry are ignored.
func (c *DataSourceController) Close() {
	c.mu.Lock()
	c.closed = true
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()

	c.wg.Wait()
}

// loadRequest is one generation of loading for a fixed pair of inputs.
type loadRequest struct {
	ctx        context.Context
	gen        uint64
	identifier string
	category   string
}

// beginLocked supersedes every earlier load and returns the next generation
// for the current inputs. c.mu must be held.
func (c *DataSourceController) beginLocked(parent context.Context) loadRequest {
	c.generation++
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	return loadRequest{
		ctx:        ctx,
		gen:        c.generation,
		identifier: c.identifier,
		category:   c.category,
	}
}

// load runs the cache read and starts the fetch for req.
func (c *DataSourceController) load(req loadRequest) {
	if req.identifier == "" {
		c.apply(req, domain.LoadState{Phase: domain.PhaseReady, Records: domain.RecordSet{}})
		return
	}

	c.log.Debug("Load %s (category %q, generation %d)", req.identifier, req.category, req.gen)

	if doc, ok := c.cache.Read(req.ctx, req.identifier); ok {
		records := c.parse(req.identifier, doc.Text).FilterByGameType(req.category)
		if !c.apply(req, domain.LoadState{Phase: domain.PhaseReady, Records: records, IsFromCache: true}) {
			return
		}
		c.spawn(req.gen, func() { c.fetch(req, true) })
		return
	}

	if !c.apply(req, domain.LoadState{Phase: domain.PhaseLoading, IsLoading: true, Records: domain.RecordSet{}}) {
		return
	}
	c.spawn(req.gen, func() { c.fetch(req, false) })
}

// fetch retrieves the document for req and applies the result.
// A background failure is dropped so the cached state stays visible.
func (c *DataSourceController) fetch(req loadRequest, background bool) {
	text, err := c.fetcher.Fetch(req.ctx, req.identifier)
	if err != nil {
		if background {
			c.log.Warn("Revalidation of %s failed, keeping cached records: %v", req.identifier, err)
			return
		}
		c.apply(req, domain.LoadState{Phase: domain.PhaseError, Err: err.Error(), Records: domain.RecordSet{}})
		return
	}

	if !c.isCurrent(req.gen) {
		c.log.Debug("Discarding result for %s from generation %d", req.identifier, req.gen)
		return
	}

	if err := c.cache.Write(req.ctx, req.identifier, text); err != nil {
		c.log.Warn("Cache write for %s dropped: %v", req.identifier, err)
	}

	records := c.parse(req.identifier, text).FilterByGameType(req.category)
	c.apply(req, domain.LoadState{Phase: domain.PhaseReady, Records: records})
}

// parse turns text from identifier into records. A parse failure becomes an
// empty set.
func (c *DataSourceController) parse(identifier, text string) domain.RecordSet {
	parser := c.parser
	if sp, ok := parser.(driven.SourceParser); ok {
		parser = sp.ForSource(identifier)
	}
	records, err := parser.Parse(text)
	if err != nil {
		c.log.Warn("Parse degraded to empty result: %v", err)
		return domain.RecordSet{}
	}
	return records
}

// spawn runs fn in a tracked goroutine unless gen has been superseded.
func (c *DataSourceController) spawn(gen uint64, fn func()) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		fn()
	}()
}

func (c *DataSourceController) isCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && gen == c.generation
}

// apply installs state if req is still the current generation and notifies
// subscribers. It reports whether the state was applied.
func (c *DataSourceController) apply(req loadRequest, state domain.LoadState) bool {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if c.closed || req.gen != c.generation {
		c.mu.Unlock()
		c.log.Debug("Discarding %s state from generation %d", state.Phase, req.gen)
		return false
	}
	state.Identifier = req.identifier
	state.Category = req.category
	state.Generation = req.gen
	c.state = state

	close(c.changed)
	c.changed = make(chan struct{})

	subscribers := make([]func(domain.LoadState), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subscribers = append(subscribers, fn)
	}
	c.mu.Unlock()

	for _, fn := range subscribers {
		fn(state)
	}
	return true
}
