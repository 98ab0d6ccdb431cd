package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quizdeck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quizdeck/internal/core/domain"
	"github.com/custodia-labs/quizdeck/internal/parsers/delimited"
)

const (
	sourceA = "https://example.com/a.csv"
	sourceB = "https://example.com/b.csv"

	csvA = "question,answer,game_type\nqa1,1,x\nqa2,2,y\nqa3,3,x\n"
	csvB = "question,answer,game_type\nqb1,1,x\n"
)

// gatedFetcher blocks each call until a response is released for its
// identifier. Unless honourCtx is set it ignores cancellation, like a network
// call that is not aborted.
type gatedFetcher struct {
	honourCtx bool

	mu    sync.Mutex
	gates map[string]chan fetchResponse
	calls map[string]int
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{
		gates: make(map[string]chan fetchResponse),
		calls: make(map[string]int),
	}
}

func (f *gatedFetcher) gate(id string) chan fetchResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gates[id]
	if !ok {
		g = make(chan fetchResponse, 8)
		f.gates[id] = g
	}
	return g
}

func (f *gatedFetcher) Fetch(ctx context.Context, id string) (string, error) {
	f.mu.Lock()
	f.calls[id]++
	f.mu.Unlock()

	if !f.honourCtx {
		r := <-f.gate(id)
		return r.text, r.err
	}
	select {
	case r := <-f.gate(id):
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (f *gatedFetcher) Release(id, text string) {
	f.gate(id) <- fetchResponse{text: text}
}

func (f *gatedFetcher) Fail(id string, err error) {
	f.gate(id) <- fetchResponse{err: err}
}

func (f *gatedFetcher) Calls(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

// stateRecorder collects every emitted state.
type stateRecorder struct {
	mu     sync.Mutex
	states []domain.LoadState
}

func (r *stateRecorder) record(s domain.LoadState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *stateRecorder) States() []domain.LoadState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.LoadState(nil), r.states...)
}

type controllerFixture struct {
	controller *DataSourceController
	fetcher    *gatedFetcher
	cache      *DocumentCache
	store      *memory.KVStore
	recorder   *stateRecorder
}

func newControllerFixture(t *testing.T) *controllerFixture {
	t.Helper()
	store := memory.NewKVStore()
	cache := NewDocumentCache(store)
	fetcher := newGatedFetcher()
	controller := NewDataSourceController(cache, fetcher, delimited.New())
	recorder := &stateRecorder{}
	controller.Subscribe(recorder.record)
	t.Cleanup(controller.Close)

	return &controllerFixture{
		controller: controller,
		fetcher:    fetcher,
		cache:      cache,
		store:      store,
		recorder:   recorder,
	}
}

func questions(records domain.RecordSet) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Get("question")
	}
	return out
}

func TestDataSource_InitialStateIsIdle(t *testing.T) {
	f := newControllerFixture(t)

	state := f.controller.State()
	assert.Equal(t, domain.PhaseIdle, state.Phase)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Records)
}

func TestDataSource_NoIdentifier(t *testing.T) {
	f := newControllerFixture(t)

	f.controller.Reload(context.Background(), "", "x")

	state := f.controller.State()
	assert.Equal(t, domain.PhaseReady, state.Phase)
	assert.False(t, state.IsLoading)
	assert.NotNil(t, state.Records)
	assert.Empty(t, state.Records)
	assert.Empty(t, state.Err)
}

func TestDataSource_CacheMiss_Success(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	f.controller.Reload(ctx, sourceA, "")

	loading := f.controller.State()
	assert.Equal(t, domain.PhaseLoading, loading.Phase)
	assert.True(t, loading.IsLoading)
	assert.Equal(t, sourceA, loading.Identifier)

	f.fetcher.Release(sourceA, csvA)
	state, err := f.controller.Await(ctx)
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseReady, state.Phase)
	assert.False(t, state.IsLoading)
	assert.False(t, state.IsFromCache)
	assert.Equal(t, []string{"qa1", "qa2", "qa3"}, questions(state.Records))

	doc, ok := f.cache.Read(ctx, sourceA)
	require.True(t, ok, "successful fetch writes through to the cache")
	assert.Equal(t, csvA, doc.Text)
}

func TestDataSource_CacheMiss_Failure(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	f.controller.Reload(ctx, sourceA, "")
	f.fetcher.Fail(sourceA, &domain.FetchError{
		Identifier: sourceA,
		Attempts:   3,
		Err:        &domain.StatusError{URL: sourceA, StatusCode: 404, Status: "Not Found"},
	})

	state, err := f.controller.Await(ctx)
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseError, state.Phase)
	assert.False(t, state.IsLoading)
	assert.Contains(t, state.Err, "HTTP 404")
	assert.Equal(t, domain.FailureNotFound, domain.ClassifyFailure(state.Err))
	assert.Empty(t, state.Records)
}

func TestDataSource_StaleWhileRevalidate(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cache.Write(ctx, sourceA, csvB))

	f.controller.Reload(ctx, sourceA, "")

	// Cached data is visible before the network call completes.
	stale := f.controller.State()
	assert.Equal(t, domain.PhaseReady, stale.Phase)
	assert.True(t, stale.IsFromCache)
	assert.False(t, stale.IsLoading)
	assert.Equal(t, []string{"qb1"}, questions(stale.Records))

	f.fetcher.Release(sourceA, csvA)
	f.controller.Wait()

	fresh := f.controller.State()
	assert.Equal(t, domain.PhaseReady, fresh.Phase)
	assert.False(t, fresh.IsFromCache)
	assert.Equal(t, []string{"qa1", "qa2", "qa3"}, questions(fresh.Records))

	states := f.recorder.States()
	require.Len(t, states, 2)
	assert.True(t, states[0].IsFromCache)
	assert.False(t, states[1].IsFromCache)

	doc, ok := f.cache.Read(ctx, sourceA)
	require.True(t, ok)
	assert.Equal(t, csvA, doc.Text)
}

func TestDataSource_RevalidationFailureKeepsStaleState(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cache.Write(ctx, sourceA, csvB))

	f.controller.Reload(ctx, sourceA, "")
	f.fetcher.Fail(sourceA, errors.New("network down"))
	f.controller.Wait()

	state := f.controller.State()
	assert.Equal(t, domain.PhaseReady, state.Phase)
	assert.True(t, state.IsFromCache)
	assert.Empty(t, state.Err)
	assert.Equal(t, []string{"qb1"}, questions(state.Records))
	assert.Len(t, f.recorder.States(), 1, "a failed revalidation emits nothing")
}

func TestDataSource_SwitchingDiscardsLateResult(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	f.controller.Reload(ctx, sourceA, "")
	f.controller.Reload(ctx, sourceB, "")

	f.fetcher.Release(sourceB, csvB)
	state, err := f.controller.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"qb1"}, questions(state.Records))

	// A resolves after B; its result must not be applied.
	f.fetcher.Release(sourceA, csvA)
	f.controller.Wait()

	final := f.controller.State()
	assert.Equal(t, sourceB, final.Identifier)
	assert.Equal(t, []string{"qb1"}, questions(final.Records))

	for _, s := range f.recorder.States() {
		if s.Phase == domain.PhaseReady {
			assert.Equal(t, sourceB, s.Identifier)
		}
	}

	_, ok := f.cache.Read(ctx, sourceA)
	assert.False(t, ok, "a superseded result is not written to the cache")
}

func TestDataSource_LateResultBeforeNewResult(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	f.controller.Reload(ctx, sourceA, "")
	f.controller.Reload(ctx, sourceB, "")

	// A resolves first, while B is still loading.
	f.fetcher.Release(sourceA, csvA)
	require.Eventually(t, func() bool {
		return len(f.fetcher.gate(sourceA)) == 0
	}, time.Second, time.Millisecond)

	state := f.controller.State()
	assert.Equal(t, sourceB, state.Identifier)
	assert.True(t, state.IsLoading)

	f.fetcher.Release(sourceB, csvB)
	f.controller.Wait()

	final := f.controller.State()
	assert.Equal(t, domain.PhaseReady, final.Phase)
	assert.Equal(t, []string{"qb1"}, questions(final.Records))
}

func TestDataSource_BackgroundResultCannotOverwriteLaterGeneration(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cache.Write(ctx, sourceA, csvA))

	f.controller.Reload(ctx, sourceA, "")
	assert.True(t, f.controller.State().IsFromCache)

	f.controller.Reload(ctx, sourceB, "")
	f.fetcher.Release(sourceB, csvB)
	_, err := f.controller.Await(ctx)
	require.NoError(t, err)

	f.fetcher.Release(sourceA, "question,answer,game_type\nlate,1,x\n")
	f.controller.Wait()

	final := f.controller.State()
	assert.Equal(t, sourceB, final.Identifier)
	assert.False(t, final.IsFromCache)
	assert.Equal(t, []string{"qb1"}, questions(final.Records))
}

// echoFetcher returns a one-row document naming the identifier it was asked for.
type echoFetcher struct{}

func (echoFetcher) Fetch(_ context.Context, id string) (string, error) {
	return "question,source\nq," + id + "\n", nil
}

func TestDataSource_StatesNeverMixInputs(t *testing.T) {
	controller := NewDataSourceController(NewDocumentCache(memory.NewKVStore()), echoFetcher{}, delimited.New())
	defer controller.Close()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		lastGen uint64
		mixed   []string
	)
	controller.Subscribe(func(s domain.LoadState) {
		mu.Lock()
		defer mu.Unlock()
		if s.Generation < lastGen {
			mixed = append(mixed, "generation went backwards")
		}
		lastGen = s.Generation
		for _, r := range s.Records {
			if r.Get("source") != s.Identifier {
				mixed = append(mixed, r.Get("source")+" labelled "+s.Identifier)
			}
		}
	})

	for i := 0; i < 500; i++ {
		if i%2 == 0 {
			controller.Reload(ctx, sourceA, "")
		} else {
			controller.Reload(ctx, sourceB, "")
		}
	}
	controller.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, mixed)
	assert.Equal(t, sourceB, controller.State().Identifier)
}

func TestDataSource_TabSeparatedSource(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()
	const source = "https://example.com/q.tsv"

	f.controller.Reload(ctx, source, "x")
	f.fetcher.Release(source, "question\tanswer\tgame_type\nq1\ta1\tx\nq2\ta2\ty\n")
	state, err := f.controller.Await(ctx)
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseReady, state.Phase)
	require.Equal(t, []string{"q1"}, questions(state.Records))
	assert.Equal(t, "a1", state.Records[0].Get("answer"))
	assert.Equal(t, "x", state.Records[0].GameType())
}

func TestDataSource_CategoryFilter(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	f.controller.Reload(ctx, sourceA, "x")
	f.fetcher.Release(sourceA, csvA)
	state, err := f.controller.Await(ctx)
	require.NoError(t, err)

	assert.Equal(t, "x", state.Category)
	assert.Equal(t, []string{"qa1", "qa3"}, questions(state.Records))
}

func TestDataSource_FilterChangeReloadsFromCache(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	f.controller.Reload(ctx, sourceA, "")
	f.fetcher.Release(sourceA, csvA)
	_, err := f.controller.Await(ctx)
	require.NoError(t, err)

	f.controller.Reload(ctx, sourceA, "y")

	state := f.controller.State()
	assert.True(t, state.IsFromCache)
	assert.Equal(t, "y", state.Category)
	assert.Equal(t, []string{"qa2"}, questions(state.Records))

	f.fetcher.Release(sourceA, csvA)
	f.controller.Wait()
	assert.Equal(t, []string{"qa2"}, questions(f.controller.State().Records))
}

func TestDataSource_UnchangedInputsAreNoop(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	f.controller.Reload(ctx, sourceA, "x")
	f.controller.Reload(ctx, sourceA, "x")
	f.fetcher.Release(sourceA, csvA)
	f.controller.Wait()

	assert.Equal(t, 1, f.fetcher.Calls(sourceA))
	first := f.recorder.States()[0].Generation

	f.controller.Reload(ctx, sourceA, "x")
	assert.Equal(t, first, f.controller.State().Generation, "no new generation for unchanged inputs")
}

func TestDataSource_RetryAfterError(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	f.controller.Reload(ctx, sourceA, "")
	f.fetcher.Fail(sourceA, errors.New("connection refused"))
	state, err := f.controller.Await(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.PhaseError, state.Phase)

	f.controller.Retry(ctx)
	assert.True(t, f.controller.State().IsLoading)
	assert.Empty(t, f.controller.State().Err)

	f.fetcher.Release(sourceA, csvA)
	state, err = f.controller.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseReady, state.Phase)
	assert.Len(t, state.Records, 3)
	assert.Equal(t, 2, f.fetcher.Calls(sourceA))
}

func TestDataSource_RetryRereadsCache(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	f.controller.Reload(ctx, sourceA, "")
	f.fetcher.Release(sourceA, csvA)
	_, err := f.controller.Await(ctx)
	require.NoError(t, err)

	f.controller.Retry(ctx)

	state := f.controller.State()
	assert.True(t, state.IsFromCache)
	assert.Len(t, state.Records, 3)

	f.fetcher.Release(sourceA, csvA)
	f.controller.Wait()
	assert.False(t, f.controller.State().IsFromCache)
}

func TestDataSource_ParseDegradationIsSilent(t *testing.T) {
	f := newControllerFixture(t)
	ctx := context.Background()

	f.controller.Reload(ctx, sourceA, "")
	f.fetcher.Release(sourceA, "question,answer\n")
	state, err := f.controller.Await(ctx)
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseReady, state.Phase)
	assert.Empty(t, state.Err)
	assert.NotNil(t, state.Records)
	assert.Empty(t, state.Records)
}

func TestDataSource_CacheWriteFailureIsSilent(t *testing.T) {
	cache := NewDocumentCache(memory.NewKVStoreWithQuota(8))
	fetcher := newGatedFetcher()
	controller := NewDataSourceController(cache, fetcher, delimited.New())
	defer controller.Close()
	ctx := context.Background()

	controller.Reload(ctx, sourceA, "")
	fetcher.Release(sourceA, csvA)
	state, err := controller.Await(ctx)
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseReady, state.Phase)
	assert.Len(t, state.Records, 3)
	_, ok := cache.Read(ctx, sourceA)
	assert.False(t, ok)
}

func TestDataSource_WithResilientFetcher(t *testing.T) {
	inner := &scriptedFetcher{responses: []fetchResponse{
		{err: errors.New("dial tcp: connection refused")},
	}}
	sleeper := &recordingSleeper{}
	fetcher := NewResilientFetcher(inner, WithSleeper(sleeper.Sleep))
	controller := NewDataSourceController(NewDocumentCache(memory.NewKVStore()), fetcher, delimited.New())
	defer controller.Close()
	ctx := context.Background()

	controller.Reload(ctx, sourceA, "")
	state, err := controller.Await(ctx)
	require.NoError(t, err)

	assert.Equal(t, domain.PhaseError, state.Phase)
	assert.Contains(t, state.Err, "after 3 attempts")
	assert.Contains(t, state.Err, "connection refused")
	assert.Equal(t, domain.FailureNetwork, domain.ClassifyFailure(state.Err))
	assert.Equal(t, 3, inner.Calls())
}

func TestDataSource_Unsubscribe(t *testing.T) {
	f := newControllerFixture(t)
	extra := &stateRecorder{}
	unsubscribe := f.controller.Subscribe(extra.record)

	f.controller.Reload(context.Background(), "", "")
	unsubscribe()
	f.controller.Reload(context.Background(), "", "x")

	assert.Len(t, extra.States(), 1)
	assert.Len(t, f.recorder.States(), 2)
}

func TestDataSource_AwaitHonoursContext(t *testing.T) {
	f := newControllerFixture(t)

	f.controller.Reload(context.Background(), sourceA, "")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	state, err := f.controller.Await(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, state.IsLoading)

	f.fetcher.Release(sourceA, csvA)
}

func TestDataSource_CloseDiscardsInFlight(t *testing.T) {
	store := memory.NewKVStore()
	fetcher := newGatedFetcher()
	fetcher.honourCtx = true
	controller := NewDataSourceController(NewDocumentCache(store), fetcher, delimited.New())
	ctx := context.Background()

	controller.Reload(ctx, sourceA, "")
	controller.Close()

	assert.True(t, controller.State().IsLoading, "the cancelled fetch is not applied")
	assert.Equal(t, 0, store.Len())

	controller.Reload(ctx, sourceB, "")
	controller.Retry(ctx)
	assert.Equal(t, 0, fetcher.Calls(sourceB))
}
