package tui

import (
	"context"
	"sync"

	"github.com/custodia-labs/quizdeck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quizdeck/internal/core/domain"
	"github.com/custodia-labs/quizdeck/internal/core/services"
)

// reloadCall records one Reload invocation.
type reloadCall struct {
	identifier string
	category   string
}

// MockDataSource implements driving.DataSource for testing.
type MockDataSource struct {
	mu          sync.Mutex
	state       domain.LoadState
	subscribers map[int]func(domain.LoadState)
	nextID      int
	reloads     []reloadCall
	retries     int
	closed      bool
}

func newMockDataSource() *MockDataSource {
	return &MockDataSource{subscribers: make(map[int]func(domain.LoadState))}
}

func (m *MockDataSource) Reload(_ context.Context, identifier, category string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reloads = append(m.reloads, reloadCall{identifier, category})
}

func (m *MockDataSource) Retry(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retries++
}

func (m *MockDataSource) State() domain.LoadState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *MockDataSource) Subscribe(fn func(domain.LoadState)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subscribers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subscribers, id)
	}
}

func (m *MockDataSource) Await(context.Context) (domain.LoadState, error) {
	return m.State(), nil
}

func (m *MockDataSource) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// emit installs state and notifies subscribers.
func (m *MockDataSource) emit(state domain.LoadState) {
	m.mu.Lock()
	m.state = state
	fns := make([]func(domain.LoadState), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

func (m *MockDataSource) subscriberCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers)
}

func (m *MockDataSource) reloadCalls() []reloadCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]reloadCall(nil), m.reloads...)
}

func (m *MockDataSource) retryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.retries
}

// newSettings returns a settings service over an in-memory store.
func newSettings(values map[string]any) *services.SettingsService {
	return services.NewSettingsService(memory.NewConfigStore(values))
}
