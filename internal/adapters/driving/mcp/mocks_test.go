package mcp

import (
	"context"
	"sync"

	"github.com/custodia-labs/quizdeck/internal/core/domain"
	"github.com/custodia-labs/quizdeck/internal/core/ports/driving"
)

// mockDataSource settles immediately on the next scripted state.
type mockDataSource struct {
	mu      sync.Mutex
	states  []domain.LoadState
	state   domain.LoadState
	reloads int
	retries int
}

var _ driving.DataSource = (*mockDataSource)(nil)

func (m *mockDataSource) next(identifier, category string) {
	if len(m.states) > 0 {
		m.state = m.states[0]
		m.states = m.states[1:]
	}
	m.state.Identifier = identifier
	m.state.Category = category
}

func (m *mockDataSource) Reload(_ context.Context, identifier, category string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reloads++
	m.next(identifier, category)
}

func (m *mockDataSource) Retry(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retries++
	m.next(m.state.Identifier, m.state.Category)
}

func (m *mockDataSource) State() domain.LoadState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *mockDataSource) Await(context.Context) (domain.LoadState, error) {
	return m.State(), nil
}

func (m *mockDataSource) Subscribe(func(domain.LoadState)) func() { return func() {} }

func (m *mockDataSource) Close() {}

// blockingDataSource never settles.
type blockingDataSource struct {
	mockDataSource
}

func (b *blockingDataSource) Await(ctx context.Context) (domain.LoadState, error) {
	<-ctx.Done()
	return domain.LoadState{IsLoading: true}, ctx.Err()
}

func ready(records ...domain.Record) domain.LoadState {
	return domain.LoadState{Phase: domain.PhaseReady, Records: domain.RecordSet(records)}
}

func question(q, gameType, difficulty string) domain.Record {
	return domain.RecordOf("question", q, "game_type", gameType, "difficulty", difficulty)
}
