package testutil

import (
	"context"
	"sync"

	"songlake/internal/domain"
)

var (
	_ domain.Source = (*MockSource)(nil)
	_ domain.Sink   = (*MockSink)(nil)
)

// MockSource implements domain.Source for testing.
type MockSource struct {
	LoadFn   func(ctx context.Context, relation string) error
	Loc      string
	Relation string // last relation passed to Load
}

// Load implements the interface method for testing.
func (m *MockSource) Load(ctx context.Context, relation string) error {
	m.Relation = relation
	if m.LoadFn != nil {
		return m.LoadFn(ctx, relation)
	}
	return nil
}

// Location implements the interface method for testing.
func (m *MockSource) Location() string {
	return m.Loc
}

// MockSink implements domain.Sink for testing. It is safe for concurrent use.
type MockSink struct {
	WriteFn func(ctx context.Context, spec domain.TableSpec) (*domain.TableResult, error)

	mu      sync.Mutex
	Written []string // table names in write order
}

// Write implements the interface method for testing.
func (m *MockSink) Write(ctx context.Context, spec domain.TableSpec) (*domain.TableResult, error) {
	m.mu.Lock()
	m.Written = append(m.Written, spec.Name)
	m.mu.Unlock()
	if m.WriteFn != nil {
		return m.WriteFn(ctx, spec)
	}
	return &domain.TableResult{Name: spec.Name, PartitionBy: spec.PartitionBy}, nil
}

// Names returns a copy of the written table names.
func (m *MockSink) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Written...)
}
