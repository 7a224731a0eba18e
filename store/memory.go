package store

import (
	"context"
	"slices"
	"sync"
)

// Memory is a Blob kept in memory, for tests and dry runs.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory returns a Memory blob holding data, nil means empty.
func NewMemory(data []byte) *Memory { return &Memory{data: slices.Clone(data)} }

func (m *Memory) Get(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNotFound
	}
	return slices.Clone(m.data), nil
}

func (m *Memory) Put(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = slices.Clone(data)
	return nil
}
