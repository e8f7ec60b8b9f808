package storage

import (
	"context"
	"sync"
)

// Memory is a process-local KV used by tests and the "memory" storage type.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailWrites makes Set return the error, for exercising persistence failures.
	FailWrites error
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Set(_ context.Context, entries map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	for k, v := range entries {
		buf := make([]byte, len(v))
		copy(buf, v)
		m.data[k] = buf
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }
