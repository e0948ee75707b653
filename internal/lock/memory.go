package lock

import (
	"context"
	"sync"
)

// memoryManager implementa Manager con un set en memoria.
// Útil para desarrollo/testing y despliegues de un solo proceso.
type memoryManager struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemory crea un Manager en memoria.
func NewMemory() *memoryManager {
	return &memoryManager{held: make(map[string]struct{})}
}

func (m *memoryManager) TryLock(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.held[name]; taken {
		return false, nil
	}
	m.held[name] = struct{}{}
	return true, nil
}

func (m *memoryManager) Unlock(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, name)
	return nil
}

func (m *memoryManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held = nil
	return nil
}
