package cartsync

import (
	"context"
	"sync"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
)

// MemoryStore is a LocalStore that lives only as long as the process.
type MemoryStore struct {
	mu    sync.Mutex
	lines []models.CartLine
}

func NewMemoryStore(lines ...models.CartLine) *MemoryStore {
	return &MemoryStore{lines: cloneLines(lines)}
}

func (m *MemoryStore) Load(_ context.Context) ([]models.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return cloneLines(m.lines), nil
}

func (m *MemoryStore) Save(_ context.Context, lines []models.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lines = cloneLines(lines)

	return nil
}

func (m *MemoryStore) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lines = nil

	return nil
}
