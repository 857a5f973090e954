package storage

import (
	"context"
	"sync"

	"github.com/fjod/go_cart/cart-store/internal/domain"
)

// MemoryStorage keeps the encoded cart in process. Useful for tests and
// throwaway sessions; it goes through the same codec as the real backends.
type MemoryStorage struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(context.Context) (domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return nil, ErrNotFound
	}
	return Decode(m.data)
}

func (m *MemoryStorage) Save(_ context.Context, cart domain.Cart) error {
	data, err := Encode(cart)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

// SetRaw replaces the stored payload as-is.
func (m *MemoryStorage) SetRaw(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}
