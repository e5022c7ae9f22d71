package recipe

import (
	"context"
	"sync"
)

// Slot is a durable key-value boundary holding one serialized value per key.
// Get returns (nil, nil) when the key is absent.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Compile-time interface checks.
var (
	_ Slot = (*MemorySlot)(nil)
	_ Slot = (*SQLSlot)(nil)
	_ Slot = (*RedisSlot)(nil)
)

// MemorySlot keeps values in process memory. Safe for concurrent access.
type MemorySlot struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemorySlot creates an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (s *MemorySlot) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

// Put stores a copy of value under key.
func (s *MemorySlot) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	return nil
}
