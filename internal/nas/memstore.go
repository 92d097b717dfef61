package nas

import (
	"context"
	"sync"
)

// MemoryTokenStore is a process-local TokenStore. Tokens do not
// survive a restart; every scope costs one grant per process lifetime.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]string)}
}

func (s *MemoryTokenStore) FetchToken(_ context.Context, scope string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tokens[scope], nil
}

func (s *MemoryTokenStore) StoreToken(_ context.Context, scope, token string) error {
	s.mu.Lock()
	s.tokens[scope] = token
	s.mu.Unlock()

	return nil
}

func (s *MemoryTokenStore) ClearToken(_ context.Context, scope string) error {
	s.mu.Lock()
	delete(s.tokens, scope)
	s.mu.Unlock()

	return nil
}
