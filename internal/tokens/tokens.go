// Package tokens holds the game master token for each game. The token is an
// opaque bearer credential minted and validated by the game service; this
// store only keeps it available for write calls.
package tokens

import (
	"context"
	"sync"
)

type Store interface {
	// Token returns the stored credential for a game and whether one exists.
	Token(ctx context.Context, gameID string) (string, bool, error)
	SetToken(ctx context.Context, gameID, token string) error
	ClearToken(ctx context.Context, gameID string) error
}

// MemStore is the in-process implementation, good for tests and
// single-instance deployments.
type MemStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{tokens: make(map[string]string)}
}

func (s *MemStore) Token(_ context.Context, gameID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[gameID]
	return token, ok, nil
}

func (s *MemStore) SetToken(_ context.Context, gameID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[gameID] = token
	return nil
}

func (s *MemStore) ClearToken(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, gameID)
	return nil
}
