package memory

import (
	"context"
	"strings"
	"sync"

	"boostfeed/contexts/identity-access/caller-resolver/domain/entities"
)

type Store struct {
	mu      sync.RWMutex
	callers map[string]entities.Caller
}

func NewStore(seed []entities.Caller) *Store {
	callers := make(map[string]entities.Caller, len(seed))
	for _, caller := range seed {
		callers[caller.UserID] = caller
	}
	return &Store{callers: callers}
}

func (s *Store) SetCaller(caller entities.Caller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callers[strings.TrimSpace(caller.UserID)] = caller
}

func (s *Store) FindCaller(_ context.Context, credential string) (entities.Caller, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	caller, ok := s.callers[strings.TrimSpace(credential)]
	return caller, ok, nil
}
