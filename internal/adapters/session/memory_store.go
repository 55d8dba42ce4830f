// Package session stores the operator session issued by the record store.
package session

import (
	"context"
	"sync"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
)

// MemoryStore keeps the session for the lifetime of the process
type MemoryStore struct {
	mu   sync.RWMutex
	sess *entities.Session
}

// NewMemoryStore creates an empty in-process session store
func NewMemoryStore() providers.SessionStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*entities.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sess == nil {
		return nil, nil
	}
	cp := *s.sess
	return &cp, nil
}

func (s *MemoryStore) Save(ctx context.Context, sess *entities.Session) error {
	cp := *sess
	s.mu.Lock()
	s.sess = &cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.sess = nil
	s.mu.Unlock()
	return nil
}
