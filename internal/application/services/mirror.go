package services

import (
	"context"
	"sync"
	"time"
)

// MirrorState describes the last load of a list mirror
type MirrorState string

const (
	MirrorIdle    MirrorState = "idle"
	MirrorLoading MirrorState = "loading"
	MirrorReady   MirrorState = "ready"
	MirrorError   MirrorState = "error"
)

// Mirror is the in-memory copy of one store collection. It is only ever
// replaced by a full refetch, never patched locally. A failed fetch keeps
// the previous items and moves the mirror to the error state.
//
// Overlapping refreshes are applied in the order they were issued: a fetch
// that completes after a later one has already been applied is discarded.
type Mirror[T any] struct {
	mu        sync.RWMutex
	fetch     func(ctx context.Context) ([]T, error)
	arrange   func([]T)
	items     []T
	state     MirrorState
	err       error
	updatedAt time.Time
	issued    uint64
	applied   uint64
}

// NewMirror creates an empty mirror. arrange, when set, reorders a freshly
// fetched list in place.
func NewMirror[T any](fetch func(ctx context.Context) ([]T, error), arrange func([]T)) *Mirror[T] {
	return &Mirror[T]{fetch: fetch, arrange: arrange, state: MirrorIdle}
}

// Refresh refetches the whole collection. The fetch error is returned even
// when a newer refresh has superseded it.
func (m *Mirror[T]) Refresh(ctx context.Context) error {
	m.mu.Lock()
	m.issued++
	gen := m.issued
	m.state = MirrorLoading
	m.mu.Unlock()

	items, err := m.fetch(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen < m.applied {
		return err
	}
	m.applied = gen
	if err != nil {
		m.state = MirrorError
		m.err = err
		return err
	}
	if m.arrange != nil {
		m.arrange(items)
	}
	m.items = items
	m.state = MirrorReady
	m.err = nil
	m.updatedAt = time.Now()
	return nil
}

// Items returns a copy of the mirrored list
func (m *Mirror[T]) Items() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]T(nil), m.items...)
}

// Len returns the number of mirrored items
func (m *Mirror[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Find returns the first item matching pred
func (m *Mirror[T]) Find(pred func(T) bool) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, it := range m.items {
		if pred(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// State returns the state of the last load and its error, if any
func (m *Mirror[T]) State() (MirrorState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state, m.err
}

// UpdatedAt returns when the mirror last loaded successfully
func (m *Mirror[T]) UpdatedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.updatedAt
}
