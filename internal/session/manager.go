package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Manager owns the live stores, one per browser session.
type Manager struct {
	persist Persister

	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager(p Persister) *Manager {
	return &Manager{persist: p, stores: map[string]*Store{}}
}

// New starts a fresh, signed-out session.
func (m *Manager) New() *Store {
	s := NewStore(uuid.NewString(), m.persist)
	m.mu.Lock()
	m.stores[s.id] = s
	m.mu.Unlock()
	return s
}

// Open returns the live store for id, restoring a persisted identity when
// the store is not in memory (after a restart, or on another instance).
// Unknown ids yield a signed-out store so a stale cookie is harmless.
func (m *Manager) Open(ctx context.Context, id string) (*Store, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("session id %q: %w", id, err)
	}

	m.mu.Lock()
	if s, ok := m.stores[id]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	ident, found, err := m.persist.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// another request may have restored it meanwhile
	if s, ok := m.stores[id]; ok {
		return s, nil
	}
	s := NewStore(id, m.persist)
	if found {
		s.restore(ident)
	}
	m.stores[id] = s
	return s, nil
}

// Forget drops the in-memory store; the persisted identity is kept.
func (m *Manager) Forget(id string) {
	m.mu.Lock()
	delete(m.stores, id)
	m.mu.Unlock()
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
