package session

import (
	"context"
	"errors"
	"sync"
)

// Identity is what a successful login establishes.
type Identity struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	IsAdmin  bool   `json:"is_admin"`
}

// Change is delivered to subscribers after every sign in or sign out.
type Change struct {
	SessionID string    `json:"session_id"`
	SignedIn  bool      `json:"signed_in"`
	Identity  *Identity `json:"identity"`
}

type Listener func(Change)

// Persister is the durable side of a store.
type Persister interface {
	Save(ctx context.Context, id string, ident Identity) error
	Load(ctx context.Context, id string) (Identity, bool, error)
	Delete(ctx context.Context, id string) error
}

var ErrNotSignedIn = errors.New("session: not signed in")

// Store holds the identity of one browser session. Readers subscribe
// instead of polling; every successful SignIn or SignOut is persisted first
// and then delivered to each subscriber exactly once.
type Store struct {
	id      string
	persist Persister

	writeMu sync.Mutex // serializes SignIn/SignOut

	mu      sync.Mutex
	current *Identity
	subs    map[uint64]Listener
	nextSub uint64
}

func NewStore(id string, p Persister) *Store {
	return &Store{id: id, persist: p, subs: map[uint64]Listener{}}
}

func (s *Store) ID() string { return s.id }

// Current returns the signed-in identity, if any.
func (s *Store) Current() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Identity{}, false
	}
	return *s.current, true
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	s.nextSub++
	key := s.nextSub
	s.subs[key] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, key)
			s.mu.Unlock()
		})
	}
}

// SignIn persists ident and then notifies subscribers. When persisting fails
// the previous identity stays in place and nobody is notified.
func (s *Store) SignIn(ctx context.Context, ident Identity) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.persist.Save(ctx, s.id, ident); err != nil {
		return err
	}

	s.mu.Lock()
	cp := ident
	s.current = &cp
	s.mu.Unlock()

	s.notify(Change{SessionID: s.id, SignedIn: true, Identity: &ident})
	return nil
}

// SignOut clears the persisted identity and notifies subscribers.
func (s *Store) SignOut(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	signedIn := s.current != nil
	s.mu.Unlock()
	if !signedIn {
		return ErrNotSignedIn
	}

	if err := s.persist.Delete(ctx, s.id); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	s.notify(Change{SessionID: s.id, SignedIn: false})
	return nil
}

// restore sets the identity loaded from the persister without notifying.
func (s *Store) restore(ident Identity) {
	s.mu.Lock()
	s.current = &ident
	s.mu.Unlock()
}

func (s *Store) notify(ch Change) {
	s.mu.Lock()
	fns := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ch)
	}
}
