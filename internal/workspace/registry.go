package workspace

import (
	"sync"
	"time"

	"enku-backoffice/internal/auth"
	"enku-backoffice/internal/listing"
	"enku-backoffice/internal/session"

	"github.com/gofiber/fiber/v2"
)

const CtxWorkspaceKey = "workspace"

// Registry keeps one workspace per session id.
type Registry struct {
	recorder Recorder
	release  func(sessionID string)

	mu     sync.Mutex
	spaces map[string]*Workspace
}

func NewRegistry(rec Recorder) *Registry {
	return &Registry{recorder: rec, spaces: map[string]*Workspace{}}
}

// Release makes Sweep hand the id of every swept session to fn, so the
// session store can be dropped too (session.Manager.Forget).
func (r *Registry) Release(fn func(sessionID string)) *Registry {
	r.release = fn
	return r
}

// For returns the workspace of store, creating it on first use.
func (r *Registry) For(store *session.Store) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.spaces[store.ID()]
	if !ok || w.store != store {
		if ok {
			w.close()
		}
		w = newWorkspace(store, r.recorder)
		r.spaces[store.ID()] = w
	}
	w.touch()
	return w
}

// Sweep closes workspaces unused for longer than maxIdle and returns how
// many were dropped.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	r.mu.Lock()
	var stale []*Workspace
	for id, w := range r.spaces {
		if w.idleSince().Before(cutoff) {
			stale = append(stale, w)
			delete(r.spaces, id)
		}
	}
	r.mu.Unlock()

	for _, w := range stale {
		w.close()
		if r.release != nil {
			r.release(w.store.ID())
		}
	}
	return len(stale)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spaces)
}

// Close unmounts everything; used on shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	spaces := r.spaces
	r.spaces = map[string]*Workspace{}
	r.mu.Unlock()
	for _, w := range spaces {
		w.close()
	}
}

// Middleware attaches the caller's workspace. It must run after
// auth.SessionMiddleware.
func Middleware(r *Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := auth.StoreFrom(c)
		if err != nil {
			return err
		}
		c.Locals(CtxWorkspaceKey, r.For(s))
		return c.Next()
	}
}

func FromCtx(c *fiber.Ctx) (*Workspace, error) {
	w, ok := c.Locals(CtxWorkspaceKey).(*Workspace)
	if !ok || w == nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Workspace missing")
	}
	return w, nil
}

// Provide adapts a definition into a listing.Provider that mounts the
// controller in the caller's workspace.
func Provide[T any, D any](key string, def func() listing.Definition[T, D]) listing.Provider[T, D] {
	return func(c *fiber.Ctx) (*listing.Controller[T, D], error) {
		w, err := FromCtx(c)
		if err != nil {
			return nil, err
		}
		return Mount(w, key, def), nil
	}
}
