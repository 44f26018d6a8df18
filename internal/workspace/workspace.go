package workspace

import (
	"context"
	"sync"
	"time"

	"enku-backoffice/internal/listing"
	"enku-backoffice/internal/session"
)

// Recorder receives every successful mutation made through a mounted
// controller, together with who made it.
type Recorder interface {
	Record(ctx context.Context, sessionID string, ident session.Identity, m listing.Mutation)
}

type closer interface {
	Close()
}

// Workspace is the set of controllers mounted for one browser session. A
// change of identity unmounts all of them, so nothing fetched for one user
// is ever shown to the next and late responses land on closed controllers.
type Workspace struct {
	store    *session.Store
	recorder Recorder
	unsub    func()

	mu       sync.Mutex
	mounted  map[string]closer
	values   map[string]any
	lastSeen time.Time
}

func newWorkspace(store *session.Store, rec Recorder) *Workspace {
	w := &Workspace{
		store:    store,
		recorder: rec,
		mounted:  map[string]closer{},
		values:   map[string]any{},
		lastSeen: time.Now(),
	}
	w.unsub = store.Subscribe(func(session.Change) { w.UnmountAll() })
	return w
}

func (w *Workspace) Store() *session.Store { return w.store }

// Mounted lists the keys of the live controllers.
func (w *Workspace) Mounted() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	keys := make([]string, 0, len(w.mounted))
	for k := range w.mounted {
		keys = append(keys, k)
	}
	return keys
}

// UnmountAll closes every controller and drops per-session values.
func (w *Workspace) UnmountAll() {
	w.mu.Lock()
	old := w.mounted
	w.mounted = map[string]closer{}
	w.values = map[string]any{}
	w.mu.Unlock()

	for _, ctl := range old {
		ctl.Close()
	}
}

func (w *Workspace) close() {
	w.unsub()
	w.UnmountAll()
}

func (w *Workspace) touch() {
	w.mu.Lock()
	w.lastSeen = time.Now()
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Record hands m to the recorder with the current identity. Controllers
// mounted through Mount call it on their own; other writes call it directly.
func (w *Workspace) Record(ctx context.Context, m listing.Mutation) {
	if w.recorder == nil {
		return
	}
	ident, _ := w.store.Current()
	w.recorder.Record(ctx, w.store.ID(), ident, m)
}

// Mount returns the controller registered under key, building it from def
// on first use. The definition's mutation hook is chained with the
// workspace recorder.
func Mount[T any, D any](w *Workspace, key string, def func() listing.Definition[T, D]) *listing.Controller[T, D] {
	w.mu.Lock()
	defer w.mu.Unlock()

	if existing, ok := w.mounted[key]; ok {
		if ctl, ok := existing.(*listing.Controller[T, D]); ok {
			return ctl
		}
		existing.Close()
	}

	d := def()
	own := d.OnMutation
	d.OnMutation = func(ctx context.Context, m listing.Mutation) {
		if own != nil {
			own(ctx, m)
		}
		w.Record(ctx, m)
	}
	ctl := listing.New(d)
	w.mounted[key] = ctl
	return ctl
}

// Value returns the per-session value under key, creating it with build.
// Values share the lifetime of the mounted controllers.
func Value[V any](w *Workspace, key string, build func() V) V {
	w.mu.Lock()
	defer w.mu.Unlock()
	if v, ok := w.values[key].(V); ok {
		return v
	}
	v := build()
	w.values[key] = v
	return v
}

// Lookup returns the controller under key if it is mounted.
func Lookup[T any, D any](w *Workspace, key string) (*listing.Controller[T, D], bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ctl, ok := w.mounted[key].(*listing.Controller[T, D])
	return ctl, ok
}
