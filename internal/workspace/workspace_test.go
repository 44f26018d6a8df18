package workspace

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"enku-backoffice/internal/auth"
	"enku-backoffice/internal/config"
	"enku-backoffice/internal/listing"
	"enku-backoffice/internal/session"

	"github.com/gofiber/fiber/v2"
)

type item struct{ ID int }

type itemDraft struct{ Name string }

type memAccessor struct {
	mu    sync.Mutex
	items []item
}

func (a *memAccessor) List(ctx context.Context) ([]item, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]item{}, a.items...), nil
}

func (a *memAccessor) Create(ctx context.Context, d itemDraft) (item, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	it := item{ID: len(a.items) + 1}
	a.items = append(a.items, it)
	return it, nil
}

func (a *memAccessor) Update(ctx context.Context, id int, d itemDraft) (item, error) {
	return item{ID: id}, nil
}

func (a *memAccessor) Remove(ctx context.Context, id int) error { return nil }

type recorded struct {
	sessionID string
	ident     session.Identity
	m         listing.Mutation
}

type fakeRecorder struct {
	mu   sync.Mutex
	logs []recorded
}

func (f *fakeRecorder) Record(ctx context.Context, sessionID string, ident session.Identity, m listing.Mutation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, recorded{sessionID, ident, m})
}

func itemDef(acc *memAccessor) func() listing.Definition[item, itemDraft] {
	return func() listing.Definition[item, itemDraft] {
		return listing.Definition[item, itemDraft]{
			Name:     "item",
			Accessor: acc,
			ID:       func(it item) int { return it.ID },
			Draft:    func(item) itemDraft { return itemDraft{} },
		}
	}
}

func signedIn(t *testing.T, id string) *session.Store {
	t.Helper()
	s := session.NewStore(id, session.NewMemoryPersister())
	if err := s.SignIn(context.Background(), session.Identity{UserID: 1, Username: "admin", IsAdmin: true}); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestMountIsLazyAndShared(t *testing.T) {
	reg := NewRegistry(nil)
	w := reg.For(signedIn(t, "s1"))
	acc := &memAccessor{}

	a := Mount(w, "items", itemDef(acc))
	b := Mount(w, "items", itemDef(acc))
	if a != b {
		t.Fatal("second mount built a new controller")
	}
	if got := w.Mounted(); len(got) != 1 || got[0] != "items" {
		t.Errorf("mounted = %v", got)
	}
}

func TestIdentityChangeUnmounts(t *testing.T) {
	reg := NewRegistry(nil)
	store := signedIn(t, "s1")
	w := reg.For(store)
	acc := &memAccessor{items: []item{{ID: 1}}}

	old := Mount(w, "items", itemDef(acc))
	if err := old.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := store.SignOut(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(w.Mounted()) != 0 {
		t.Fatalf("still mounted after sign out: %v", w.Mounted())
	}
	if err := old.Load(context.Background()); !errors.Is(err, listing.ErrClosed) {
		t.Errorf("old controller load = %v, want ErrClosed", err)
	}

	fresh := Mount(w, "items", itemDef(acc))
	if fresh == old {
		t.Error("remount returned the closed controller")
	}
}

func TestMutationsAreRecordedWithIdentity(t *testing.T) {
	rec := &fakeRecorder{}
	reg := NewRegistry(rec)
	w := reg.For(signedIn(t, "s1"))

	ctl := Mount(w, "items", itemDef(&memAccessor{}))
	ctl.SetDraft(itemDraft{Name: "x"})
	if err := ctl.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(rec.logs) != 1 {
		t.Fatalf("recorded %d mutations", len(rec.logs))
	}
	got := rec.logs[0]
	if got.sessionID != "s1" || got.ident.Username != "admin" {
		t.Errorf("recorded actor = %s %+v", got.sessionID, got.ident)
	}
	if got.m.Action != listing.ActionCreate || got.m.ID != 1 || got.m.Resource != "item" {
		t.Errorf("mutation = %+v", got.m)
	}
}

func TestSweepDropsIdleWorkspaces(t *testing.T) {
	reg := NewRegistry(nil)
	w := reg.For(signedIn(t, "s1"))
	ctl := Mount(w, "items", itemDef(&memAccessor{}))
	reg.For(signedIn(t, "s2"))

	if n := reg.Sweep(time.Hour); n != 0 {
		t.Fatalf("swept %d fresh workspaces", n)
	}
	time.Sleep(5 * time.Millisecond)
	if n := reg.Sweep(time.Millisecond); n != 2 {
		t.Fatalf("swept %d, want 2", n)
	}
	if reg.Len() != 0 {
		t.Errorf("len = %d", reg.Len())
	}
	if err := ctl.Load(context.Background()); !errors.Is(err, listing.ErrClosed) {
		t.Errorf("swept controller still open: %v", err)
	}
}

func TestSweepReleasesSessionStores(t *testing.T) {
	mgr := session.NewManager(session.NewMemoryPersister())
	reg := NewRegistry(nil).Release(mgr.Forget)
	cfg := &config.Config{JWTSecret: "0123456789abcdef0123456789abcdef"}

	app := fiber.New()
	app.Use(auth.SessionMiddleware(cfg, mgr), Middleware(reg))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	// cookieless callers, unknown routes included
	for i := 0; i < 20; i++ {
		target := "/ping"
		if i%2 == 1 {
			target = "/nowhere"
		}
		if _, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil)); err != nil {
			t.Fatal(err)
		}
	}
	if mgr.Len() != 20 || reg.Len() != 20 {
		t.Fatalf("stores = %d, workspaces = %d", mgr.Len(), reg.Len())
	}

	time.Sleep(5 * time.Millisecond)
	kept := mgr.New()
	reg.For(kept)
	if n := reg.Sweep(time.Millisecond); n != 20 {
		t.Fatalf("swept %d, want 20", n)
	}
	if mgr.Len() != 1 {
		t.Errorf("live stores after sweep = %d, want 1", mgr.Len())
	}
	if s, err := mgr.Open(context.Background(), kept.ID()); err != nil || s != kept {
		t.Errorf("active store replaced: %v", err)
	}
}

func TestProvideNeedsMiddleware(t *testing.T) {
	app := fiber.New()
	listing.Mount(app.Group("/items"), Provide("items", itemDef(&memAccessor{})))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestProvideMountsPerSession(t *testing.T) {
	reg := NewRegistry(nil)
	stores := map[string]*session.Store{"a": signedIn(t, "a"), "b": signedIn(t, "b")}
	acc := &memAccessor{items: []item{{ID: 1}, {ID: 2}}}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(CtxWorkspaceKey, reg.For(stores[c.Get("X-Session")]))
		return c.Next()
	})
	listing.Mount(app.Group("/items"), Provide("items", itemDef(acc)))

	for _, sid := range []string{"a", "b", "a"} {
		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		req.Header.Set("X-Session", sid)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("session %s status = %d", sid, resp.StatusCode)
		}
	}
	if reg.Len() != 2 {
		t.Errorf("workspaces = %d", reg.Len())
	}
	for sid, s := range stores {
		if n := len(reg.For(s).Mounted()); n != 1 {
			t.Errorf("session %s mounted %d controllers", sid, n)
		}
	}
}
