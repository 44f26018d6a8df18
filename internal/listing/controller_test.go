package listing

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
)

type entry struct {
	ID          int
	Date        string
	Description string
	Amount      int
}

type entryDraft struct {
	Date        string
	Description string
	Amount      int
}

// fakeStore is an in-memory upstream that assigns ids like a server would.
type fakeStore struct {
	mu      sync.Mutex
	items   []entry
	nextID  int
	calls   []string
	failOn  map[string]error
	getByID bool
}

func newFakeStore(items ...entry) *fakeStore {
	s := &fakeStore{nextID: 1, failOn: map[string]error{}}
	for _, it := range items {
		s.items = append(s.items, it)
		if it.ID >= s.nextID {
			s.nextID = it.ID + 1
		}
	}
	return s
}

func (s *fakeStore) record(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, op)
	return s.failOn[op]
}

func (s *fakeStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *fakeStore) List(ctx context.Context) ([]entry, error) {
	if err := s.record("list"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entry, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *fakeStore) Create(ctx context.Context, d entryDraft) (entry, error) {
	if err := s.record("create"); err != nil {
		return entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := entry{ID: s.nextID, Date: d.Date, Description: d.Description, Amount: d.Amount}
	s.nextID++
	s.items = append(s.items, e)
	return e, nil
}

func (s *fakeStore) Update(ctx context.Context, id int, d entryDraft) (entry, error) {
	if err := s.record("update"); err != nil {
		return entry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = entry{ID: id, Date: d.Date, Description: d.Description, Amount: d.Amount}
			return s.items[i], nil
		}
	}
	return entry{}, ErrNotFound
}

func (s *fakeStore) Remove(ctx context.Context, id int) error {
	if err := s.record("remove"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func entries(n int) []entry {
	out := make([]entry, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, entry{ID: i, Date: fmt.Sprintf("2025-01-%02d", i), Description: fmt.Sprintf("item %d", i), Amount: i * 10})
	}
	return out
}

func newController(store *fakeStore, perPage int) *Controller[entry, entryDraft] {
	return New(Definition[entry, entryDraft]{
		Name:     "cash flow",
		PerPage:  perPage,
		Accessor: store,
		ID:       func(e entry) int { return e.ID },
		Draft: func(e entry) entryDraft {
			return entryDraft{Date: e.Date, Description: e.Description, Amount: e.Amount}
		},
		Validate: func(d entryDraft) error {
			if d.Date == "" || d.Description == "" || d.Amount == 0 {
				return Invalid("amount", "All fields are required with valid values!")
			}
			return nil
		},
		Search: func(e entry) []string { return []string{e.Description, e.Date} },
		Summarize: func(items []entry) any {
			total := 0
			for _, it := range items {
				total += it.Amount
			}
			return total
		},
	})
}

func loaded(t *testing.T, store *fakeStore, perPage int) *Controller[entry, entryDraft] {
	t.Helper()
	ctl := newController(store, perPage)
	if err := ctl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return ctl
}

func TestFilterIsCaseInsensitiveSubset(t *testing.T) {
	store := newFakeStore(
		entry{ID: 1, Date: "2025-01-01", Description: "Rent payment"},
		entry{ID: 2, Date: "2025-02-01", Description: "Coffee beans"},
		entry{ID: 3, Date: "2025-02-15", Description: "RENT deposit"},
	)
	ctl := loaded(t, store, 3)

	for _, tc := range []struct {
		term string
		want []int
	}{
		{"", []int{1, 2, 3}},
		{"rent", []int{1, 3}},
		{"ReNt", []int{1, 3}},
		{"2025-02", []int{2, 3}},
		{"nothing", []int{}},
		{"beans ", []int{}},
		{" deposit", []int{3}},
		{"rent ", []int{1, 3}},
	} {
		ctl.SetSearch(tc.term)
		got := []int{}
		for _, e := range ctl.Visible() {
			got = append(got, e.ID)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("search %q = %v, want %v", tc.term, got, tc.want)
		}
	}
}

func TestSearchResetsPage(t *testing.T) {
	ctl := loaded(t, newFakeStore(entries(10)...), 3)
	if err := ctl.SetPage(3); err != nil {
		t.Fatalf("set page: %v", err)
	}
	ctl.SetSearch("item")
	if v := ctl.View(); v.Page != 1 {
		t.Fatalf("page after search = %d, want 1", v.Page)
	}
}

func TestPagesConcatenateToVisible(t *testing.T) {
	for _, n := range []int{0, 1, 3, 7, 9} {
		ctl := loaded(t, newFakeStore(entries(n)...), 3)
		v := ctl.View()
		if v.TotalPages != TotalPages(n, 3) {
			t.Fatalf("n=%d total pages = %d", n, v.TotalPages)
		}

		var all []entry
		for p := 1; p <= v.TotalPages; p++ {
			if err := ctl.SetPage(p); err != nil {
				t.Fatalf("n=%d set page %d: %v", n, p, err)
			}
			page := ctl.View().Items
			if len(page) > 3 {
				t.Fatalf("n=%d page %d has %d items", n, p, len(page))
			}
			all = append(all, page...)
		}
		if len(all) != n {
			t.Fatalf("n=%d concatenated %d items", n, len(all))
		}
		if n > 0 && !reflect.DeepEqual(all, ctl.Visible()) {
			t.Fatalf("n=%d pages do not concatenate to the visible list", n)
		}
	}
}

func TestSetPageRejectsOutOfRange(t *testing.T) {
	ctl := loaded(t, newFakeStore(entries(5)...), 3)

	for _, p := range []int{0, -1, 3} {
		if err := ctl.SetPage(p); !errors.Is(err, ErrPageOutOfRange) {
			t.Errorf("SetPage(%d) = %v, want ErrPageOutOfRange", p, err)
		}
	}
	v := ctl.View()
	if v.Page != 1 || v.HasPrev || !v.HasNext {
		t.Errorf("view = page %d prev %v next %v", v.Page, v.HasPrev, v.HasNext)
	}

	if err := ctl.SetPage(2); err != nil {
		t.Fatal(err)
	}
	v = ctl.View()
	if !v.HasPrev || v.HasNext {
		t.Errorf("last page: prev %v next %v", v.HasPrev, v.HasNext)
	}
}

func TestLoadFailureKeepsItems(t *testing.T) {
	store := newFakeStore(entries(2)...)
	ctl := loaded(t, store, 3)

	store.failOn["list"] = errors.New("connection refused")
	if err := ctl.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	v := ctl.View()
	if v.TotalCount != 2 {
		t.Errorf("items = %d, want last good 2", v.TotalCount)
	}
	if v.Error == "" || v.Loading {
		t.Errorf("error = %q loading = %v", v.Error, v.Loading)
	}
	if len(v.Notices) != 1 || v.Notices[0].Level != NoticeError {
		t.Errorf("notices = %+v", v.Notices)
	}
	if again := ctl.View(); len(again.Notices) != 0 {
		t.Errorf("notices were not drained: %+v", again.Notices)
	}
}

func TestCreateLandsOnNewItemPage(t *testing.T) {
	store := newFakeStore(entries(6)...)
	ctl := loaded(t, store, 3)

	ctl.NewDraft()
	draft := entryDraft{Date: "2025-03-01", Description: "new", Amount: -15}
	ctl.SetDraft(draft)
	if err := ctl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	v := ctl.View()
	if v.Page != 3 {
		t.Fatalf("page = %d, want 3", v.Page)
	}
	if len(v.Items) != 1 {
		t.Fatalf("page items = %+v", v.Items)
	}
	got := v.Items[0]
	if got.Date != draft.Date || got.Description != draft.Description || got.Amount != draft.Amount {
		t.Errorf("created = %+v, want fields of %+v", got, draft)
	}
	if v.FormOpen || v.EditingID != nil || v.Draft != (entryDraft{}) {
		t.Errorf("form not reset: %+v", v)
	}
	if len(v.Notices) != 1 || v.Notices[0].Message != "Cash flow added successfully!" {
		t.Errorf("notices = %+v", v.Notices)
	}
}

func TestValidationFailureMakesNoCall(t *testing.T) {
	store := newFakeStore(entries(1)...)
	ctl := loaded(t, store, 3)
	before := store.callCount()

	ctl.SetDraft(entryDraft{Date: "2025-01-01", Description: "zero", Amount: 0})
	err := ctl.Submit(context.Background())
	if !IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if store.callCount() != before {
		t.Errorf("validation failure reached the store: %v", store.calls)
	}
	if v := ctl.View(); len(v.Notices) != 1 || v.Notices[0].Level != NoticeError {
		t.Errorf("notices = %+v", v.Notices)
	}
}

func TestEditAndUpdate(t *testing.T) {
	store := newFakeStore(entries(4)...)
	ctl := loaded(t, store, 3)
	if err := ctl.SetPage(2); err != nil {
		t.Fatal(err)
	}

	if err := ctl.Edit(context.Background(), 2); err != nil {
		t.Fatalf("edit: %v", err)
	}
	v := ctl.View()
	if v.EditingID == nil || *v.EditingID != 2 || !v.FormOpen {
		t.Fatalf("edit state = %+v", v)
	}
	if v.Draft.Description != "item 2" {
		t.Fatalf("draft = %+v", v.Draft)
	}

	d := v.Draft
	d.Description = "changed"
	ctl.SetDraft(d)
	if err := ctl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	v = ctl.View()
	if v.Page != 2 {
		t.Errorf("update moved page to %d", v.Page)
	}
	if store.calls[len(store.calls)-2] != "update" {
		t.Errorf("calls = %v", store.calls)
	}
	if ctl.Items()[1].Description != "changed" {
		t.Errorf("items = %+v", ctl.Items())
	}
}

func TestEditMissingRecord(t *testing.T) {
	ctl := loaded(t, newFakeStore(entries(1)...), 3)
	if err := ctl.Edit(context.Background(), 99); !IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	if v := ctl.View(); v.FormOpen || v.EditingID != nil {
		t.Errorf("form opened for a missing record")
	}
}

func TestDeleteLastItemOnLastPage(t *testing.T) {
	store := newFakeStore(entries(7)...)
	ctl := loaded(t, store, 3)
	if err := ctl.SetPage(3); err != nil {
		t.Fatal(err)
	}

	if err := ctl.RequestDelete(7); err != nil {
		t.Fatal(err)
	}
	v := ctl.View()
	if v.DeleteState != DeleteConfirmPending || v.PendingDelete == nil || *v.PendingDelete != 7 {
		t.Fatalf("delete state = %s %v", v.DeleteState, v.PendingDelete)
	}

	if err := ctl.ConfirmDelete(context.Background()); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	v = ctl.View()
	if v.Page != 2 {
		t.Errorf("page = %d, want 2", v.Page)
	}
	if v.DeleteState != DeleteIdle || v.PendingDelete != nil {
		t.Errorf("delete state = %s", v.DeleteState)
	}
	if v.TotalCount != 6 {
		t.Errorf("items = %d", v.TotalCount)
	}
}

func TestDeleteOnlyItemKeepsPageOne(t *testing.T) {
	ctl := loaded(t, newFakeStore(entries(1)...), 3)
	if err := ctl.RequestDelete(1); err != nil {
		t.Fatal(err)
	}
	if err := ctl.ConfirmDelete(context.Background()); err != nil {
		t.Fatal(err)
	}
	if v := ctl.View(); v.Page != 1 || v.TotalPages != 0 {
		t.Errorf("page = %d total = %d", v.Page, v.TotalPages)
	}
}

func TestCancelDeleteMakesNoCall(t *testing.T) {
	store := newFakeStore(entries(2)...)
	ctl := loaded(t, store, 3)
	before := store.callCount()

	if err := ctl.RequestDelete(1); err != nil {
		t.Fatal(err)
	}
	if err := ctl.CancelDelete(); err != nil {
		t.Fatal(err)
	}
	if store.callCount() != before {
		t.Errorf("cancel reached the store: %v", store.calls)
	}
	if err := ctl.ConfirmDelete(context.Background()); !errors.Is(err, ErrNoPendingDelete) {
		t.Errorf("confirm after cancel = %v", err)
	}
	if err := ctl.CancelDelete(); !errors.Is(err, ErrNoPendingDelete) {
		t.Errorf("second cancel = %v", err)
	}
}

func TestFailedDeleteKeepsItems(t *testing.T) {
	store := newFakeStore(entries(3)...)
	ctl := loaded(t, store, 3)
	store.failOn["remove"] = errors.New("boom")

	if err := ctl.RequestDelete(2); err != nil {
		t.Fatal(err)
	}
	if err := ctl.ConfirmDelete(context.Background()); err == nil {
		t.Fatal("expected delete failure")
	}
	v := ctl.View()
	if v.TotalCount != 3 || v.DeleteState != DeleteIdle {
		t.Errorf("count = %d state = %s", v.TotalCount, v.DeleteState)
	}
	if len(v.Notices) != 1 || !strings.Contains(v.Notices[0].Message, "Failed to delete cash flow: boom") {
		t.Errorf("notices = %+v", v.Notices)
	}
}

func TestSummaryIgnoresFilterAndPage(t *testing.T) {
	ctl := loaded(t, newFakeStore(entries(5)...), 2)
	ctl.SetSearch("item 1")
	if v := ctl.View(); v.Summary != 150 {
		t.Errorf("summary = %v, want 150 over the whole collection", v.Summary)
	}
}

func TestClosedControllerDropsResponses(t *testing.T) {
	store := newFakeStore(entries(2)...)
	ctl := newController(store, 3)
	ctl.Close()

	if err := ctl.Load(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("load after close = %v", err)
	}
	if store.callCount() != 0 {
		t.Errorf("closed controller hit the network")
	}
	if err := ctl.RequestDelete(1); !errors.Is(err, ErrClosed) {
		t.Errorf("request delete after close = %v", err)
	}
}

// blockingStore lets a test hold a List call in flight.
type blockingStore struct {
	*fakeStore
	release chan struct{}
	entered chan struct{}
}

func (b *blockingStore) List(ctx context.Context) ([]entry, error) {
	b.entered <- struct{}{}
	<-b.release
	return b.fakeStore.List(ctx)
}

func TestUnmountDuringLoad(t *testing.T) {
	b := &blockingStore{fakeStore: newFakeStore(entries(2)...), release: make(chan struct{}), entered: make(chan struct{})}
	ctl := New(Definition[entry, entryDraft]{Name: "entry", PerPage: 3, Accessor: b, ID: func(e entry) int { return e.ID }})

	done := make(chan error)
	go func() { done <- ctl.Load(context.Background()) }()
	<-b.entered
	ctl.Close()
	close(b.release)

	if err := <-done; !errors.Is(err, ErrClosed) {
		t.Fatalf("load = %v, want ErrClosed", err)
	}
	if n := len(ctl.Items()); n != 0 {
		t.Errorf("closed controller applied %d items", n)
	}
}

func TestEnsureLoadedOnce(t *testing.T) {
	store := newFakeStore(entries(2)...)
	ctl := newController(store, 3)
	for i := 0; i < 3; i++ {
		if err := ctl.EnsureLoaded(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if store.callCount() != 1 {
		t.Errorf("list called %d times", store.callCount())
	}
}

func TestDeleteMachine(t *testing.T) {
	var m deleteMachine
	if m.current() != DeleteIdle {
		t.Fatalf("initial = %s", m.current())
	}
	if _, err := m.begin(); !errors.Is(err, ErrNoPendingDelete) {
		t.Fatalf("begin from idle = %v", err)
	}
	_ = m.request(1)
	_ = m.request(2) // retarget while pending
	id, err := m.begin()
	if err != nil || id != 2 {
		t.Fatalf("begin = %d, %v", id, err)
	}
	if err := m.request(3); !errors.Is(err, ErrDeleteInProgress) {
		t.Fatalf("request while deleting = %v", err)
	}
	if err := m.cancel(); !errors.Is(err, ErrDeleteInProgress) {
		t.Fatalf("cancel while deleting = %v", err)
	}
	m.finish()
	if m.current() != DeleteIdle || m.pending() != nil {
		t.Fatalf("after finish = %s", m.current())
	}
}
