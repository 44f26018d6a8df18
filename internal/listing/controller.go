package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Accessor is the remote side of a list: one REST resource.
type Accessor[T any, D any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, d D) (T, error)
	Update(ctx context.Context, id int, d D) (T, error)
	Remove(ctx context.Context, id int) error
}

// Getter is implemented by accessors that can fetch a single record.
type Getter[T any] interface {
	Get(ctx context.Context, id int) (T, error)
}

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Mutation describes a successful write, handed to Definition.OnMutation.
type Mutation struct {
	Resource string
	Action   Action
	ID       int // 0 for creates whose answer carried no record
	Draft    any
}

type MutationHook func(ctx context.Context, m Mutation)

// Definition configures a Controller for one resource.
type Definition[T any, D any] struct {
	// Name is used in notices: "cash flow", "sale".
	Name     string
	PerPage  int
	Accessor Accessor[T, D]

	ID    func(T) int
	Draft func(T) D // editable fields only
	// Validate runs before any network call; nil accepts every draft.
	Validate func(D) error
	// Search returns the text fields matched by the search term.
	Search func(T) []string
	// Sort orders a freshly fetched list in place.
	Sort func([]T)
	// Summarize derives totals. It always receives the whole collection.
	Summarize func([]T) any
	// EditViaGet reloads the record through Accessor's Get before editing.
	EditViaGet bool
	// Snapshot is what a Mutation carries as Draft; nil passes the draft
	// through. Use it to strip secrets before the activity log sees them.
	Snapshot func(D) any

	OnMutation MutationHook
}

// View is the derived, render-ready state of a controller.
type View[T any, D any] struct {
	Resource      string      `json:"resource"`
	Items         []T         `json:"items"`
	Page          int         `json:"page"`
	TotalPages    int         `json:"total_pages"`
	PerPage       int         `json:"per_page"`
	Pages         []int       `json:"pages"`
	HasPrev       bool        `json:"has_prev"`
	HasNext       bool        `json:"has_next"`
	VisibleCount  int         `json:"visible_count"`
	TotalCount    int         `json:"total_count"`
	Search        string      `json:"search"`
	Draft         D           `json:"draft"`
	EditingID     *int        `json:"editing_id"`
	FormOpen      bool        `json:"form_open"`
	DeleteState   DeleteState `json:"delete_state"`
	PendingDelete *int        `json:"pending_delete"`
	Loading       bool        `json:"loading"`
	Error         string      `json:"error,omitempty"`
	Summary       any         `json:"summary,omitempty"`
	Notices       []Notice    `json:"notices"`
}

// Controller owns one list: the fetched items, the form draft, search and
// pagination state and the delete confirmation. It is safe for concurrent
// use; network calls happen outside the lock.
type Controller[T any, D any] struct {
	def Definition[T, D]

	mu        sync.Mutex
	items     []T
	draft     D
	editingID *int
	formOpen  bool
	search    string
	page      int
	del       deleteMachine
	loading   bool
	loaded    bool
	lastErr   string
	notes     notices
	closed    bool
	issued    uint64 // load requests started
	applied   uint64 // newest load applied
}

func New[T any, D any](def Definition[T, D]) *Controller[T, D] {
	if def.PerPage <= 0 {
		def.PerPage = 5
	}
	if def.Name == "" {
		def.Name = "record"
	}
	return &Controller[T, D]{
		def:   def,
		items: []T{},
		page:  1,
	}
}

func (c *Controller[T, D]) Name() string { return c.def.Name }

// Close unmounts the controller; responses still in flight are dropped.
func (c *Controller[T, D]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// EnsureLoaded performs the initial load once, like a fetch on mount.
func (c *Controller[T, D]) EnsureLoaded(ctx context.Context) error {
	c.mu.Lock()
	need := !c.loaded && !c.loading && !c.closed
	c.mu.Unlock()
	if !need {
		return nil
	}
	return c.Load(ctx)
}

// Load replaces items with the upstream list. On failure items keep their
// last good value.
func (c *Controller[T, D]) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.issued++
	seq := c.issued
	c.loading = true
	c.mu.Unlock()

	items, err := c.def.Accessor.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if seq == c.issued {
		c.loading = false
	}
	if err != nil {
		c.lastErr = reason(err)
		c.notes.add(NoticeError, fmt.Sprintf("Failed to load %s data: %s", c.def.Name, c.lastErr))
		return err
	}
	if seq < c.applied {
		// an older response arriving late; the newer list stays
		return nil
	}
	if items == nil {
		items = []T{}
	}
	if c.def.Sort != nil {
		c.def.Sort(items)
	}
	c.applied = seq
	c.items = items
	c.loaded = true
	c.lastErr = ""
	return nil
}

// Items returns a copy of the cached collection.
func (c *Controller[T, D]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Visible is the search-filtered collection.
func (c *Controller[T, D]) Visible() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibleLocked()
}

func (c *Controller[T, D]) visibleLocked() []T {
	return Filter(c.items, c.search, c.def.Search)
}

// SetSearch changes the search term and goes back to the first page.
func (c *Controller[T, D]) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
	c.page = 1
}

// SetPage moves to page. Pages outside [1, totalPages] are rejected.
func (c *Controller[T, D]) SetPage(page int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := TotalPages(len(c.visibleLocked()), c.def.PerPage)
	if page < 1 || page > total {
		return ErrPageOutOfRange
	}
	c.page = page
	return nil
}

// SetDraft records form input.
func (c *Controller[T, D]) SetDraft(d D) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d
}

// NewDraft opens an empty form for a create.
func (c *Controller[T, D]) NewDraft() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero D
	c.draft = zero
	c.editingID = nil
	c.formOpen = true
}

// CloseForm discards the draft and the edit target.
func (c *Controller[T, D]) CloseForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetFormLocked()
}

func (c *Controller[T, D]) resetFormLocked() {
	var zero D
	c.draft = zero
	c.editingID = nil
	c.formOpen = false
}

// Edit fills the draft from the record id and opens the form.
func (c *Controller[T, D]) Edit(ctx context.Context, id int) error {
	var (
		rec   T
		found bool
	)

	if g, ok := c.def.Accessor.(Getter[T]); ok && c.def.EditViaGet {
		r, err := g.Get(ctx, id)
		if err != nil {
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.closed {
				return ErrClosed
			}
			c.notes.add(NoticeError, fmt.Sprintf("Failed to load %s for edit: %s", c.def.Name, reason(err)))
			return err
		}
		rec, found = r, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if !found {
		for _, it := range c.items {
			if c.def.ID(it) == id {
				rec, found = it, true
				break
			}
		}
	}
	if !found {
		c.notes.add(NoticeError, fmt.Sprintf("%s %d not found for editing", c.def.Name, id))
		return ErrNotFound
	}

	c.draft = c.def.Draft(rec)
	editing := id
	c.editingID = &editing
	c.formOpen = true
	return nil
}

// Submit validates the draft, then creates or updates depending on the edit
// target, reloads the list and clears the form. A create moves to the page
// that holds the new last item.
func (c *Controller[T, D]) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	draft := c.draft
	var editing *int
	if c.editingID != nil {
		id := *c.editingID
		editing = &id
	}
	oldCount := len(c.items)
	c.mu.Unlock()

	if c.def.Validate != nil {
		if err := c.def.Validate(draft); err != nil {
			c.mu.Lock()
			c.notes.add(NoticeError, err.Error())
			c.mu.Unlock()
			return err
		}
	}

	var (
		saved T
		err   error
		m     = Mutation{Resource: c.def.Name, Draft: c.snapshot(draft)}
	)
	if editing == nil {
		m.Action = ActionCreate
		saved, err = c.def.Accessor.Create(ctx, draft)
		if err == nil && c.def.ID != nil {
			m.ID = c.def.ID(saved)
		}
	} else {
		m.Action = ActionUpdate
		m.ID = *editing
		_, err = c.def.Accessor.Update(ctx, *editing, draft)
	}
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			return ErrClosed
		}
		c.notes.add(NoticeError, fmt.Sprintf("Failed to save %s: %s", c.def.Name, reason(err)))
		return err
	}
	if c.def.OnMutation != nil {
		c.def.OnMutation(ctx, m)
	}

	if err := c.Load(ctx); errors.Is(err, ErrClosed) {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.resetFormLocked()
	if editing == nil {
		c.page = TotalPages(oldCount+1, c.def.PerPage)
		c.notes.add(NoticeSuccess, fmt.Sprintf("%s added successfully!", capitalize(c.def.Name)))
	} else {
		c.notes.add(NoticeSuccess, fmt.Sprintf("%s updated successfully!", capitalize(c.def.Name)))
	}
	return nil
}

// RequestDelete opens the confirmation for id without any network call.
func (c *Controller[T, D]) RequestDelete(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return c.del.request(id)
}

// CancelDelete drops the pending confirmation.
func (c *Controller[T, D]) CancelDelete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.del.cancel()
}

// ConfirmDelete removes the pending record, reloads and pulls the current
// page back when the last page disappeared.
func (c *Controller[T, D]) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	id, err := c.del.begin()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if err := c.def.Accessor.Remove(ctx, id); err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.del.finish()
		if c.closed {
			return ErrClosed
		}
		c.notes.add(NoticeError, fmt.Sprintf("Failed to delete %s: %s", c.def.Name, reason(err)))
		return err
	}
	if c.def.OnMutation != nil {
		c.def.OnMutation(ctx, Mutation{Resource: c.def.Name, Action: ActionDelete, ID: id})
	}

	loadErr := c.Load(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.del.finish()
	if c.closed || errors.Is(loadErr, ErrClosed) {
		return ErrClosed
	}
	total := TotalPages(len(c.visibleLocked()), c.def.PerPage)
	if c.page > total {
		c.page = max(1, total)
	}
	c.notes.add(NoticeSuccess, fmt.Sprintf("%s deleted!", capitalize(c.def.Name)))
	return nil
}

// View derives the render state and hands out pending notices.
func (c *Controller[T, D]) View() View[T, D] {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible := c.visibleLocked()
	total := TotalPages(len(visible), c.def.PerPage)

	v := View[T, D]{
		Resource:      c.def.Name,
		Items:         PageSlice(visible, c.page, c.def.PerPage),
		Page:          c.page,
		TotalPages:    total,
		PerPage:       c.def.PerPage,
		Pages:         PageNumbers(total),
		HasPrev:       c.page > 1,
		HasNext:       c.page < total,
		VisibleCount:  len(visible),
		TotalCount:    len(c.items),
		Search:        c.search,
		Draft:         c.draft,
		FormOpen:      c.formOpen,
		DeleteState:   c.del.current(),
		PendingDelete: c.del.pending(),
		Loading:       c.loading,
		Error:         c.lastErr,
		Notices:       c.notes.drain(),
	}
	if c.editingID != nil {
		id := *c.editingID
		v.EditingID = &id
	}
	if c.def.Summarize != nil {
		v.Summary = c.def.Summarize(c.items)
	}
	return v
}

func (c *Controller[T, D]) snapshot(d D) any {
	if c.def.Snapshot != nil {
		return c.def.Snapshot(d)
	}
	return d
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
