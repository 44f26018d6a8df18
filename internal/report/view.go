package report

import (
	"context"
	"errors"
	"sync"
	"time"

	"enku-backoffice/internal/models"
	"enku-backoffice/internal/remote"

	"golang.org/x/sync/errgroup"
)

// Lister is the read side of a remote accessor.
type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// Sources are the collections a report is built from.
type Sources struct {
	Income   Lister[models.Income]
	Expenses Lister[models.Expense]
	Sales    Lister[models.Sale]
}

// Fetch loads the three collections concurrently. Any failure fails the
// whole fetch.
func Fetch(ctx context.Context, src Sources) (Data, error) {
	var d Data
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Income, err = src.Income.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Expenses, err = src.Expenses.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Sales, err = src.Sales.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Data{}, err
	}
	return d, nil
}

// View is the per-session report screen: the last fetched data and the
// selected range.
type View struct {
	src Sources

	mu      sync.Mutex
	data    Data
	rng     Range
	loaded  bool
	lastErr string
}

func NewView(src Sources, now time.Time) *View {
	return &View{src: src, rng: MonthRange(now)}
}

// Load refetches everything. On failure the previous data is kept.
func (v *View) Load(ctx context.Context) error {
	d, err := Fetch(ctx, v.src)
	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.lastErr = "Failed to load financial data: " + errorText(err)
		return err
	}
	v.data = d
	v.loaded = true
	v.lastErr = ""
	return nil
}

func (v *View) EnsureLoaded(ctx context.Context) error {
	v.mu.Lock()
	loaded := v.loaded
	v.mu.Unlock()
	if loaded {
		return nil
	}
	return v.Load(ctx)
}

func (v *View) SetRange(r Range) {
	v.mu.Lock()
	v.rng = r
	v.mu.Unlock()
}

// Snapshot is what the screen renders.
type Snapshot struct {
	Report
	Loaded bool   `json:"loaded"`
	Error  string `json:"error,omitempty"`
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	d, r, loaded, msg := v.data, v.rng, v.loaded, v.lastErr
	v.mu.Unlock()
	return Snapshot{Report: Build(d, r), Loaded: loaded, Error: msg}
}

func errorText(err error) string {
	var re *remote.Error
	if errors.As(err, &re) {
		return re.Message
	}
	return err.Error()
}
