package marketing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"enku-backoffice/internal/listing"

	"github.com/gofiber/fiber/v2"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestCarouselAdvancesAndWraps(t *testing.T) {
	c := NewCarousel(context.Background(), []string{"a", "b"}, 10*time.Millisecond)
	defer c.Stop()

	waitFor(t, func() bool { return c.Current().Index == 1 })
	waitFor(t, func() bool { return c.Current().Index == 0 })
}

func TestCarouselManualMoves(t *testing.T) {
	c := NewCarousel(context.Background(), []string{"a", "b", "c"}, time.Hour)
	defer c.Stop()

	if s := c.Prev(); s.Index != 2 || s.Item != "c" || s.Total != 3 {
		t.Errorf("prev from first = %+v", s)
	}
	if s := c.Next(); s.Index != 0 {
		t.Errorf("next from last = %+v", s)
	}
	if _, ok := c.Goto(5); ok {
		t.Error("goto out of range accepted")
	}
	if s, ok := c.Goto(1); !ok || s.Item != "b" {
		t.Errorf("goto = %+v", s)
	}
}

func TestManualMoveRestartsInterval(t *testing.T) {
	interval := 200 * time.Millisecond
	c := NewCarousel(context.Background(), []string{"a", "b", "c", "d"}, interval)
	defer c.Stop()

	time.Sleep(120 * time.Millisecond)
	c.Next()
	// without a restart the first tick would land 80ms from here
	time.Sleep(100 * time.Millisecond)
	if got := c.Current().Index; got != 1 {
		t.Errorf("index = %d right after manual next", got)
	}
}

func TestCarouselStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewCarousel(ctx, []string{"a", "b"}, 5*time.Millisecond)
	cancel()
	c.Stop()
	c.Stop()

	at := c.Current().Index
	time.Sleep(30 * time.Millisecond)
	if c.Current().Index != at {
		t.Error("stopped carousel still advancing")
	}
}

func TestEmptyCarousel(t *testing.T) {
	c := NewCarousel[string](context.Background(), nil, time.Millisecond)
	if s := c.Next(); s.Total != 0 || s.Index != 0 {
		t.Errorf("empty = %+v", s)
	}
	c.Stop()
}

func TestCatalog(t *testing.T) {
	v, err := Catalog("", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Items) != 4 || v.TotalPages != 2 || v.HasNext || !v.HasPrev || v.Items[0].ID != 7 {
		t.Errorf("page 2 = %+v", v)
	}

	v, err = Catalog("MONITOR", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Items) != 1 || v.Items[0].ID != 7 {
		t.Errorf("search = %+v", v.Items)
	}

	if _, err := Catalog("", 3); !errors.Is(err, listing.ErrPageOutOfRange) {
		t.Errorf("page 3 = %v", err)
	}
	v, err = Catalog("no such thing", 1)
	if err != nil || len(v.Items) != 0 || v.TotalPages != 0 {
		t.Errorf("empty search = %+v, %v", v, err)
	}
}

func TestRoutes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	site := NewSite(ctx)
	defer site.Close()

	app := fiber.New()
	Register(app, site)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/home/hero/next", nil))
	if err != nil {
		t.Fatal(err)
	}
	var slide Slide[HeroSlide]
	if err := json.NewDecoder(resp.Body).Decode(&slide); err != nil {
		t.Fatal(err)
	}
	if slide.Total != 3 || slide.Item.Title == "" {
		t.Errorf("slide = %+v", slide)
	}

	for target, want := range map[string]int{
		"/home/nope/next":         http.StatusNotFound,
		"/home/testimonials/prev": http.StatusOK,
		"/home/gallery/next":      http.StatusOK,
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, target, nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != want {
			t.Errorf("POST %s = %d, want %d", target, resp.StatusCode, want)
		}
	}

	for target, want := range map[string]int{
		"/home":           http.StatusOK,
		"/catalog?page=2": http.StatusOK,
		"/catalog?page=9": http.StatusBadRequest,
		"/catalog/3":      http.StatusOK,
		"/catalog/99":     http.StatusNotFound,
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != want {
			t.Errorf("GET %s = %d, want %d", target, resp.StatusCode, want)
		}
	}
}
