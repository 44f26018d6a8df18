package marketing

import (
	"context"
	"sync"
	"time"
)

// Intervals of the site carousels.
const (
	HeroInterval        = 7 * time.Second
	TestimonialInterval = 5 * time.Second
	GalleryInterval     = 4 * time.Second
)

// Carousel cycles through slides on a fixed interval until stopped. A
// manual Next or Prev restarts the interval.
type Carousel[S any] struct {
	slides   []S
	interval time.Duration

	mu    sync.Mutex
	index int

	restart chan struct{}
	cancel  context.CancelFunc
	done    chan struct{}
}

// Slide is the carousel state handed to views.
type Slide[S any] struct {
	Index int `json:"index"`
	Total int `json:"total"`
	Item  S   `json:"item"`
}

// NewCarousel starts cycling slides. It stops when ctx ends or Stop is
// called. An empty carousel never ticks.
func NewCarousel[S any](ctx context.Context, slides []S, interval time.Duration) *Carousel[S] {
	ctx, cancel := context.WithCancel(ctx)
	c := &Carousel[S]{
		slides:   slides,
		interval: interval,
		restart:  make(chan struct{}, 1),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go c.run(ctx)
	return c
}

func (c *Carousel[S]) run(ctx context.Context) {
	defer close(c.done)
	if len(c.slides) == 0 {
		<-ctx.Done()
		return
	}
	t := time.NewTicker(c.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.restart:
			t.Reset(c.interval)
		case <-t.C:
			c.step(1)
		}
	}
}

func (c *Carousel[S]) step(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.slides)
	if n == 0 {
		return
	}
	c.index = ((c.index+delta)%n + n) % n
}

func (c *Carousel[S]) kick() {
	select {
	case c.restart <- struct{}{}:
	default:
	}
}

func (c *Carousel[S]) Next() Slide[S] {
	c.step(1)
	c.kick()
	return c.Current()
}

func (c *Carousel[S]) Prev() Slide[S] {
	c.step(-1)
	c.kick()
	return c.Current()
}

// Goto jumps to slide i, e.g. from a dot indicator.
func (c *Carousel[S]) Goto(i int) (Slide[S], bool) {
	c.mu.Lock()
	if i < 0 || i >= len(c.slides) {
		c.mu.Unlock()
		return Slide[S]{}, false
	}
	c.index = i
	c.mu.Unlock()
	c.kick()
	return c.Current(), true
}

func (c *Carousel[S]) Current() Slide[S] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Slide[S]{Index: c.index, Total: len(c.slides)}
	if len(c.slides) > 0 {
		s.Item = c.slides[c.index]
	}
	return s
}

// Stop ends the timer and waits for it to exit. Safe to call twice.
func (c *Carousel[S]) Stop() {
	c.cancel()
	<-c.done
}
