package marketing

import (
	"context"

	"enku-backoffice/internal/listing"

	"github.com/gofiber/fiber/v2"
)

const CatalogPerPage = 6

// Site owns the carousels of the public pages. They are shared by all
// visitors and run until Close.
type Site struct {
	Hero         *Carousel[HeroSlide]
	Testimonials *Carousel[Testimonial]
	Gallery      *Carousel[string]
}

func NewSite(ctx context.Context) *Site {
	return &Site{
		Hero:         NewCarousel(ctx, heroSlides, HeroInterval),
		Testimonials: NewCarousel(ctx, testimonials, TestimonialInterval),
		Gallery:      NewCarousel(ctx, gallery, GalleryInterval),
	}
}

func (s *Site) Close() {
	s.Hero.Stop()
	s.Testimonials.Stop()
	s.Gallery.Stop()
}

type HomeView struct {
	Hero        Slide[HeroSlide]   `json:"hero"`
	Testimonial Slide[Testimonial] `json:"testimonial"`
	Gallery     Slide[string]      `json:"gallery"`
	Featured    []Featured         `json:"featured"`
}

func (s *Site) Home() HomeView {
	return HomeView{
		Hero:        s.Hero.Current(),
		Testimonial: s.Testimonials.Current(),
		Gallery:     s.Gallery.Current(),
		Featured:    featured,
	}
}

type CatalogView struct {
	Items       []CatalogItem `json:"items"`
	Search      string        `json:"search"`
	Page        int           `json:"page"`
	TotalPages  int           `json:"total_pages"`
	PageNumbers []int         `json:"page_numbers"`
	HasPrev     bool          `json:"has_prev"`
	HasNext     bool          `json:"has_next"`
}

// Catalog searches name and description and returns one page. A page past
// the end is rejected; an empty result has page 1 of 0.
func Catalog(search string, page int) (CatalogView, error) {
	hits := listing.Filter(catalog, search, func(p CatalogItem) []string { return []string{p.Name, p.Description} })
	total := listing.TotalPages(len(hits), CatalogPerPage)
	if page < 1 || (total > 0 && page > total) || (total == 0 && page != 1) {
		return CatalogView{}, listing.ErrPageOutOfRange
	}
	return CatalogView{
		Items:       listing.PageSlice(hits, page, CatalogPerPage),
		Search:      search,
		Page:        page,
		TotalPages:  total,
		PageNumbers: listing.PageNumbers(total),
		HasPrev:     page > 1,
		HasNext:     page < total,
	}, nil
}

// Register mounts the public pages under r.
func Register(r fiber.Router, site *Site) {
	r.Get("/home", func(c *fiber.Ctx) error {
		return c.JSON(site.Home())
	})

	r.Post("/home/:carousel/:move", func(c *fiber.Ctx) error {
		var slide any
		switch c.Params("carousel") + "/" + c.Params("move") {
		case "hero/next":
			slide = site.Hero.Next()
		case "hero/prev":
			slide = site.Hero.Prev()
		case "testimonials/next":
			slide = site.Testimonials.Next()
		case "testimonials/prev":
			slide = site.Testimonials.Prev()
		case "gallery/next":
			slide = site.Gallery.Next()
		case "gallery/prev":
			slide = site.Gallery.Prev()
		default:
			return fiber.NewError(fiber.StatusNotFound, "Unknown carousel")
		}
		return c.JSON(slide)
	})

	r.Get("/catalog", func(c *fiber.Ctx) error {
		v, err := Catalog(c.Query("search"), c.QueryInt("page", 1))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Page out of range")
		}
		return c.JSON(v)
	})

	r.Get("/catalog/:id", func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
		}
		for _, p := range catalog {
			if p.ID == id {
				return c.JSON(p)
			}
		}
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	})
}
