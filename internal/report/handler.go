package report

import (
	"bytes"
	"io"
	"log"
	"time"

	"enku-backoffice/internal/listing"
	"enku-backoffice/internal/workspace"

	"github.com/gofiber/fiber/v2"
)

const keyView = "report.view"

type rangeRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Register mounts the report screen under r.
func Register(r fiber.Router, src Sources) {
	view := func(c *fiber.Ctx) (*View, error) {
		w, err := workspace.FromCtx(c)
		if err != nil {
			return nil, err
		}
		return workspace.Value(w, keyView, func() *View { return NewView(src, time.Now()) }), nil
	}

	r.Get("/", func(c *fiber.Ctx) error {
		v, err := view(c)
		if err != nil {
			return err
		}
		if err := v.EnsureLoaded(c.UserContext()); err != nil {
			return c.Status(listing.StatusFor(err)).JSON(v.Snapshot())
		}
		return c.JSON(v.Snapshot())
	})

	r.Post("/reload", func(c *fiber.Ctx) error {
		v, err := view(c)
		if err != nil {
			return err
		}
		if err := v.Load(c.UserContext()); err != nil {
			return c.Status(listing.StatusFor(err)).JSON(v.Snapshot())
		}
		return c.JSON(v.Snapshot())
	})

	// filtering is local; the range never triggers a fetch of its own
	r.Put("/range", func(c *fiber.Ctx) error {
		var body rangeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid range")
		}
		rng, err := ParseRange(body.StartDate, body.EndDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		v, err := view(c)
		if err != nil {
			return err
		}
		v.SetRange(rng)
		return c.JSON(v.Snapshot())
	})

	r.Get("/export.pdf", exportHandler(view, "financial_report.pdf", "application/pdf", WritePDF))
	r.Get("/export.xlsx", exportHandler(view, "financial_report.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", WriteXLSX))
}

// exportHandler renders into memory first so a failed export sends nothing
// and leaves the report state as it was.
func exportHandler(view func(*fiber.Ctx) (*View, error), filename, mime string, write func(io.Writer, Report) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := view(c)
		if err != nil {
			return err
		}
		if err := v.EnsureLoaded(c.UserContext()); err != nil {
			return c.Status(listing.StatusFor(err)).JSON(v.Snapshot())
		}

		var buf bytes.Buffer
		if err := write(&buf, v.Snapshot().Report); err != nil {
			log.Printf("[WARN] export %s: %v", filename, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to export report")
		}
		c.Attachment(filename)
		c.Set(fiber.HeaderContentType, mime)
		return c.Send(buf.Bytes())
	}
}
