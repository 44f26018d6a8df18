package listing

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Provider resolves the controller serving a request, usually the one
// mounted in the caller's session workspace.
type Provider[T any, D any] func(c *fiber.Ctx) (*Controller[T, D], error)

type searchRequest struct {
	Term string `json:"term"`
}

type pageRequest struct {
	Page int `json:"page"`
}

// Mount exposes a controller as JSON intents under r:
//
//	GET  /                view (loads on first access)
//	POST /reload
//	PUT  /search          {"term": "..."}
//	PUT  /page            {"page": 2}
//	PUT  /draft           draft body
//	POST /new | /close
//	POST /edit/:id
//	POST /submit          optional draft body
//	POST /delete/confirm | /delete/cancel | /delete/:id
//
// Every answer carries the current view so the caller can re-render.
func Mount[T any, D any](r fiber.Router, provide Provider[T, D]) {
	r.Get("/", handle(provide, func(c *fiber.Ctx, ctl *Controller[T, D]) error {
		return ctl.EnsureLoaded(c.UserContext())
	}))

	r.Post("/reload", handle(provide, func(c *fiber.Ctx, ctl *Controller[T, D]) error {
		return ctl.Load(c.UserContext())
	}))

	r.Put("/search", handle(provide, func(c *fiber.Ctx, ctl *Controller[T, D]) error {
		var body searchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		ctl.SetSearch(body.Term)
		return nil
	}))

	r.Put("/page", handle(provide, func(c *fiber.Ctx, ctl *Controller[T, D]) error {
		var body pageRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		return ctl.SetPage(body.Page)
	}))

	r.Put("/draft", handle(provide, func(c *fiber.Ctx, ctl *Controller[T, D]) error {
		var d D
		if err := c.BodyParser(&d); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid draft")
		}
		ctl.SetDraft(d)
		return nil
	}))

	r.Post("/new", handle(provide, func(c *fiber.Ctx, ctl *Controller[T, D]) error {
		ctl.NewDraft()
		return nil
	}))

	r.Post("/close", handle(provide, func(c *fiber.Ctx, ctl *Controller[T, D]) error {
		ctl.CloseForm()
		return nil
	}))

	r.Post("/edit/:id", handle(provide, func(c *fiber.Ctx, ctl *Controller[T, D]) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}
		return ctl.Edit(c.UserContext(), id)
	}))

	r.Post("/submit", handle(provide, func(c *fiber.Ctx, ctl *Controller[T, D]) error {
		if len(c.Body()) > 0 {
			var d D
			if err := c.BodyParser(&d); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid draft")
			}
			ctl.SetDraft(d)
		}
		return ctl.Submit(c.UserContext())
	}))

	// confirm/cancel before :id so they are not taken as ids
	r.Post("/delete/confirm", handle(provide, func(c *fiber.Ctx, ctl *Controller[T, D]) error {
		return ctl.ConfirmDelete(c.UserContext())
	}))

	r.Post("/delete/cancel", handle(provide, func(c *fiber.Ctx, ctl *Controller[T, D]) error {
		return ctl.CancelDelete()
	}))

	r.Post("/delete/:id", handle(provide, func(c *fiber.Ctx, ctl *Controller[T, D]) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid id")
		}
		return ctl.RequestDelete(id)
	}))
}

func handle[T any, D any](provide Provider[T, D], intent func(*fiber.Ctx, *Controller[T, D]) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctl, err := provide(c)
		if err != nil {
			return err
		}
		if err := intent(c, ctl); err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return fe
			}
			return c.Status(StatusFor(err)).JSON(ctl.View())
		}
		return c.JSON(ctl.View())
	}
}

// StatusFor maps controller failures to HTTP statuses. The body is always
// the view, whose notices explain what happened.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case IsValidation(err):
		return fiber.StatusUnprocessableEntity
	case IsNotFound(err):
		return fiber.StatusNotFound
	case errors.Is(err, ErrPageOutOfRange):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNoPendingDelete), errors.Is(err, ErrDeleteInProgress), errors.Is(err, ErrClosed):
		return fiber.StatusConflict
	default:
		// upstream answered non-2xx or was unreachable
		return fiber.StatusBadGateway
	}
}
