package users

import (
	"errors"

	"enku-backoffice/internal/listing"
	"enku-backoffice/internal/models"
	"enku-backoffice/internal/remote"
	"enku-backoffice/internal/workspace"

	"github.com/gofiber/fiber/v2"
)

const (
	keyUsers = "users.users"
	keyRoles = "users.roles"
)

// Register mounts user management under r. Callers gate r to admins.
func Register(r fiber.Router, svc *Service) {
	listing.Mount(r.Group("/users"), workspace.Provide(keyUsers,
		func() listing.Definition[models.User, models.UserDraft] { return UserDefinition(svc.Users) }))
	listing.Mount(r.Group("/roles"), workspace.Provide(keyRoles,
		func() listing.Definition[models.Role, models.RoleDraft] { return RoleDefinition(svc.Roles) }))

	r.Get("/assignments", ListAssignmentsHandler(svc))
	r.Post("/assignments", AssignHandler(svc))
	r.Delete("/assignments", UnassignHandler(svc))
}

type assignmentInput struct {
	UserID   int    `json:"userId" query:"userId"`
	RoleID   int    `json:"roleId" query:"roleId"`
	RoleName string `json:"roleName"`
}

// GET /assignments
func ListAssignmentsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out, err := svc.Assignments(c.UserContext())
		if err != nil {
			return upstreamError("Failed to fetch user-role mappings", err)
		}
		return c.JSON(out)
	}
}

// POST /assignments
func AssignHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in assignmentInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		return changeAssignment(c, svc, in, listing.ActionCreate)
	}
}

// DELETE /assignments?userId=&roleId=
func UnassignHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in assignmentInput
		if err := c.QueryParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
		}
		return changeAssignment(c, svc, in, listing.ActionDelete)
	}
}

func changeAssignment(c *fiber.Ctx, svc *Service, in assignmentInput, action listing.Action) error {
	w, err := workspace.FromCtx(c)
	if err != nil {
		return err
	}
	me, _ := w.Store().Current()

	ctx := c.UserContext()
	if action == listing.ActionCreate {
		err = svc.Assign(ctx, me.UserID, in.UserID, in.RoleID, in.RoleName)
	} else {
		err = svc.Unassign(ctx, me.UserID, in.UserID, in.RoleID)
	}
	if err != nil {
		if listing.IsValidation(err) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}
		if action == listing.ActionCreate {
			return upstreamError("Failed to assign role", err)
		}
		return upstreamError("Failed to remove role", err)
	}

	w.Record(ctx, listing.Mutation{Resource: "user role", Action: action, ID: in.UserID, Draft: in})
	if ctl, ok := workspace.Lookup[models.User, models.UserDraft](w, keyUsers); ok {
		_ = ctl.Load(ctx)
	}

	out, err := svc.Assignments(ctx)
	if err != nil {
		return upstreamError("Failed to fetch user-role mappings", err)
	}
	msg := "Role assigned successfully!"
	if action == listing.ActionDelete {
		msg = "Role removed successfully!"
	}
	return c.JSON(fiber.Map{"message": msg, "assignments": out})
}

func upstreamError(prefix string, err error) error {
	var re *remote.Error
	if errors.As(err, &re) {
		return fiber.NewError(fiber.StatusBadGateway, prefix+": "+re.Message)
	}
	return fiber.NewError(fiber.StatusBadGateway, prefix)
}
