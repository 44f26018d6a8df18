package audit

import (
	"log"

	"enku-backoffice/internal/models"

	"github.com/gofiber/fiber/v2"
)

const defaultLimit = 200

type ActivityLogResponse struct {
	ID          uint                  `json:"id"`
	CreatedAt   string                `json:"created_at"`
	UserID      int                   `json:"user_id"`
	UserName    string                `json:"user_name"`
	Resource    string                `json:"resource"`
	EntityID    int                   `json:"entity_id"`
	Action      models.ActivityAction `json:"action"`
	Description string                `json:"description"`
}

// GET /ui/activity?resource=income&action=update&user_id=1&entity_id=4&limit=50
func ListActivityHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := Filter{
			Resource: c.Query("resource"),
			Action:   models.ActivityAction(c.Query("action")),
			UserID:   c.QueryInt("user_id"),
			EntityID: c.QueryInt("entity_id"),
			Limit:    c.QueryInt("limit", defaultLimit),
		}
		switch f.Action {
		case "", models.ActivityCreate, models.ActivityUpdate, models.ActivityDelete:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Unknown action")
		}
		if f.Limit <= 0 || f.Limit > defaultLimit {
			f.Limit = defaultLimit
		}

		logs, err := store.List(c.UserContext(), f)
		if err != nil {
			log.Printf("[WARN] %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Activity could not be listed")
		}

		resp := make([]ActivityLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, ActivityLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				UserID:      l.UserID,
				UserName:    l.UserName,
				Resource:    l.Resource,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
			})
		}
		return c.JSON(resp)
	}
}
