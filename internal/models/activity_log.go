package models

import "time"

type ActivityAction string

const (
	ActivityCreate ActivityAction = "create"
	ActivityUpdate ActivityAction = "update"
	ActivityDelete ActivityAction = "delete"
)

// ActivityLog records a mutation the backoffice forwarded to an upstream service.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SessionID string `gorm:"size:36;index" json:"session_id"`
	UserID    int    `gorm:"index" json:"user_id"`
	UserName  string `gorm:"size:100" json:"user_name"` // denormalized

	// "income", "cash flow", "product", ...
	Resource string `gorm:"size:50;index" json:"resource"`
	EntityID int    `gorm:"index" json:"entity_id"`

	Action      ActivityAction `gorm:"size:20" json:"action"`
	Description string         `gorm:"size:255" json:"description"`

	// JSON snapshot of the submitted draft, "null" for deletes
	Payload string `gorm:"type:jsonb" json:"payload"`
}
