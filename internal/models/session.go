package models

import "time"

// SessionRecord is the durable copy of a signed-in identity.
type SessionRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    int    `gorm:"index;not null"`
	Username  string `gorm:"size:100;not null"`
	Role      string `gorm:"size:50"`
	IsAdmin   bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
