package database

import (
	"log"

	"enku-backoffice/internal/config"
	"enku-backoffice/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init connects to postgres and migrates the tables the backoffice owns:
// sessions and the activity log. Business records live in the upstream
// services.
func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("[FATAL] database connection failed: %v", err)
	}

	err = DB.AutoMigrate(
		&models.SessionRecord{},
		&models.ActivityLog{},
	)
	if err != nil {
		log.Fatalf("[FATAL] AutoMigrate failed: %v", err)
	}

	log.Println("Database connected, migration complete.")
}
