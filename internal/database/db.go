package database

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bookhub/internal/api/middleware/auth"
	"bookhub/internal/api/models"
	"bookhub/internal/config"

	"github.com/google/uuid"
)

// ConnectDB opens the configured database, runs schema migrations and seeds
// the admin account when one is configured.
func ConnectDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		// _fk=1 turns on foreign key enforcement, off by default in sqlite
		dialector = sqlite.Open(cfg.DatabaseURL + "?_fk=1")
	default:
		dialector = postgres.Open(cfg.DatabaseURL)
	}

	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("database schema migrated")

	if err := seedAdmin(db, cfg, logger); err != nil {
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}

	logger.Info("connected to the database", "driver", cfg.DBDriver)
	return db, nil
}

// Migrate creates or updates the schema for all application models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Author{},
		&models.Category{},
		&models.Book{},
		&models.Comment{},
	)
}

// seedAdmin makes sure an administrator account exists so fresh deployments
// have a way to manage the catalog. No-op unless configured.
func seedAdmin(db *gorm.DB, cfg *config.Config, logger *slog.Logger) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("username = ?", cfg.AdminUsername).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.User{
		ID:       uuid.NewString(),
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: hash,
		Role:     "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("seeded admin account", "username", cfg.AdminUsername)
	return nil
}
