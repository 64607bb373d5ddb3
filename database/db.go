package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tapea/internal/config"
	"tapea/internal/microservices/http-api/models"
)

// ConnectDB opens PostgreSQL through GORM and migrates the schema.
func ConnectDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() && cfg.LogLevel == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		// surfaces unique violations as gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	// Verify the connection
	if err := sqlDB.Ping(); err != nil {
		// close the db handle if ping fails to avoid resource leak
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		sqlDB.Close()
		return nil, err
	}

	logger.Info("database_connected")
	return db, nil
}

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Event{},
		&models.Venue{},
		&models.Tapa{},
		&models.Vote{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close releases the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
