package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance
var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string, logLevel logger.LogLevel) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established")
	return nil
}

// AutoMigrate runs database migrations
func AutoMigrate() error {
	log.Println("Running database migrations...")

	err := DB.AutoMigrate(
		&Event{},
		&Alert{},
		&EngineSettings{},
		// Collaborator tables owned by the wider platform; migrated here so
		// the single-binary deployment works against an empty database.
		&Asset{},
		&HealthMetric{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// InitializeDefaults creates default records if they don't exist
func InitializeDefaults() error {
	log.Println("Initializing default database records...")

	if _, err := GetOrCreateEngineSettings(DB); err != nil {
		return fmt.Errorf("failed to initialize engine settings: %w", err)
	}

	return nil
}

// GetOrCreateEngineSettings retrieves or creates engine settings (singleton).
// This function accepts a db parameter (rather than using the global DB) to
// support dependency injection, transaction contexts, and easier testing.
func GetOrCreateEngineSettings(db *gorm.DB) (*EngineSettings, error) {
	var settings EngineSettings
	result := db.First(&settings)
	if result.Error == gorm.ErrRecordNotFound {
		settings = *NewDefaultEngineSettings()
		if err := db.Create(&settings).Error; err != nil {
			return nil, err
		}
	} else if result.Error != nil {
		return nil, result.Error
	}
	return &settings, nil
}

// UpdateEngineSettings updates engine settings.
// Uses Save() which handles both insert and update operations.
func UpdateEngineSettings(db *gorm.DB, settings *EngineSettings) error {
	return db.Save(settings).Error
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// Close closes the database connection
func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
