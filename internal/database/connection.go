// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bookstore-backend/internal/config"
	"bookstore-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		// Surface duplicate-key and FK violations as gorm sentinel
		// errors so the service layer can classify races the
		// pre-checks lost.
		TranslateError: true,
	}
	if cfg.LogLevel == "silent" {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithField("driver", cfg.Driver).Info("Database connection established")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.Author{},
		&models.Genre{},
		&models.Supplier{},
		&models.Book{},
		&models.BookGenre{},
		&models.PriceHistory{},
		&models.Client{},
		&models.Employee{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.BookReview{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

// SeedReferenceData inserts a starter set of genres when the table is
// empty. All other data is created by callers.
func SeedReferenceData(db *gorm.DB) error {
	var genreCount int64
	if err := db.Model(&models.Genre{}).Count(&genreCount).Error; err != nil {
		return fmt.Errorf("failed to count genres: %w", err)
	}
	if genreCount > 0 {
		return nil
	}

	genres := []models.Genre{
		{Name: "Novel", Description: "Long-form literary fiction"},
		{Name: "Science Fiction", Description: "Speculative and futuristic fiction"},
		{Name: "History", Description: "Historical non-fiction"},
		{Name: "Children", Description: "Books for young readers"},
	}
	if err := db.Create(&genres).Error; err != nil {
		return fmt.Errorf("failed to seed genres: %w", err)
	}

	logrus.WithField("genres", len(genres)).Info("Seeded reference data")
	return nil
}

// WithTransaction runs fn inside a transaction. Any error (or panic)
// rolls back everything fn wrote.
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
