// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kartify/storefront-backend/internal/config"
	"github.com/kartify/storefront-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
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

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_session ON orders(session_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",

		// Notification indexes
		"CREATE INDEX IF NOT EXISTS idx_notifications_order ON notifications(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications(status, created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	var categoryCount int64
	db.Model(&models.Category{}).Count(&categoryCount)
	if categoryCount > 0 {
		log.Println("Catalog already seeded, skipping")
		return nil
	}

	categories := []models.Category{
		{Name: "Mobiles", Slug: "mobiles"},
		{Name: "Fashion", Slug: "fashion"},
		{Name: "Electronics", Slug: "electronics"},
		{Name: "Home & Furniture", Slug: "home-furniture"},
		{Name: "Appliances", Slug: "appliances"},
		{Name: "Beauty & Toys", Slug: "beauty-toys"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	bySlug := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		bySlug[c.Slug] = c
	}

	original := func(v float64) *float64 { return &v }
	discount := func(v int) *int { return &v }

	products := []models.Product{
		{
			Name:            "Galaxy M35 5G (Ocean Blue, 128 GB)",
			Description:     "6.6 inch sAMOLED display, 6000 mAh battery, 50 MP triple camera.",
			Price:           16999,
			OriginalPrice:   original(19999),
			DiscountPercent: discount(15),
			Rating:          4.3,
			ReviewsCount:    12840,
			Stock:           120,
			Highlights:      []string{"6000 mAh battery", "50 MP triple camera", "Super AMOLED display"},
			Specifications:  models.StringMap{"RAM": "6 GB", "Storage": "128 GB", "Display": "6.6 inch"},
			CategoryID:      bySlug["mobiles"].ID,
		},
		{
			Name:            "Classic Cotton Casual Shirt",
			Description:     "Regular fit full-sleeve shirt in breathable cotton.",
			Price:           699,
			OriginalPrice:   original(1299),
			DiscountPercent: discount(46),
			Rating:          4.1,
			ReviewsCount:    3410,
			Stock:           300,
			Highlights:      []string{"100% cotton", "Machine washable"},
			Specifications:  models.StringMap{"Fit": "Regular", "Sleeve": "Full"},
			CategoryID:      bySlug["fashion"].ID,
		},
		{
			Name:            "Noise-Cancelling Wireless Headphones",
			Description:     "Over-ear Bluetooth headphones with 40 hour playback and active noise cancellation.",
			Price:           2499,
			OriginalPrice:   original(4999),
			DiscountPercent: discount(50),
			Rating:          4.4,
			ReviewsCount:    8755,
			Stock:           85,
			Highlights:      []string{"Active noise cancellation", "40h playback", "Fast charge"},
			Specifications:  models.StringMap{"Driver": "40 mm", "Bluetooth": "5.3"},
			CategoryID:      bySlug["electronics"].ID,
		},
		{
			Name:           "Engineered Wood Study Desk",
			Description:    "Compact desk with two shelves, matte walnut finish.",
			Price:          3599,
			Rating:         4.0,
			ReviewsCount:   912,
			Stock:          40,
			Highlights:     []string{"Two open shelves", "Easy assembly"},
			Specifications: models.StringMap{"Material": "Engineered wood", "Finish": "Walnut"},
			CategoryID:     bySlug["home-furniture"].ID,
		},
		{
			Name:            "7 kg Fully Automatic Washing Machine",
			Description:     "Top-load washing machine with ten wash programs and in-built heater.",
			Price:           14490,
			OriginalPrice:   original(18990),
			DiscountPercent: discount(23),
			Rating:          4.5,
			ReviewsCount:    5231,
			Stock:           25,
			Highlights:      []string{"10 wash programs", "In-built heater", "5 star rated"},
			Specifications:  models.StringMap{"Capacity": "7 kg", "Type": "Top load"},
			CategoryID:      bySlug["appliances"].ID,
		},
	}
	if err := db.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
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
