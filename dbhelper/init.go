package dbhelper

import (
	"fmt"
	"time"

	"outfitbot/config"
	"outfitbot/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Minute * 5)

	if err := MigrateAll(db); err != nil {
		return nil, err
	}
	return db, nil
}

// SetupTestDB opens a private in-memory sqlite database with the schema applied.
func SetupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	// every new connection to :memory: would get an empty database
	sqlDB.SetMaxOpenConns(1)
	if err := MigrateAll(db); err != nil {
		panic(err)
	}
	return db
}

func MigrateAll(db *gorm.DB) error {
	for _, model := range []interface{}{&models.ClothingRecord{}, &models.PushLog{}} {
		if err := Migrate(db, model); err != nil {
			return err
		}
	}
	return nil
}
