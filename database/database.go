package database

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"conference-app/internal/domain/billing"
	"conference-app/internal/domain/conference"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	DB *gorm.DB

	once    sync.Once
	initErr error
)

// Init opens the shared pool once; later calls return the same handle.
func Init(dsn string, zl zerolog.Logger) (*gorm.DB, error) {
	once.Do(func() {
		if dsn == "" {
			initErr = errors.New("DB_URL not set")
			return
		}
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			TranslateError: true,
			Logger: gormlogger.New(log.New(zl, "", 0), gormlogger.Config{
				SlowThreshold:             500 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			}),
		})
		if err != nil {
			initErr = fmt.Errorf("connect to database: %w", err)
			return
		}
		sqlDB, err := db.DB()
		if err != nil {
			initErr = fmt.Errorf("database pool: %w", err)
			return
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)

		DB = db
		zl.Info().Msg("connected to database")
	})
	return DB, initErr
}

// Get returns the pool opened by Init, or nil.
func Get() *gorm.DB {
	return DB
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the tables of every record kind.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&conference.Registration{},
		&conference.Abstract{},
		&billing.Transaction{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
