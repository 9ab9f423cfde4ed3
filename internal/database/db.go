package database

import (
	"fmt"
	"time"

	"payroll/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 500 * time.Millisecond

// NewConnection opens the PostgreSQL pool and migrates the payroll schema.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := Open(postgres.Open(dsn))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Warnf("Failed to auto-migrate models: %v", err)
	}

	return db, nil
}

// Open wraps dialector in a gorm.DB that translates driver errors and logs
// through the package logger.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(printfLogger{}, logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
}

// Migrate creates or alters the payroll tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Loc{},
		&model.Period{},
		&model.Invoice{},
		&model.AuditLog{},
	)
}

// printfLogger feeds gorm's logger into the DB subsystem.
type printfLogger struct{}

func (printfLogger) Printf(format string, args ...interface{}) {
	log.Warn(fmt.Sprintf(format, args...))
}
