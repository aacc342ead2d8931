package database

import (
	"fmt"
	"time"

	"ledger-backend/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to postgres or mysql.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
}

// Connect opens the configured database into DB.
func Connect(cfg *config.Config) error {
	db, err := Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}
	DB = db
	return nil
}

// dialect reports the driver name behind db.
func dialect(db *gorm.DB) string {
	return db.Dialector.Name()
}
