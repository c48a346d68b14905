package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"properties-api/config"
	"properties-api/domain"
)

// Open conecta a la base elegida en cfg.DBDriver
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverMySQL:
		log.Printf("Connecting to MySQL at %s:%s/%s", cfg.DBHost, cfg.DBPort, cfg.DBName)
		dialector = mysql.Open(cfg.DSN())
	case config.DriverSQLite:
		log.Printf("Opening SQLite database %s", cfg.SQLitePath)
		dialector = sqlite.Open(SQLiteDSN(cfg.SQLitePath))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newLogger(cfg.DBLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	return db, nil
}

// SQLiteDSN activa las foreign keys, que SQLite trae apagadas
func SQLiteDSN(path string) string {
	if strings.Contains(path, "_pragma=foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

// Migrate crea o actualiza las tablas users y properties.
// users va primero para que la foreign key owner_id tenga destino.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.User{}, &domain.Property{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func newLogger(level string) logger.Interface {
	lvl := logger.Warn
	switch strings.ToLower(level) {
	case "silent":
		lvl = logger.Silent
	case "error":
		lvl = logger.Error
	case "info":
		lvl = logger.Info
	}
	return logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}
