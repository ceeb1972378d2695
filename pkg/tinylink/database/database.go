package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mikepea/tinylink/pkg/tinylink/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Options tunes the connection pool
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connect opens a pooled database handle.
// postgres:// and postgresql:// DSNs use Postgres; anything else is a SQLite path.
func Connect(dsn string, opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(dialectorFor(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	return db, nil
}

func dialectorFor(dsn string) gorm.Dialector {
	if IsPostgres(dsn) {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

// IsPostgres reports whether dsn selects the Postgres driver
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Bootstrap makes sure the links table exists.
// Several instances may start at once; losing the create race is not an error.
func Bootstrap(ctx context.Context, db *gorm.DB, table string) error {
	tx := db.WithContext(ctx)
	err := models.AutoMigrate(tx, table)
	if err == nil {
		return nil
	}

	if !tx.Migrator().HasTable(table) {
		return fmt.Errorf("bootstrap table %s: %w", table, err)
	}

	log.Printf("Table %s appeared during bootstrap (%v), retrying migration", table, err)
	if err := models.AutoMigrate(tx, table); err != nil {
		return fmt.Errorf("bootstrap table %s: %w", table, err)
	}
	return nil
}

// Ping checks that the database is reachable
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
