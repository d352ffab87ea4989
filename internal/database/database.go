package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/entities"
)

// migratedModels lists every table owned by the catalog database.
var migratedModels = []any{
	&entities.Author{},
	&entities.Book{},
	&entities.AuditEvent{},
}

type Database struct {
	DB   *gorm.DB
	Path string
}

func NewDatabase(dbPath string) (*Database, error) {
	return NewDatabaseWithLogLevel(dbPath, logger.Info)
}

// NewDatabaseWithLogLevel opens (creating if needed) the SQLite file at dbPath,
// enables foreign key enforcement and migrates the schema.
func NewDatabaseWithLogLevel(dbPath string, level logger.LogLevel) (*Database, error) {
	if err := ensureDir(dbPath); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(migratedModels...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db, Path: dbPath}, nil
}

// dsn appends the pragmas every connection in the pool needs.
// SQLite does not enforce foreign keys unless asked to on each connection.
func dsn(dbPath string) string {
	separator := "?"
	if strings.Contains(dbPath, "?") {
		separator = "&"
	}
	return dbPath + separator + "_foreign_keys=on&_busy_timeout=5000"
}

func ensureDir(dbPath string) error {
	if dbPath == ":memory:" || strings.HasPrefix(dbPath, "file:") {
		return nil
	}
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection pool is usable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Tables returns the names of the tables currently present in the database.
func (d *Database) Tables() ([]string, error) {
	return d.DB.Migrator().GetTables()
}
