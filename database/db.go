package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

var DB *sql.DB

// Open ouvre un pool PostgreSQL avec le driver demandé ("postgres" ou "pgx")
func Open(driver, connStr string) (*sql.DB, error) {
	switch driver {
	case "", "postgres":
		driver = "postgres"
	case "pgx":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, err
	}

	// Pool de connexions
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func Init(driver, connStr string) error {
	var err error
	DB, err = Open(driver, connStr)
	return err
}

func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
