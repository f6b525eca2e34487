package database

import (
	"database/sql"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/platewise/platewise/config"
)

var Platewise *sql.DB

const migrationsPath = "file://database/migrations"

func ConnectAndMigrate() error {
	db, err := sql.Open("postgres", config.DatabaseURL())
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		return err
	}
	Platewise = db

	m, err := migrate.New(migrationsPath, config.DatabaseURL())
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func ShutdownDatabase() error {
	return Platewise.Close()
}

// Tx runs fn inside a transaction, committing only if fn returns nil.
func Tx(fn func(tx *sql.Tx) error) error {
	tx, err := Platewise.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logrus.Errorf("failed to rollback transaction, error: %v", rbErr)
		}
		return err
	}
	return tx.Commit()
}
