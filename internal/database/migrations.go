package database

import (
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Schema creates the runs table and its indexes.
const Schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id UUID PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		environment VARCHAR(50) NOT NULL,
		browser VARCHAR(50) NOT NULL DEFAULT '',
		status VARCHAR(50) NOT NULL,
		failure TEXT NOT NULL DEFAULT '',
		screenshot VARCHAR(512) NOT NULL DEFAULT '',
		started_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		finished_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`

// RunMigrations creates the necessary database tables
func RunMigrations(db *sql.DB, log logrus.FieldLogger) error {
	if db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}
