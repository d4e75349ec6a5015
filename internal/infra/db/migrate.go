package db

import (
	"context"
	"database/sql"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS polls_question (
    id            BIGSERIAL PRIMARY KEY,
    question_text VARCHAR(200) NOT NULL,
    pub_date      TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS polls_choice (
    id          BIGSERIAL PRIMARY KEY,
    question_id BIGINT NOT NULL REFERENCES polls_question(id) ON DELETE CASCADE,
    choice_text VARCHAR(200) NOT NULL,
    votes       INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0)
)`,
	// the index page filters and sorts on pub_date
	`CREATE INDEX IF NOT EXISTS idx_polls_question_pub_date ON polls_question(pub_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_polls_choice_question_id ON polls_choice(question_id)`,
}

// pub_date is stored as fixed-width UTC text so that string order equals time order.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS polls_question (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    question_text TEXT NOT NULL,
    pub_date      TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS polls_choice (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    question_id INTEGER NOT NULL REFERENCES polls_question(id) ON DELETE CASCADE,
    choice_text TEXT NOT NULL,
    votes       INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0)
)`,
	`CREATE INDEX IF NOT EXISTS idx_polls_question_pub_date ON polls_question(pub_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_polls_choice_question_id ON polls_choice(question_id)`,
}

var dropStatements = []string{
	`DROP INDEX IF EXISTS idx_polls_choice_question_id`,
	`DROP INDEX IF EXISTS idx_polls_question_pub_date`,
	`DROP TABLE IF EXISTS polls_choice`,
	`DROP TABLE IF EXISTS polls_question`,
}

// MigrateUp creates the polls tables and indexes for the given driver.
// Every statement is idempotent, so it is safe to run on each start.
func MigrateUp(ctx context.Context, db *sql.DB, driver string) error {
	var statements []string
	switch driver {
	case DriverPostgres:
		statements = postgresSchema
	case DriverSQLite:
		statements = sqliteSchema
	default:
		return fmt.Errorf("migrate: unsupported driver %q", driver)
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
	}
	return nil
}

// MigrateDown drops the polls tables and indexes.
// Use with caution: this deletes every question, choice and vote.
func MigrateDown(ctx context.Context, db *sql.DB) error {
	for _, stmt := range dropStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate down: %w", err)
		}
	}
	return nil
}
