// Package storage handles data persistence: SQLite database and the
// filesystem-backed object store for brochure binaries.
package storage

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql
)

// Schema is embedded in the binary — no migration files need to exist at
// runtime. The brands table holds the profile fields the brochure pipeline
// reads plus the artifact metadata columns it writes back.
const schema = `
CREATE TABLE IF NOT EXISTS brands (
    id                    TEXT PRIMARY KEY,
    brand_name            TEXT NOT NULL,
    category              TEXT NOT NULL DEFAULT '',
    brand_story           TEXT NOT NULL DEFAULT '',
    founded_year          TEXT NOT NULL DEFAULT '',
    headquarters          TEXT NOT NULL DEFAULT '',
    investment_range      TEXT NOT NULL DEFAULT '',
    business_models       TEXT NOT NULL DEFAULT '[]',
    revenue_model         TEXT NOT NULL DEFAULT '',
    expected_roi          TEXT NOT NULL DEFAULT '',
    franchise_fee         TEXT NOT NULL DEFAULT '',
    equipment_cost        TEXT NOT NULL DEFAULT '',
    marketing_cost        TEXT NOT NULL DEFAULT '',
    working_capital       TEXT NOT NULL DEFAULT '',
    brand_logo            TEXT NOT NULL DEFAULT '',
    brand_image           TEXT NOT NULL DEFAULT '',
    support_types         TEXT NOT NULL DEFAULT '[]',
    owner_email           TEXT NOT NULL DEFAULT '',
    owner_phone           TEXT NOT NULL DEFAULT '',
    brochure_url          TEXT,
    brochure_filename     TEXT,
    brochure_generated_at DATETIME,
    brochure_size         INTEGER,
    brochure_version      TEXT,
    brochure_error        TEXT,
    brochure_failed_at    DATETIME,
    created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_brands_category ON brands(category);
`

// NewDatabase opens a SQLite connection, validates it, and runs migrations.
// The DSN pragmas: WAL mode allows concurrent reads while writing,
// busy_timeout waits up to 5s instead of failing on lock contention.
func NewDatabase(dbPath string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", dbPath)

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Ping actually opens the connection (Open is lazy in database/sql)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// SQLite performs best with a single writer connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
