// Package session persists per-session usage ledgers in SQLite and serializes
// concurrent section approvals through optimistic version checks. Sessions are
// fully independent of each other; only commits against the same session
// contend.
package session

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// InitDB opens the SQLite database at baseDir/sessions.db, creating the
// directory and applying migrations as needed. The baseDir parameter allows
// tests to use t.TempDir() instead of the configured data directory.
func InitDB(baseDir string) (db *sql.DB, err error) {
	err = os.MkdirAll(baseDir, 0700)
	if err != nil {
		err = errors.Wrapf(err, "failed to create data directory: %s", baseDir)
		return db, err
	}

	// Pragmas in the connection string apply to every pooled connection.
	dbPath := filepath.Join(baseDir, "sessions.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err = sql.Open("sqlite", dsn)
	if err != nil {
		err = errors.Wrapf(err, "failed to open database: %s", dbPath)
		return db, err
	}

	err = migrate(db)
	if err != nil {
		_ = db.Close()
		db = nil
		err = errors.Wrap(err, "failed to migrate database")
		return db, err
	}

	return db, err
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) (err error) {
	var version int
	err = db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		err = errors.Wrap(err, "failed to read user_version")
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS sessions (
		  id           TEXT PRIMARY KEY,
		  company      TEXT NOT NULL,
		  role         TEXT NOT NULL,
		  used_json    TEXT NOT NULL,
		  blocked_json TEXT NOT NULL,
		  version      INTEGER NOT NULL,
		  created_at   INTEGER NOT NULL,
		  updated_at   INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_updated
		ON sessions(updated_at DESC);

		PRAGMA user_version = 1;
		`
		_, err = db.Exec(schema)
		if err != nil {
			err = errors.Wrap(err, "failed to apply schema v1")
			return err
		}
	}

	return err
}
