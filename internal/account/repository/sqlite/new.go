// Package sqlite persists accounts, repository links, settings and
// credentials in a single SQLite file. Tokens are encrypted at rest.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"pr-rca-service/pkg/encrypter"
	pkgLog "pr-rca-service/pkg/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id        TEXT PRIMARY KEY,
	email     TEXT NOT NULL UNIQUE,
	name      TEXT NOT NULL DEFAULT '',
	is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS subscriptions (
	user_id TEXT PRIMARY KEY,
	plan_id TEXT NOT NULL,
	status  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS repositories (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	org_url    TEXT NOT NULL,
	project    TEXT NOT NULL,
	webhook_id TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_repositories_user ON repositories(user_id);

CREATE TABLE IF NOT EXISTS settings (
	user_id               TEXT PRIMARY KEY,
	ai_model              TEXT NOT NULL DEFAULT '',
	deep_thinking         INTEGER NOT NULL DEFAULT 0,
	send_emails           INTEGER NOT NULL DEFAULT 0,
	auto_detect_developer INTEGER NOT NULL DEFAULT 0,
	notification_emails   TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS credentials (
	user_id       TEXT PRIMARY KEY,
	access_token  TEXT NOT NULL,
	refresh_token TEXT NOT NULL,
	expires_at    INTEGER NOT NULL
);
`

// Store implements account.Repository on SQLite. It also backs the
// credential manager and the analysis registry.
type Store struct {
	db  *sql.DB
	enc encrypter.Encrypter
	l   pkgLog.Logger
}

// New opens (or creates) the database at path and applies the schema.
func New(path string, enc encrypter.Encrypter, l pkgLog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent webhook bursts.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, enc: enc, l: l}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
