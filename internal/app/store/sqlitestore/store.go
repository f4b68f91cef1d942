// Package sqlitestore implements the store contract on a local SQLite
// file. It is the backend for single-box installs that have no database
// server: the portal state lives in one file next to the binary, the way
// the browser build of this portal kept it in local storage.
package sqlitestore

import (
	"context"
	"database/sql"

	"github.com/edsonjmoreira/bi-portal/internal/app/store"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id          TEXT PRIMARY KEY,
	username    TEXT NOT NULL,
	username_ci TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	status      TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS reports (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	src        TEXT NOT NULL,
	is_visible INTEGER NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS user_grants (
	user_id   TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	report_id TEXT NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
	PRIMARY KEY (user_id, report_id)
);

CREATE TABLE IF NOT EXISTS theme (
	id              INTEGER PRIMARY KEY CHECK (id = 1),
	primary_color   TEXT NOT NULL DEFAULT '',
	secondary_color TEXT NOT NULL DEFAULT '',
	header_title    TEXT NOT NULL DEFAULT '',
	header_subtitle TEXT NOT NULL DEFAULT '',
	logo_url        TEXT NOT NULL DEFAULT '',
	footer_text     TEXT NOT NULL DEFAULT ''
);
`

// Store is the SQLite-backed store.Store.
type Store struct {
	db      *sql.DB
	users   *Users
	reports *Reports
	theme   *Theme
}

// Open opens (creating if needed) the database at path. SQLite supports a
// single writer, so the pool is capped at one connection.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	return &Store{
		db:      db,
		users:   &Users{db: db},
		reports: &Reports{db: db},
		theme:   &Theme{db: db},
	}, nil
}

func (s *Store) Users() store.UserStore     { return s.users }
func (s *Store) Reports() store.ReportStore { return s.reports }
func (s *Store) Theme() store.ThemeStore    { return s.theme }

// EnsureSchema creates the tables. Idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.db.Close()
}
