// Package sqlite is the relational alternate to the in-memory store. It
// satisfies the same repository ports, so the services (and the broadcast
// path layered on them) run unchanged against either driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"meetsync/application/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meetings (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	start_time   TEXT NOT NULL,
	end_time     TEXT,
	location     TEXT NOT NULL DEFAULT '',
	meeting_link TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meeting_participants (
	meeting_id INTEGER NOT NULL,
	user_id    INTEGER NOT NULL,
	position   INTEGER NOT NULL,
	PRIMARY KEY (meeting_id, user_id)
);

CREATE TABLE IF NOT EXISTS tasks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	priority    TEXT,
	due_date    TEXT,
	meeting_id  INTEGER,
	assigned_to INTEGER,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
`

// Store wraps the database handle and hands out repository views
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs the schema
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// modernc sqlite serializes access itself; one connection avoids
	// SQLITE_BUSY on concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Meetings returns the meeting repository view of the store
func (s *Store) Meetings() ports.MeetingRepository { return &meetingRepository{db: s.db} }

// Tasks returns the task repository view of the store
func (s *Store) Tasks() ports.TaskRepository { return &taskRepository{db: s.db} }

// Users returns the user repository view of the store
func (s *Store) Users() ports.UserRepository { return &userRepository{db: s.db} }

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func formatNullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullableInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func fromNullableInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
