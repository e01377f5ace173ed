package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is CREATE ... IF NOT
// EXISTS, so the whole list re-runs on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		id         TEXT PRIMARY KEY,
		taken_at   TEXT NOT NULL,
		source     TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at ON snapshots(taken_at)`,

	`CREATE TABLE IF NOT EXISTS snapshot_sprints (
		snapshot_id  TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		kind         TEXT NOT NULL CHECK(kind IN ('history','available')),
		position     INTEGER NOT NULL CHECK(position >= 0),
		name         TEXT NOT NULL,
		started_at   TEXT NOT NULL,
		completed_at TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, kind, position)
	)`,

	`CREATE TABLE IF NOT EXISTS snapshot_stories (
		snapshot_id     TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		collection      TEXT NOT NULL
		                CHECK(collection IN ('history','available','remaining','planned')),
		sprint_position INTEGER NOT NULL DEFAULT -1,
		position        INTEGER NOT NULL CHECK(position >= 0),
		name            TEXT NOT NULL,
		story_points    REAL NOT NULL DEFAULT 0 CHECK(story_points >= 0),
		status          TEXT NOT NULL DEFAULT '',
		priority        INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (snapshot_id, collection, sprint_position, position)
	)`,

	`CREATE TABLE IF NOT EXISTS snapshot_releases (
		snapshot_id  TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		position     INTEGER NOT NULL CHECK(position >= 0),
		name         TEXT NOT NULL,
		start_date   TEXT NOT NULL,
		release_date TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, position)
	)`,
}
