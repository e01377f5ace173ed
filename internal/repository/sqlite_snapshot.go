package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/agileplanner/internal/db"
	"github.com/alexanderramin/agileplanner/internal/domain"
)

const (
	kindHistory   = "history"
	kindAvailable = "available"

	collectionRemaining = "remaining"
	collectionPlanned   = "planned"

	noSprint = -1
)

// SQLiteSnapshotRepo implements SnapshotRepo using a SQLite database.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

func NewSQLiteSnapshotRepo(conn db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: conn}
}

// Create writes the snapshot and all of its collections. Run it inside a
// UnitOfWork to make the write atomic.
func (r *SQLiteSnapshotRepo) Create(ctx context.Context, s *domain.Snapshot) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, taken_at, source) VALUES (?, ?, ?)`,
		s.ID, formatTime(s.TakenAt), s.Source)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	if err := r.insertSprints(ctx, s.ID, kindHistory, s.Sprints); err != nil {
		return err
	}
	if err := r.insertSprints(ctx, s.ID, kindAvailable, s.AvailableSprints); err != nil {
		return err
	}
	if err := r.insertStories(ctx, s.ID, collectionRemaining, noSprint, s.Remaining); err != nil {
		return err
	}
	if err := r.insertStories(ctx, s.ID, collectionPlanned, noSprint, s.PlannedStories); err != nil {
		return err
	}
	for i, rel := range s.PlannedReleases {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO snapshot_releases (snapshot_id, position, name, start_date, release_date)
			VALUES (?, ?, ?, ?, ?)`,
			s.ID, i, rel.Name, formatTime(rel.StartDate), formatTime(rel.ReleaseDate))
		if err != nil {
			return fmt.Errorf("inserting release %q: %w", rel.Name, err)
		}
	}
	return nil
}

func (r *SQLiteSnapshotRepo) insertSprints(ctx context.Context, snapshotID, kind string, sprints []domain.Sprint) error {
	for i, sp := range sprints {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO snapshot_sprints (snapshot_id, kind, position, name, started_at, completed_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			snapshotID, kind, i, sp.Name, formatTime(sp.StartedAt), formatTime(sp.CompletedAt))
		if err != nil {
			return fmt.Errorf("inserting %s sprint %q: %w", kind, sp.Name, err)
		}
		if err := r.insertStories(ctx, snapshotID, kind, i, sp.Stories); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteSnapshotRepo) insertStories(ctx context.Context, snapshotID, collection string, sprintPos int, stories []domain.Story) error {
	for i, st := range stories {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO snapshot_stories
				(snapshot_id, collection, sprint_position, position, name, story_points, status, priority)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			snapshotID, collection, sprintPos, i, st.Name, st.StoryPoints, string(st.Status), st.Priority)
		if err != nil {
			return fmt.Errorf("inserting %s story %q: %w", collection, st.Name, err)
		}
	}
	return nil
}

func (r *SQLiteSnapshotRepo) GetByID(ctx context.Context, id string) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, taken_at, source FROM snapshots WHERE id = ?`, id)
	return r.load(ctx, row)
}

func (r *SQLiteSnapshotRepo) Latest(ctx context.Context) (*domain.Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, taken_at, source FROM snapshots ORDER BY taken_at DESC, rowid DESC LIMIT 1`)
	return r.load(ctx, row)
}

func (r *SQLiteSnapshotRepo) List(ctx context.Context) ([]domain.SnapshotInfo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT s.id, s.taken_at, s.source,
			(SELECT COUNT(*) FROM snapshot_sprints sp WHERE sp.snapshot_id = s.id AND sp.kind = 'history'),
			(SELECT COUNT(*) FROM snapshot_stories st WHERE st.snapshot_id = s.id)
		FROM snapshots s ORDER BY s.taken_at DESC, s.rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []domain.SnapshotInfo
	for rows.Next() {
		var info domain.SnapshotInfo
		var takenAt string
		if err := rows.Scan(&info.ID, &takenAt, &info.Source, &info.SprintCount, &info.StoryCount); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		if info.TakenAt, err = parseTime("taken_at", takenAt); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return out, nil
}

func (r *SQLiteSnapshotRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	return nil
}

// load scans the snapshot header and then reads each collection. Each query
// is drained before the next starts so a single-connection pool never
// blocks on itself.
func (r *SQLiteSnapshotRepo) load(ctx context.Context, row *sql.Row) (*domain.Snapshot, error) {
	var s domain.Snapshot
	var takenAt string
	if err := row.Scan(&s.ID, &takenAt, &s.Source); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}
	var err error
	if s.TakenAt, err = parseTime("taken_at", takenAt); err != nil {
		return nil, err
	}

	sprints, err := r.loadSprints(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	stories, err := r.loadStories(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	if s.PlannedReleases, err = r.loadReleases(ctx, s.ID); err != nil {
		return nil, err
	}

	s.Sprints = attachStories(sprints[kindHistory], kindHistory, stories)
	s.AvailableSprints = attachStories(sprints[kindAvailable], kindAvailable, stories)
	s.Remaining = stories[storyKey{collectionRemaining, noSprint}]
	s.PlannedStories = stories[storyKey{collectionPlanned, noSprint}]
	return &s, nil
}

type storyKey struct {
	collection string
	sprintPos  int
}

func attachStories(sprints []domain.Sprint, kind string, stories map[storyKey][]domain.Story) []domain.Sprint {
	for i := range sprints {
		sprints[i].Stories = stories[storyKey{kind, i}]
		if sprints[i].Stories == nil {
			sprints[i].Stories = []domain.Story{}
		}
	}
	return sprints
}

func (r *SQLiteSnapshotRepo) loadSprints(ctx context.Context, snapshotID string) (map[string][]domain.Sprint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT kind, name, started_at, completed_at FROM snapshot_sprints
		WHERE snapshot_id = ? ORDER BY kind, position`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshot sprints: %w", err)
	}
	defer rows.Close()

	out := map[string][]domain.Sprint{}
	for rows.Next() {
		var kind, startedAt, completedAt string
		var sp domain.Sprint
		if err := rows.Scan(&kind, &sp.Name, &startedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scanning sprint row: %w", err)
		}
		if sp.StartedAt, err = parseTime("started_at", startedAt); err != nil {
			return nil, err
		}
		if sp.CompletedAt, err = parseTime("completed_at", completedAt); err != nil {
			return nil, err
		}
		out[kind] = append(out[kind], sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sprints: %w", err)
	}
	return out, nil
}

func (r *SQLiteSnapshotRepo) loadStories(ctx context.Context, snapshotID string) (map[storyKey][]domain.Story, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT collection, sprint_position, name, story_points, status, priority FROM snapshot_stories
		WHERE snapshot_id = ? ORDER BY collection, sprint_position, position`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshot stories: %w", err)
	}
	defer rows.Close()

	out := map[storyKey][]domain.Story{}
	for rows.Next() {
		var key storyKey
		var st domain.Story
		var status string
		if err := rows.Scan(&key.collection, &key.sprintPos, &st.Name, &st.StoryPoints, &status, &st.Priority); err != nil {
			return nil, fmt.Errorf("scanning story row: %w", err)
		}
		st.Status = domain.StoryStatus(status)
		out[key] = append(out[key], st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stories: %w", err)
	}
	return out, nil
}

func (r *SQLiteSnapshotRepo) loadReleases(ctx context.Context, snapshotID string) ([]domain.Release, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, start_date, release_date FROM snapshot_releases
		WHERE snapshot_id = ? ORDER BY position`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshot releases: %w", err)
	}
	defer rows.Close()

	var out []domain.Release
	for rows.Next() {
		var rel domain.Release
		var start, release string
		if err := rows.Scan(&rel.Name, &start, &release); err != nil {
			return nil, fmt.Errorf("scanning release row: %w", err)
		}
		if rel.StartDate, err = parseTime("start_date", start); err != nil {
			return nil, err
		}
		if rel.ReleaseDate, err = parseTime("release_date", release); err != nil {
			return nil, err
		}
		out = append(out, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating releases: %w", err)
	}
	return out, nil
}
