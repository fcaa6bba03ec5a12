package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the history database after a bump.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const schemaSQL = `
CREATE TABLE schema_version (
    version INTEGER NOT NULL
);

CREATE TABLE runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL UNIQUE,
    status TEXT NOT NULL,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    tracks_json TEXT,
    audio_path TEXT,
    video_path TEXT,
    youtube_video_id TEXT,
    error_message TEXT
);

CREATE INDEX idx_runs_started_at ON runs(started_at);
`

// Store persists generation runs in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Begin records the start of a run and returns its row ID.
func (s *Store) Begin(ctx context.Context, runID string, tracks []TrackRecord) (int64, error) {
	tracksJSON, err := json.Marshal(tracks)
	if err != nil {
		return 0, fmt.Errorf("marshal tracks: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, status, started_at, tracks_json) VALUES (?, ?, ?, ?)`,
		runID,
		StatusRunning,
		time.Now().UTC().Format(time.RFC3339Nano),
		string(tracksJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// UpdateTracks replaces the per-track detail of a run, used once assembly
// knows which tracks were skipped.
func (s *Store) UpdateTracks(ctx context.Context, id int64, tracks []TrackRecord) error {
	tracksJSON, err := json.Marshal(tracks)
	if err != nil {
		return fmt.Errorf("marshal tracks: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET tracks_json = ? WHERE id = ?`, string(tracksJSON), id)
	if err != nil {
		return fmt.Errorf("update tracks: %w", err)
	}
	return requireRow(res, id)
}

// Complete marks a run finished with its artifact paths.
func (s *Store) Complete(ctx context.Context, id int64, audioPath, videoPath string) error {
	return s.finish(ctx, id, StatusCompleted,
		"audio_path = ?, video_path = ?", audioPath, videoPath)
}

// RecordUpload marks a completed run as uploaded with the published video ID.
func (s *Store) RecordUpload(ctx context.Context, id int64, videoID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, youtube_video_id = ? WHERE id = ?`,
		StatusUploaded, videoID, id,
	)
	if err != nil {
		return fmt.Errorf("record upload: %w", err)
	}
	return requireRow(res, id)
}

// Fail marks a run failed with the reported reason.
func (s *Store) Fail(ctx context.Context, id int64, reason string) error {
	return s.finish(ctx, id, StatusFailed, "error_message = ?", reason)
}

func (s *Store) finish(ctx context.Context, id int64, status Status, setClause string, args ...any) error {
	query := fmt.Sprintf(
		`UPDATE runs SET status = ?, finished_at = ?, %s WHERE id = ?`, setClause)
	queryArgs := append([]any{status, time.Now().UTC().Format(time.RFC3339Nano)}, args...)
	queryArgs = append(queryArgs, id)

	res, err := s.db.ExecContext(ctx, query, queryArgs...)
	if err != nil {
		return fmt.Errorf("update run %d: %w", id, err)
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %d not found", id)
	}
	return nil
}

// GetByRunID fetches a run by its UUID. Missing runs resolve to nil.
func (s *Store) GetByRunID(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first, capped at limit.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

const runColumns = `id, run_id, status, started_at, finished_at,
    tracks_json, audio_path, video_path, youtube_video_id, error_message`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run        Run
		status     string
		startedAt  string
		finishedAt sql.NullString
		tracksJSON sql.NullString
		audioPath  sql.NullString
		videoPath  sql.NullString
		videoID    sql.NullString
		errMessage sql.NullString
	)
	if err := row.Scan(&run.ID, &run.RunID, &status, &startedAt, &finishedAt,
		&tracksJSON, &audioPath, &videoPath, &videoID, &errMessage); err != nil {
		return nil, err
	}

	run.Status = Status(status)
	started, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	run.StartedAt = started
	if finishedAt.Valid && finishedAt.String != "" {
		finished, err := time.Parse(time.RFC3339Nano, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at: %w", err)
		}
		run.FinishedAt = finished
	}
	if tracksJSON.Valid && tracksJSON.String != "" {
		if err := json.Unmarshal([]byte(tracksJSON.String), &run.Tracks); err != nil {
			return nil, fmt.Errorf("decode tracks: %w", err)
		}
	}
	run.AudioPath = audioPath.String
	run.VideoPath = videoPath.String
	run.YouTubeVideoID = videoID.String
	run.ErrorMessage = errMessage.String
	return &run, nil
}
