package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Submission is one finished widget submission. The returned payload is
// never stored.
type Submission struct {
	ID           string
	SessionID    string
	URL          string
	Pattern      string
	WithMetadata bool
	WithComments bool
	Status       string
	Error        string
	Duration     time.Duration
	CreatedAt    time.Time
}

type Store struct {
	db *sql.DB
}

func InitializeDB(dbPath string) (*Store, error) {
	logrus.WithField("path", dbPath).Info("Initializing database")

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "creating directory for database")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS submissions (
                    id TEXT PRIMARY KEY,
                    session_id TEXT NOT NULL DEFAULT '',
                    url TEXT NOT NULL,
                    pattern TEXT NOT NULL DEFAULT '',
                    with_metadata BOOLEAN NOT NULL DEFAULT 0,
                    with_comments BOOLEAN NOT NULL DEFAULT 0,
                    status TEXT NOT NULL,
                    error TEXT NOT NULL DEFAULT '',
                    duration_ms INTEGER NOT NULL DEFAULT 0,
                    created_at DATETIME NOT NULL
)`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating table")
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_submissions_created_at ON submissions(created_at)`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating index")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores s, assigning an id and timestamp when they are unset.
func (s *Store) Record(ctx context.Context, sub Submission) (Submission, error) {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sub, errors.Wrap(err, "beginning transaction")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO submissions
        (id, session_id, url, pattern, with_metadata, with_comments, status, error, duration_ms, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return sub, errors.Wrap(err, "preparing statement")
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		sub.ID, sub.SessionID, sub.URL, sub.Pattern,
		sub.WithMetadata, sub.WithComments, sub.Status, sub.Error,
		sub.Duration.Milliseconds(), sub.CreatedAt,
	)
	if err != nil {
		tx.Rollback()
		return sub, errors.Wrap(err, "executing statement")
	}

	if err := tx.Commit(); err != nil {
		return sub, errors.Wrap(err, "committing transaction")
	}

	return sub, nil
}

// Recent returns up to limit submissions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Submission, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, session_id, url, pattern, with_metadata, with_comments,
        status, error, duration_ms, created_at
        FROM submissions ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying database")
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var (
			sub        Submission
			durationMS int64
		)
		if err := rows.Scan(
			&sub.ID, &sub.SessionID, &sub.URL, &sub.Pattern,
			&sub.WithMetadata, &sub.WithComments, &sub.Status, &sub.Error,
			&durationMS, &sub.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scanning row")
		}
		sub.Duration = time.Duration(durationMS) * time.Millisecond
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating rows")
	}

	return subs, nil
}
