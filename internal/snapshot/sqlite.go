package snapshot

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
)

// SQLiteStore keeps every saved snapshot as a JSON blob, newest last.
// Load returns the most recent one.
type SQLiteStore struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

var _ Store = (*SQLiteStore)(nil)

// Record is one saved snapshot in the history.
type Record struct {
	ID      int64
	SavedAt time.Time
	Date    time.Time
	Boats   int
}

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "harbor.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !stderrors.Is(err, os.ErrExist) {
		return nil, errors.PersistenceFailed("open", fmt.Errorf("create dirs: %w", err))
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.PersistenceFailed("open", fmt.Errorf("open sqlite: %w", err))
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		saved_at TEXT NOT NULL,
		harbor_date TEXT NOT NULL,
		boats INTEGER NOT NULL,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, errors.PersistenceFailed("open", fmt.Errorf("create snapshots table: %w", err))
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database location.
func (s *SQLiteStore) Path() string { return s.path }

// Save appends snap to the history.
func (s *SQLiteStore) Save(ctx context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := Encode(snap)
	if err != nil {
		return errors.PersistenceFailed("save", err)
	}
	boats := 0
	for _, d := range snap.Docks {
		boats += len(d.Boats)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots(saved_at, harbor_date, boats, payload) VALUES(?,?,?,?)`,
		time.Now().UTC().Format(time.RFC3339Nano), snap.Date.UTC().Format(time.RFC3339), boats, data)
	if err != nil {
		return errors.PersistenceFailed("save", fmt.Errorf("insert snapshot: %w", err))
	}
	return nil
}

// Load returns the most recently saved snapshot.
func (s *SQLiteStore) Load(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots ORDER BY id DESC LIMIT 1`).Scan(&data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, errors.PersistenceFailed("load", fmt.Errorf("%s: %w", s.path, ErrNotFound))
	}
	if err != nil {
		return Snapshot{}, errors.PersistenceFailed("load", fmt.Errorf("select snapshot: %w", err))
	}
	snap, err := Decode(data)
	if err != nil {
		return Snapshot{}, errors.PersistenceFailed("load", err)
	}
	return snap, nil
}

// History lists saved snapshots, newest first, at most limit entries.
// A limit <= 0 lists all of them.
func (s *SQLiteStore) History(ctx context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT id, saved_at, harbor_date, boats FROM snapshots ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.PersistenceFailed("history", fmt.Errorf("select history: %w", err))
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var (
			r             Record
			saved, harbor string
		)
		if err := rows.Scan(&r.ID, &saved, &harbor, &r.Boats); err != nil {
			return nil, errors.PersistenceFailed("history", fmt.Errorf("scan: %w", err))
		}
		r.SavedAt, _ = time.Parse(time.RFC3339Nano, saved)
		r.Date, _ = time.Parse(time.RFC3339, harbor)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.PersistenceFailed("history", err)
	}
	return records, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
