package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/noticeboard/internal/model"
)

// SQLiteStore implements NoticeStore using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ NoticeStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and
// enables WAL mode. The schema is not touched until EnsureSchema runs.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One connection keeps ":memory:" databases coherent and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// EnsureSchema checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	currentVersion := 0

	var tableCount int
	err := s.db.GetContext(ctx,
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.GetContext(ctx, &currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// AppendNotice inserts a single notice row.
func (s *SQLiteStore) AppendNotice(ctx context.Context, n model.Notice) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO notices (id, title, body, date) VALUES (?, ?, ?, ?)",
		n.ID, n.Title, n.Body, n.Date,
	)
	if err != nil {
		return fmt.Errorf("appending notice %s: %w", n.ID, err)
	}
	return nil
}

// ListNotices returns all notices ordered by insertion.
func (s *SQLiteStore) ListNotices(ctx context.Context) ([]model.Notice, error) {
	notices := []model.Notice{}
	err := s.db.SelectContext(ctx, &notices,
		"SELECT id, title, body, date FROM notices ORDER BY seq",
	)
	if err != nil {
		return nil, fmt.Errorf("listing notices: %w", err)
	}
	return notices, nil
}
