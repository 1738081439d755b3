package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/keyjam/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteBackend stores the history in a SQLite database.
type SQLiteBackend struct {
	db *sql.DB
	// version is PRAGMA data_version as of the last Load or check.
	version int64
}

// OpenSQLite opens or creates the SQLite database and applies migrations.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// data_version is per connection, so every statement shares one.
	db.SetMaxOpenConns(1)
	backend := &SQLiteBackend{db: db}
	if err := backend.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return backend, nil
}

// Close closes the underlying database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS streak_events (
			id TEXT PRIMARY KEY,
			seq INTEGER NOT NULL,
			recorded_at TEXT NOT NULL,
			streak_count INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_streak_events_seq ON streak_events(seq);`,
	}
	for _, stmt := range stmts {
		if _, err := b.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Load implements Backend.
func (b *SQLiteBackend) Load(ctx context.Context) ([]model.StreakEvent, error) {
	if version, err := b.dataVersion(ctx); err == nil {
		b.version = version
	}
	rows, err := b.db.QueryContext(ctx,
		`SELECT id, recorded_at, streak_count FROM streak_events ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var events []model.StreakEvent
	for rows.Next() {
		var ev model.StreakEvent
		var recordedAt string
		if err := rows.Scan(&ev.ID, &recordedAt, &ev.StreakCount); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp of %s: %w", ev.ID, err)
		}
		ev.Timestamp = parsed
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Save implements Backend by replacing every row in one transaction.
func (b *SQLiteBackend) Save(ctx context.Context, events []model.StreakEvent) (err error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM streak_events`); err != nil {
		return err
	}
	if len(events) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO streak_events (id, seq, recorded_at, streak_count) VALUES (?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, ev := range events {
			if _, err = stmt.ExecContext(ctx, ev.ID, i, ev.Timestamp.Format(time.RFC3339Nano), ev.StreakCount); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}

// Clear implements Backend.
func (b *SQLiteBackend) Clear(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, `DELETE FROM streak_events`)
	return err
}

// Changed implements ChangeDetector. data_version moves only when another
// connection commits.
func (b *SQLiteBackend) Changed(ctx context.Context) (bool, error) {
	version, err := b.dataVersion(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read data version: %w", err)
	}
	changed := version != b.version
	b.version = version
	return changed, nil
}

func (b *SQLiteBackend) dataVersion(ctx context.Context) (int64, error) {
	var version int64
	err := b.db.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&version)
	return version, err
}
