// Package store provides a SQLite-backed cache of fetched subscription
// snapshots. The cache exists for offline viewing only; notification
// eligibility always runs against a fresh fetch.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/subwatch/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache holds the snapshot database. Only the most recent snapshot is
// retained.
type Cache struct {
	db *sql.DB
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "subwatch")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "subwatch")
}

// DefaultPath returns the full path to the snapshot database.
func DefaultPath() string {
	return filepath.Join(CacheDir(), "subwatch.db")
}

// Open opens or creates the snapshot database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the snapshot database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Snapshot is one cached fetch.
type Snapshot struct {
	FetchedAt     time.Time
	Subscriptions []model.Subscription
}

// SaveSnapshot replaces the cached snapshot with the given rows in one
// transaction.
func (c *Cache) SaveSnapshot(fetchedAt time.Time, subs []model.Subscription) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Single-snapshot retention; cascade clears the old rows.
	if _, err := tx.Exec("DELETE FROM snapshots"); err != nil {
		return err
	}

	res, err := tx.Exec("INSERT INTO snapshots (fetched_at, row_count) VALUES (?, ?)",
		fetchedAt.UTC().Format(time.RFC3339), len(subs))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i, s := range subs {
		_, err := tx.Exec(`INSERT INTO snapshot_rows
			(snapshot_id, position, name, cost_raw, cost_display, date_remaining, status, next_renewal)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, i, s.Name, s.CostRaw, s.CostDisplay, s.DateRemaining, s.Status, s.NextRenewal)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadLatest returns the most recent snapshot, or nil when nothing is
// cached yet.
func (c *Cache) LoadLatest() (*Snapshot, error) {
	var id int64
	var fetchedAt string
	err := c.db.QueryRow("SELECT id, fetched_at FROM snapshots ORDER BY id DESC LIMIT 1").
		Scan(&id, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	snap.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)

	rows, err := c.db.Query(`SELECT name, cost_raw, cost_display, date_remaining, status, next_renewal
		FROM snapshot_rows WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name, costDisplay, status, nextRenewal sql.NullString
		var costRaw sql.NullFloat64
		var dateRemaining sql.NullInt64

		if err := rows.Scan(&name, &costRaw, &costDisplay, &dateRemaining, &status, &nextRenewal); err != nil {
			return nil, err
		}

		var sub model.Subscription
		if name.Valid {
			v := name.String
			sub.Name = &v
		}
		if costRaw.Valid {
			v := costRaw.Float64
			sub.CostRaw = &v
		}
		if costDisplay.Valid {
			v := costDisplay.String
			sub.CostDisplay = &v
		}
		if dateRemaining.Valid {
			v := int(dateRemaining.Int64)
			sub.DateRemaining = &v
		}
		if status.Valid {
			v := status.String
			sub.Status = &v
		}
		if nextRenewal.Valid {
			v := nextRenewal.String
			sub.NextRenewal = &v
		}

		snap.Subscriptions = append(snap.Subscriptions, sub)
	}
	return snap, rows.Err()
}
