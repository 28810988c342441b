package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/malcolmdjones/dishco-sub002/internal/domain"
)

// SQLite is a durable key-value store backed by the kv_entries table.
// The table is created by the database package migrations.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite wraps an opened and migrated SQLite database
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db, now: time.Now}
}

// Get returns the value or domain.ErrKeyNotFound when missing or expired
func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		value     []byte
		expiresAt sql.NullInt64
	)

	const query = `SELECT value, expires_at FROM kv_entries WHERE key = ?`
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	if expiresAt.Valid && s.now().UnixNano() > expiresAt.Int64 {
		return nil, domain.ErrKeyNotFound
	}
	return value, nil
}

// Set upserts the value; ttl <= 0 never expires
func (s *SQLite) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: s.now().Add(ttl).UnixNano(), Valid: true}
	}
	if value == nil {
		value = []byte{}
	}

	const query = `
		INSERT INTO kv_entries (key, value, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, value, expiresAt); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key; missing keys are not an error
func (s *SQLite) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Exists checks if a key exists and is not expired
func (s *SQLite) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if errors.Is(err, domain.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PurgeExpired deletes expired rows and returns how many were removed
func (s *SQLite) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM kv_entries WHERE expires_at IS NOT NULL AND expires_at < ?`, s.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("purge expired: %w", err)
	}
	return res.RowsAffected()
}

// RunPurger calls PurgeExpired every interval until ctx is done.
// A non-positive interval uses DefaultCleanupInterval.
func (s *SQLite) RunPurger(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PurgeExpired(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("[KV] Purge failed: %v", err)
				}
				continue
			}
			if n > 0 {
				log.Printf("[KV] Purged %d expired entries", n)
			}
		}
	}
}
