package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blackwell-systems/devstreaks/internal/cache"
	"github.com/blackwell-systems/devstreaks/internal/platform"
)

var _ cache.Store = (*DB)(nil)

// Load implements cache.Store.
func (db *DB) Load(key cache.Key) (cache.Entry, error) {
	var storedAt, payload string
	err := db.conn.QueryRow(
		"SELECT stored_at, payload FROM cache_entries WHERE platform = ? AND username = ?",
		string(key.Platform), key.Username,
	).Scan(&storedAt, &payload)
	if err == sql.ErrNoRows {
		return cache.Entry{}, cache.ErrNotFound
	}
	if err != nil {
		return cache.Entry{}, err
	}

	var a platform.Activity
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return cache.Entry{}, fmt.Errorf("decoding cache payload for %s: %w", key, err)
	}
	t, err := time.Parse(time.RFC3339Nano, storedAt)
	if err != nil {
		return cache.Entry{}, fmt.Errorf("parsing stored_at for %s: %w", key, err)
	}
	return cache.Entry{Key: key, Activity: a, StoredAt: t}, nil
}

// Save implements cache.Store, replacing any entry with the same key.
func (db *DB) Save(e cache.Entry) error {
	payload, err := json.Marshal(e.Activity)
	if err != nil {
		return fmt.Errorf("encoding cache payload for %s: %w", e.Key, err)
	}
	_, err = db.conn.Exec(
		`INSERT OR REPLACE INTO cache_entries (platform, username, stored_at, payload)
		 VALUES (?, ?, ?, ?)`,
		string(e.Key.Platform), e.Key.Username,
		e.StoredAt.UTC().Format(time.RFC3339Nano), string(payload),
	)
	return err
}

// Delete implements cache.Store.
func (db *DB) Delete(key cache.Key) error {
	_, err := db.conn.Exec(
		"DELETE FROM cache_entries WHERE platform = ? AND username = ?",
		string(key.Platform), key.Username,
	)
	return err
}

// Clear implements cache.Store.
func (db *DB) Clear() error {
	_, err := db.conn.Exec("DELETE FROM cache_entries")
	return err
}

// ListCacheEntries describes every stored cache entry, newest first.
func (db *DB) ListCacheEntries() ([]CacheEntryInfo, error) {
	rows, err := db.conn.Query(
		"SELECT platform, username, stored_at, payload FROM cache_entries ORDER BY stored_at DESC",
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []CacheEntryInfo
	for rows.Next() {
		var info CacheEntryInfo
		var storedAt, payload string
		if err := rows.Scan(&info.Platform, &info.Username, &storedAt, &payload); err != nil {
			return nil, err
		}
		info.StoredAt, _ = time.Parse(time.RFC3339Nano, storedAt)

		var a platform.Activity
		if err := json.Unmarshal([]byte(payload), &a); err == nil {
			info.Days = len(a.Days)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
