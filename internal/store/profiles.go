package store

import (
	"database/sql"
	"strings"
	"time"
)

// GetProfile returns the named profile. A missing profile is returned
// empty, not as an error.
func (db *DB) GetProfile(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	p := Profile{Name: name}

	var updatedAt string
	err := db.conn.QueryRow(
		"SELECT github, leetcode, updated_at FROM profiles WHERE name = ?", name,
	).Scan(&p.GitHub, &p.LeetCode, &updatedAt)
	if err == sql.ErrNoRows {
		return p, nil
	}
	if err != nil {
		return Profile{}, err
	}
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}

// SaveProfile inserts or replaces a profile. Usernames are trimmed.
func (db *DB) SaveProfile(p Profile) (Profile, error) {
	if p.Name == "" {
		p.Name = DefaultProfile
	}
	p.GitHub = strings.TrimSpace(p.GitHub)
	p.LeetCode = strings.TrimSpace(p.LeetCode)
	p.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	_, err := db.conn.Exec(
		`INSERT INTO profiles (name, github, leetcode, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			github = excluded.github,
			leetcode = excluded.leetcode,
			updated_at = excluded.updated_at`,
		p.Name, p.GitHub, p.LeetCode, p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}
