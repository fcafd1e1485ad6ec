package db

import (
	"database/sql"
	"fmt"
)

// SavePersonalitySnapshot stores the serialized personality state. The
// snapshot is opaque to this layer; there is only ever one row.
func (d *DB) SavePersonalitySnapshot(snapshot string) error {
	_, err := d.conn.Exec(
		`INSERT INTO personality_snapshots (id, snapshot) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = datetime('now')`,
		snapshot,
	)
	if err != nil {
		return fmt.Errorf("saving personality snapshot: %w", err)
	}
	return nil
}

// LoadPersonalitySnapshot returns the stored snapshot, or "" when none
// has been saved yet.
func (d *DB) LoadPersonalitySnapshot() (string, error) {
	var snapshot string
	err := d.conn.QueryRow("SELECT snapshot FROM personality_snapshots WHERE id = 1").Scan(&snapshot)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading personality snapshot: %w", err)
	}
	return snapshot, nil
}
