package attachment

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// MigrateLegacyTable copies sync state from the old offload_files table
// into per-attachment tags. Earlier releases tracked remote copies in a
// dedicated table; the sync engine only reads tags, so rows are moved
// over once at startup and existing tags are never overwritten.
func MigrateLegacyTable(db *sql.DB, store Store, logger zerolog.Logger) error {
	var name string
	err := db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'offload_files'`,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check for legacy table: %w", err)
	}

	rows, err := db.Query(`SELECT attachment_id, remote_url, remote_id FROM offload_files`)
	if err != nil {
		return fmt.Errorf("failed to read legacy table: %w", err)
	}
	defer rows.Close()

	// Read everything before writing; SQLite dislikes writes while a
	// cursor is open.
	type legacyRow struct {
		id        int64
		remoteURL string
		remoteID  string
	}
	var legacy []legacyRow
	for rows.Next() {
		var r legacyRow
		if err := rows.Scan(&r.id, &r.remoteURL, &r.remoteID); err != nil {
			return err
		}
		legacy = append(legacy, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	migrated := 0
	for _, r := range legacy {
		existing, err := store.GetTag(r.id, TagRemoteURL)
		if err != nil {
			return err
		}
		if existing != "" {
			continue
		}

		if err := store.SetTag(r.id, TagRemoteURL, r.remoteURL); err != nil {
			return err
		}
		if err := store.SetTag(r.id, TagRemoteID, r.remoteID); err != nil {
			return err
		}
		migrated++
	}

	if migrated > 0 {
		logger.Info().Int("migrated", migrated).Msg("Migrated legacy offload table to attachment tags")
	}
	return nil
}
