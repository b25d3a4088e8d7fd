package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/cesargomez89/hummingbird/internal/domain"
)

const queryPlaylists = `
SELECT
	p.id,
	p.name,
	p.created_at,
	COUNT(pe.id) AS track_count
FROM playlist p
LEFT JOIN playlist_entry pe ON pe.playlist_id = p.id
GROUP BY p.id
ORDER BY p.name COLLATE NOCASE ASC, p.id ASC`

const queryPlaylistByID = `
SELECT
	p.id,
	p.name,
	p.created_at,
	COUNT(pe.id) AS track_count
FROM playlist p
LEFT JOIN playlist_entry pe ON pe.playlist_id = p.id
WHERE p.id = ?
GROUP BY p.id`

const queryPlaylistEntries = `
SELECT` + entryColumns + `,
	COALESCE(ar.name, '') AS artist,
	COALESCE(ar.name_sortable, '') AS artist_key
FROM playlist_entry pe
JOIN track t ON t.id = pe.track_id
LEFT JOIN album al ON al.id = t.album_id
LEFT JOIN artist ar ON ar.id = al.artist_id
WHERE pe.playlist_id = ?
ORDER BY pe.position ASC`

func (db *DB) CreatePlaylist(name string) (*domain.Playlist, error) {
	var id int64
	err := db.Get(&id, `INSERT INTO playlist (name) VALUES (?) RETURNING id`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}
	return db.GetPlaylist(id)
}

func (db *DB) GetPlaylist(id int64) (*domain.Playlist, error) {
	var playlist domain.Playlist
	err := db.Get(&playlist, queryPlaylistByID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist: %w", err)
	}
	return &playlist, nil
}

func (db *DB) ListPlaylists() ([]domain.Playlist, error) {
	var playlists []domain.Playlist
	if err := db.Select(&playlists, queryPlaylists); err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	return playlists, nil
}

func (db *DB) RenamePlaylist(id int64, name string) error {
	result, err := db.Exec(`UPDATE playlist SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename playlist: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (db *DB) DeletePlaylist(id int64) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(`DELETE FROM playlist_entry WHERE playlist_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete playlist entries: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM playlist WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit()
}

// AddPlaylistEntry appends a track to the end of a playlist.
func (db *DB) AddPlaylistEntry(playlistID, trackID int64) error {
	if _, err := db.GetPlaylist(playlistID); err != nil {
		return err
	}
	if _, err := db.GetEntry(trackID); err != nil {
		return err
	}

	query := `INSERT INTO playlist_entry (playlist_id, track_id, position)
		SELECT ?, ?, COALESCE(MAX(position) + 1, 0) FROM playlist_entry WHERE playlist_id = ?`
	if _, err := db.Exec(query, playlistID, trackID, playlistID); err != nil {
		return fmt.Errorf("failed to add playlist entry: %w", err)
	}
	return nil
}

// RemovePlaylistEntry removes the first occurrence of a track from a
// playlist and closes the position gap.
func (db *DB) RemovePlaylistEntry(playlistID, trackID int64) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var entry struct {
		ID       int64 `db:"id"`
		Position int64 `db:"position"`
	}
	err = tx.Get(&entry, `SELECT id, position FROM playlist_entry
		WHERE playlist_id = ? AND track_id = ? ORDER BY position ASC LIMIT 1`, playlistID, trackID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find playlist entry: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM playlist_entry WHERE id = ?`, entry.ID); err != nil {
		return fmt.Errorf("failed to remove playlist entry: %w", err)
	}
	if _, err := tx.Exec(`UPDATE playlist_entry SET position = position - 1
		WHERE playlist_id = ? AND position > ?`, playlistID, entry.Position); err != nil {
		return fmt.Errorf("failed to reorder playlist entries: %w", err)
	}

	return tx.Commit()
}

// PlaylistEntries returns a playlist's tracks in stored position order.
func (db *DB) PlaylistEntries(playlistID int64) ([]domain.LibraryEntry, error) {
	var entries []domain.LibraryEntry
	if err := db.Select(&entries, queryPlaylistEntries, playlistID); err != nil {
		return nil, fmt.Errorf("failed to list playlist entries: %w", err)
	}
	return entries, nil
}
