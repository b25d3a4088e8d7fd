package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/cesargomez89/hummingbird/internal/domain"
)

// entryColumns is the shared projection for playable entries: display
// fields plus the case-folded ordering keys. Missing relations surface as
// empty strings so they order ahead of named ones.
const entryColumns = `
	t.id,
	t.title,
	t.location,
	t.disc_number,
	t.track_number,
	t.duration_secs,
	COALESCE(al.title, '') AS album,
	COALESCE(al.title_sortable, '') AS album_key`

// queryEntriesByArtist is the artist view: artist, album, disc, track.
// NOCASE folds ASCII case so "abc" and "ABC" tie; absent disc and track
// numbers are NULL and order ahead of any value; the trailing id keeps
// the order total.
const queryEntriesByArtist = `
SELECT` + entryColumns + `,
	COALESCE(ar.name, '') AS artist,
	COALESCE(ar.name_sortable, '') AS artist_key
FROM track t
LEFT JOIN album al ON al.id = t.album_id
LEFT JOIN artist ar ON ar.id = al.artist_id
ORDER BY
	artist_key COLLATE NOCASE ASC,
	album_key COLLATE NOCASE ASC,
	t.disc_number ASC,
	t.track_number ASC,
	t.id ASC`

// queryEntriesByAlbum is the album view: album, disc, track. The artist
// relation is not joined and takes no part in the ordering.
const queryEntriesByAlbum = `
SELECT` + entryColumns + `,
	'' AS artist,
	'' AS artist_key
FROM track t
LEFT JOIN album al ON al.id = t.album_id
ORDER BY
	album_key COLLATE NOCASE ASC,
	t.disc_number ASC,
	t.track_number ASC,
	t.id ASC`

const queryEntryByID = `
SELECT` + entryColumns + `,
	COALESCE(ar.name, '') AS artist,
	COALESCE(ar.name_sortable, '') AS artist_key
FROM track t
LEFT JOIN album al ON al.id = t.album_id
LEFT JOIN artist ar ON ar.id = al.artist_id
WHERE t.id = ?`

const queryAlbumEntries = `
SELECT` + entryColumns + `,
	COALESCE(ar.name, '') AS artist,
	COALESCE(ar.name_sortable, '') AS artist_key
FROM track t
LEFT JOIN album al ON al.id = t.album_id
LEFT JOIN artist ar ON ar.id = al.artist_id
WHERE t.album_id = ?
ORDER BY
	t.disc_number ASC,
	t.track_number ASC,
	t.id ASC`

const queryAlbums = `
SELECT
	al.id,
	al.title,
	COALESCE(ar.name, '') AS artist,
	COUNT(t.id) AS track_count
FROM album al
LEFT JOIN artist ar ON ar.id = al.artist_id
LEFT JOIN track t ON t.album_id = al.id
GROUP BY al.id
ORDER BY %s`

const queryAlbumByID = `
SELECT
	al.id,
	al.title,
	COALESCE(ar.name, '') AS artist,
	COUNT(t.id) AS track_count
FROM album al
LEFT JOIN artist ar ON ar.id = al.artist_id
LEFT JOIN track t ON t.album_id = al.id
WHERE al.id = ?
GROUP BY al.id`

var albumSortClauses = map[domain.AlbumSort]string{
	domain.AlbumSortTitleAsc:   "al.title_sortable COLLATE NOCASE ASC, al.id ASC",
	domain.AlbumSortTitleDesc:  "al.title_sortable COLLATE NOCASE DESC, al.id DESC",
	domain.AlbumSortArtistAsc:  "COALESCE(ar.name_sortable, '') COLLATE NOCASE ASC, al.title_sortable COLLATE NOCASE ASC, al.id ASC",
	domain.AlbumSortArtistDesc: "COALESCE(ar.name_sortable, '') COLLATE NOCASE DESC, al.title_sortable COLLATE NOCASE ASC, al.id ASC",
}

// ListEntries returns every playable entry in the deterministic order of
// the given view.
func (db *DB) ListEntries(view domain.ViewMode) ([]domain.LibraryEntry, error) {
	query := queryEntriesByArtist
	if view == domain.ViewModeAlbum {
		query = queryEntriesByAlbum
	}

	var entries []domain.LibraryEntry
	if err := db.Select(&entries, query); err != nil {
		return nil, &domain.CatalogError{Op: "list entries", Err: err}
	}
	return entries, nil
}

// GetEntry returns a single playable entry by track id.
func (db *DB) GetEntry(id int64) (*domain.LibraryEntry, error) {
	var entry domain.LibraryEntry
	err := db.Get(&entry, queryEntryByID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.CatalogError{Op: "get entry", Err: err}
	}
	return &entry, nil
}

// ListAlbums returns the album listing in the given canned order.
func (db *DB) ListAlbums(sort domain.AlbumSort) ([]domain.Album, error) {
	clause, ok := albumSortClauses[sort]
	if !ok {
		return nil, fmt.Errorf("unknown album sort: %s", sort)
	}

	var albums []domain.Album
	if err := db.Select(&albums, fmt.Sprintf(queryAlbums, clause)); err != nil {
		return nil, &domain.CatalogError{Op: "list albums", Err: err}
	}
	return albums, nil
}

// GetAlbum returns a single album listing row by id.
func (db *DB) GetAlbum(id int64) (*domain.Album, error) {
	var album domain.Album
	err := db.Get(&album, queryAlbumByID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.CatalogError{Op: "get album", Err: err}
	}
	return &album, nil
}

// ListAlbumEntries returns one album's tracks in disc/track order.
func (db *DB) ListAlbumEntries(albumID int64) ([]domain.LibraryEntry, error) {
	var entries []domain.LibraryEntry
	if err := db.Select(&entries, queryAlbumEntries, albumID); err != nil {
		return nil, &domain.CatalogError{Op: "list album entries", Err: err}
	}
	return entries, nil
}

// ArtistRow, AlbumRow and TrackRow are the write-side shapes. The catalog
// is normally populated by an external scanner; these are used by tooling
// and tests.
type ArtistRow struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	NameSortable string `db:"name_sortable"`
}

type AlbumRow struct {
	ID            int64  `db:"id"`
	Title         string `db:"title"`
	TitleSortable string `db:"title_sortable"`
	ArtistID      *int64 `db:"artist_id"`
}

type TrackRow struct {
	ID            int64    `db:"id"`
	Title         string   `db:"title"`
	TitleSortable string   `db:"title_sortable"`
	AlbumID       *int64   `db:"album_id"`
	Location      string   `db:"location"`
	DiscNumber    *int64   `db:"disc_number"`
	TrackNumber   *int64   `db:"track_number"`
	DurationSecs  *float64 `db:"duration_secs"`
}

func (db *DB) CreateArtist(artist *ArtistRow) error {
	query := `INSERT INTO artist (name, name_sortable)
		VALUES (:name, :name_sortable) RETURNING id`

	rows, err := db.NamedQuery(query, artist)
	if err != nil {
		return fmt.Errorf("failed to create artist: %w", err)
	}
	defer rows.Close() //nolint:errcheck // deferred cleanup

	if rows.Next() {
		if err := rows.Scan(&artist.ID); err != nil {
			return fmt.Errorf("failed to scan artist id: %w", err)
		}
	} else if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating returning rows: %w", err)
	}

	return nil
}

func (db *DB) CreateAlbum(album *AlbumRow) error {
	query := `INSERT INTO album (title, title_sortable, artist_id)
		VALUES (:title, :title_sortable, :artist_id) RETURNING id`

	rows, err := db.NamedQuery(query, album)
	if err != nil {
		return fmt.Errorf("failed to create album: %w", err)
	}
	defer rows.Close() //nolint:errcheck // deferred cleanup

	if rows.Next() {
		if err := rows.Scan(&album.ID); err != nil {
			return fmt.Errorf("failed to scan album id: %w", err)
		}
	} else if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating returning rows: %w", err)
	}

	return nil
}

func (db *DB) CreateCatalogTrack(track *TrackRow) error {
	query := `INSERT INTO track (title, title_sortable, album_id, location, disc_number, track_number, duration_secs)
		VALUES (:title, :title_sortable, :album_id, :location, :disc_number, :track_number, :duration_secs) RETURNING id`

	rows, err := db.NamedQuery(query, track)
	if err != nil {
		return fmt.Errorf("failed to create track: %w", err)
	}
	defer rows.Close() //nolint:errcheck // deferred cleanup

	if rows.Next() {
		if err := rows.Scan(&track.ID); err != nil {
			return fmt.Errorf("failed to scan track id: %w", err)
		}
	} else if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating returning rows: %w", err)
	}

	return nil
}
