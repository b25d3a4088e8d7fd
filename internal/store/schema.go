package store

const Schema = `
CREATE TABLE IF NOT EXISTS artist (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	name_sortable TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS album (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	title_sortable TEXT NOT NULL,
	artist_id INTEGER,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,

	FOREIGN KEY (artist_id) REFERENCES artist(id)
);

CREATE INDEX IF NOT EXISTS idx_album_artist_id ON album(artist_id);

CREATE TABLE IF NOT EXISTS track (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	title_sortable TEXT NOT NULL,
	album_id INTEGER,
	location TEXT NOT NULL,
	disc_number INTEGER,
	track_number INTEGER,
	duration_secs REAL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,

	FOREIGN KEY (album_id) REFERENCES album(id)
);

CREATE INDEX IF NOT EXISTS idx_track_album_id ON track(album_id);

-- Player-owned tables

CREATE TABLE IF NOT EXISTS playlist (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS playlist_entry (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	playlist_id INTEGER NOT NULL,
	track_id INTEGER NOT NULL,
	position INTEGER NOT NULL,

	FOREIGN KEY (playlist_id) REFERENCES playlist(id),
	FOREIGN KEY (track_id) REFERENCES track(id)
);

CREATE INDEX IF NOT EXISTS idx_playlist_entry_order ON playlist_entry(playlist_id, position);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
