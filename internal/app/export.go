package app

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/cesargomez89/hummingbird/internal/domain"
	"github.com/cesargomez89/hummingbird/internal/logger"
	"github.com/cesargomez89/hummingbird/internal/store"
)

// PlaylistExporter writes stored playlists out as extended M3U, which
// every other player can import.
type PlaylistExporter struct {
	Repo   *store.DB
	Logger *logger.Logger
}

func NewPlaylistExporter(repo *store.DB, log *logger.Logger) *PlaylistExporter {
	return &PlaylistExporter{Repo: repo, Logger: log.WithComponent("export")}
}

// Export writes the playlist to w and returns it, so callers can name
// the download after it.
func (x *PlaylistExporter) Export(w io.Writer, playlistID int64) (*domain.Playlist, error) {
	pl, err := x.Repo.GetPlaylist(playlistID)
	if err != nil {
		return nil, err
	}
	entries, err := x.Repo.PlaylistEntries(playlistID)
	if err != nil {
		return nil, err
	}
	if err := WriteM3U(w, entries); err != nil {
		return nil, fmt.Errorf("failed to write playlist: %w", err)
	}
	x.Logger.Info("Exported playlist", "playlist_id", pl.ID, "name", pl.Name, "entries", len(entries))
	return pl, nil
}

// WriteM3U writes entries as an extended M3U document. Unknown
// durations are written as -1 per the format's convention.
func WriteM3U(w io.Writer, entries []domain.LibraryEntry) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("#EXTM3U\n"); err != nil {
		return err
	}
	for _, e := range entries {
		secs := int64(-1)
		if e.DurationSecs != nil {
			secs = int64(math.Round(*e.DurationSecs))
		}
		label := e.Title
		if e.Artist != "" {
			label = fmt.Sprintf("%s - %s", e.Artist, e.Title)
		}
		if _, err := fmt.Fprintf(bw, "#EXTINF:%d,%s\n%s\n", secs, label, e.Location); err != nil {
			return err
		}
	}
	return bw.Flush()
}
