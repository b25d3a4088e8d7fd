// Package tags reads embedded metadata and artwork out of media files.
package tags

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"

	"github.com/cesargomez89/hummingbird/internal/constants"
	"github.com/cesargomez89/hummingbird/internal/domain"
)

// Read returns the embedded tags and front cover of the media file at
// location. Formats without tag support return empty metadata, no
// artwork, and no error.
func Read(location string) (domain.Metadata, *domain.Artwork, error) {
	switch strings.ToLower(filepath.Ext(location)) {
	case constants.ExtMP3:
		return readMP3(location)
	case constants.ExtFLAC:
		return readFLAC(location)
	default:
		return domain.Metadata{}, nil, nil
	}
}

func readMP3(location string) (domain.Metadata, *domain.Artwork, error) {
	tag, err := id3v2.Open(location, id3v2.Options{Parse: true})
	if err != nil {
		return domain.Metadata{}, nil, fmt.Errorf("failed to parse mp3 tags: %w", err)
	}
	defer tag.Close() //nolint:errcheck // read only

	m := domain.Metadata{
		Title:  tag.Title(),
		Artist: tag.Artist(),
		Album:  tag.Album(),
		Genre:  tag.Genre(),
		Year:   tag.Year(),
	}

	// Prefer the front cover; fall back to whatever picture comes first.
	var art *domain.Artwork
	for _, fr := range tag.GetFrames(tag.CommonID("Attached picture")) {
		pf, ok := fr.(id3v2.PictureFrame)
		if !ok {
			continue
		}
		if art == nil || pf.PictureType == id3v2.PTFrontCover {
			art = &domain.Artwork{MIME: pf.MimeType, Data: pf.Picture}
		}
		if pf.PictureType == id3v2.PTFrontCover {
			break
		}
	}
	return m, art, nil
}

func readFLAC(location string) (domain.Metadata, *domain.Artwork, error) {
	f, err := flac.ParseFile(location)
	if err != nil {
		return domain.Metadata{}, nil, fmt.Errorf("failed to parse flac metadata: %w", err)
	}

	var m domain.Metadata
	var art *domain.Artwork
	haveFront := false
	for _, block := range f.Meta {
		switch block.Type {
		case flac.VorbisComment:
			cmt, err := flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				continue
			}
			m.Title = firstComment(cmt, flacvorbis.FIELD_TITLE)
			m.Artist = joinComments(cmt, flacvorbis.FIELD_ARTIST)
			m.Album = firstComment(cmt, flacvorbis.FIELD_ALBUM)
			m.Genre = firstComment(cmt, flacvorbis.FIELD_GENRE)
			m.Year = firstComment(cmt, flacvorbis.FIELD_DATE)
		case flac.Picture:
			if haveFront {
				continue
			}
			pic, err := flacpicture.ParseFromMetaDataBlock(*block)
			if err != nil {
				continue
			}
			if art == nil || pic.PictureType == flacpicture.PictureTypeFrontCover {
				art = &domain.Artwork{MIME: pic.MIME, Data: pic.ImageData}
				haveFront = pic.PictureType == flacpicture.PictureTypeFrontCover
			}
		}
	}
	return m, art, nil
}

func firstComment(cmt *flacvorbis.MetaDataBlockVorbisComment, field string) string {
	vals, err := cmt.Get(field)
	if err != nil || len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// joinComments joins repeated comments, so multi-artist tracks show
// every credited artist.
func joinComments(cmt *flacvorbis.MetaDataBlockVorbisComment, field string) string {
	vals, err := cmt.Get(field)
	if err != nil || len(vals) == 0 {
		return ""
	}
	return strings.Join(vals, ", ")
}
