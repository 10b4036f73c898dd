package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

const unknownArtist = "Unknown Artist"

const artistTitleSeparator = " - "

// Tags holds the raw fields read from an audio file's embedded tags.
type Tags struct {
	Title  string
	Artist string
	Album  string
}

// ReadTags extracts raw tag fields from an audio file. It fails for files
// whose tag blocks are missing or unreadable.
func ReadTags(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return Tags{}, err
	}
	return Tags{Title: m.Title(), Artist: m.Artist(), Album: m.Album()}, nil
}

// Meta is the display metadata resolved for an audio file. Resolution never
// fails: files with unreadable tags fall back to filename conventions.
type Meta struct {
	Title    string
	Artist   string
	Album    string
	FromTags bool
}

// ResolveMeta reads tags from the file and fills in defaults. When the tag
// block cannot be read, the filename is split on the first " - " to recover
// artist and title.
func ResolveMeta(path string) Meta {
	tags, err := ReadTags(path)
	return resolveMeta(baseName(path), tags, err)
}

func resolveMeta(base string, tags Tags, tagErr error) Meta {
	if tagErr == nil {
		m := Meta{Title: tags.Title, Artist: tags.Artist, Album: tags.Album, FromTags: true}
		if m.Title == "" {
			m.Title = base
		}
		if m.Artist == "" {
			m.Artist = unknownArtist
		}
		return m
	}

	artist, title := SplitArtistTitle(base)
	return Meta{Title: title, Artist: artist}
}

// SplitArtistTitle splits a filename base of the form "Artist - Title" on the
// first separator. Titles containing the separator keep their remainder
// intact. Bases without a separator map to an unknown artist.
func SplitArtistTitle(base string) (artist, title string) {
	if i := strings.Index(base, artistTitleSeparator); i >= 0 {
		return strings.TrimSpace(base[:i]), strings.TrimSpace(base[i+len(artistTitleSeparator):])
	}
	return unknownArtist, base
}

func baseName(path string) string {
	b := filepath.Base(path)
	return strings.TrimSuffix(b, filepath.Ext(b))
}
