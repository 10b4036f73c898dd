package catalog

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/KerianM/music-search-api/server"
	"github.com/KerianM/music-search-api/server/lyrics"
)

// ErrNotFound is returned when no file in the music directory matches.
var ErrNotFound = errors.New("catalog: no matching track")

var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".aac":  true,
	".m4a":  true,
	".ogg":  true,
}

// Entry describes one audio file in the music directory.
type Entry struct {
	ID        string
	Title     string
	Artist    string
	Album     string
	FilePath  string // absolute path on disk
	RelPath   string // music-root relative, slash separated
	LyricName string // lyric asset name, empty when none exists
}

// Catalog enumerates the music directory on demand. There is no persistent
// index: every lookup walks the directory tree, so files added or removed
// between requests are picked up immediately.
type Catalog struct {
	root   string
	lyrics *lyrics.Store
	pool   server.WorkerPool
	logger server.Logger
}

// New creates a catalog over the given music directory.
func New(root string, lyricStore *lyrics.Store, pool server.WorkerPool, logger server.Logger) *Catalog {
	return &Catalog{root: root, lyrics: lyricStore, pool: pool, logger: logger}
}

// Root returns the music directory path.
func (c *Catalog) Root() string {
	return c.root
}

// FindByID locates the file whose derived ID matches. IDs are recomputed
// during the walk rather than looked up in a table.
func (c *Catalog) FindByID(ctx context.Context, id string) (*Entry, error) {
	files, err := c.listAudioFiles()
	if err != nil {
		return nil, err
	}

	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if MusicID(rel) == id {
			return c.entryFor(rel), nil
		}
	}
	return nil, ErrNotFound
}

// SearchKeyword scans the music directory for the first file, in sorted path
// order, whose metadata matches the keyword. Tag extraction fans out over the
// worker pool; the reduce step keeps enumeration order so results are
// deterministic.
func (c *Catalog) SearchKeyword(ctx context.Context, keyword string) (*Entry, error) {
	files, err := c.listAudioFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNotFound
	}

	matched := make([]bool, len(files))
	var wg sync.WaitGroup
	for i, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		i, rel := i, rel
		task := func() {
			defer wg.Done()
			matched[i] = c.matches(rel, keyword)
		}

		wg.Add(1)
		if c.pool == nil || c.pool.Submit(task) != nil {
			task()
		}
	}
	wg.Wait()

	for i, ok := range matched {
		if ok {
			return c.entryFor(files[i]), nil
		}
	}
	return nil, ErrNotFound
}

func (c *Catalog) matches(rel, keyword string) bool {
	abs := filepath.Join(c.root, filepath.FromSlash(rel))
	tags, err := ReadTags(abs)
	if err != nil && c.logger != nil {
		c.logger.Debug("tag read failed, matching on filename", "path", rel, "error", err)
	}
	return matchKeyword(keyword, tags, err, baseName(rel))
}

// matchKeyword decides whether a file matches a search keyword. Matching is
// bidirectional: a field matches when it contains the keyword or the keyword
// contains the field. The second direction lets concatenated queries like
// "周杰伦晴天" find "周杰伦 - 晴天.mp3". Tag fields are authoritative when
// readable; the filename and its artist/title split serve as fallback.
func matchKeyword(keyword string, tags Tags, tagErr error, base string) bool {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return false
	}

	if tagErr == nil {
		return fieldMatch(kw, tags.Title) || fieldMatch(kw, tags.Artist) || fieldMatch(kw, tags.Album)
	}

	if fieldMatch(kw, base) {
		return true
	}
	artist, title := SplitArtistTitle(base)
	if artist != unknownArtist && fieldMatch(kw, artist) {
		return true
	}
	return title != base && fieldMatch(kw, title)
}

func fieldMatch(kw, field string) bool {
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		return false
	}
	return strings.Contains(field, kw) || strings.Contains(kw, field)
}

// listAudioFiles walks the music directory and returns sorted relative paths
// of recognized audio files. A missing music directory yields an empty list
// rather than an error.
func (c *Catalog) listAudioFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == c.root && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !audioExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		rel, err := filepath.Rel(c.root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func (c *Catalog) entryFor(rel string) *Entry {
	abs := filepath.Join(c.root, filepath.FromSlash(rel))
	meta := ResolveMeta(abs)

	entry := &Entry{
		ID:       MusicID(rel),
		Title:    meta.Title,
		Artist:   meta.Artist,
		Album:    meta.Album,
		FilePath: abs,
		RelPath:  rel,
	}
	if c.lyrics != nil {
		if name, ok := c.lyrics.Find(meta.Artist, meta.Title, baseName(rel)); ok {
			entry.LyricName = name
		}
	}
	return entry
}
