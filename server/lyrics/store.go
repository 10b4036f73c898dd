package lyrics

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/KerianM/music-search-api/server"
)

// ErrOutsideRoot is returned when an asset name resolves outside the lyric root.
var ErrOutsideRoot = errors.New("lyrics: path escapes lyric root")

// assetExtensions lists lyric file extensions in discovery priority order.
var assetExtensions = []string{"lrc", "txt"}

// Store manages lyric assets under a single directory. Assets are named
// "{artist} - {title}.{ext}" and are write-once: an existing file is never
// replaced, even by a different transcription.
type Store struct {
	dir    string
	logger server.Logger
}

// NewStore creates a lyric store rooted at dir. The directory is created
// lazily on the first write.
func NewStore(dir string, logger server.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Dir returns the lyric root directory.
func (s *Store) Dir() string {
	return s.dir
}

// AssetName builds the canonical lyric file name for an artist/title pair.
func AssetName(artist, title string) string {
	return artist + " - " + title + ".lrc"
}

// Save writes text under the given asset name unless a file with that exact
// name already exists. Returns true when a new file was written.
func (s *Store) Save(name, text string) (bool, error) {
	path, err := s.Resolve(name)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return false, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			if s.logger != nil {
				s.logger.Debug("lyric file already exists, skipping save", "name", name)
			}
			return false, nil
		}
		return false, err
	}

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		os.Remove(path)
		return false, err
	}
	if err := f.Close(); err != nil {
		return false, err
	}

	if s.logger != nil {
		s.logger.Info("lyric file saved", "name", name)
	}
	return true, nil
}

// Resolve maps an asset name to an absolute path and rejects names that
// escape the lyric root.
func (s *Store) Resolve(name string) (string, error) {
	absRoot, err := filepath.Abs(s.dir)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(filepath.Join(absRoot, filepath.FromSlash(name)))
	if err != nil {
		return "", err
	}
	if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(os.PathSeparator)) {
		return "", ErrOutsideRoot
	}
	return absPath, nil
}

// Find locates an existing lyric asset for a track. It tries, per extension
// in priority order, the "{artist} - {title}" name first and the
// filename-derived base second. Returns the asset name of the first hit.
func (s *Store) Find(artist, title, fallbackBase string) (string, bool) {
	for _, ext := range assetExtensions {
		if artist != "" && title != "" {
			name := artist + " - " + title + "." + ext
			if s.exists(name) {
				return name, true
			}
		}
		if fallbackBase != "" {
			name := fallbackBase + "." + ext
			if s.exists(name) {
				return name, true
			}
		}
	}
	return "", false
}

func (s *Store) exists(name string) bool {
	path, err := s.Resolve(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
