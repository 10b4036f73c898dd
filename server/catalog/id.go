package catalog

import (
	"crypto/md5"
	"encoding/hex"
)

const idLength = 22

// MusicID derives the stable track identifier from a music-root relative
// path. The same path always yields the same ID, across restarts and hosts,
// so IDs never need to be persisted. Callers must pass slash-separated
// relative paths so IDs stay portable between platforms.
func MusicID(relPath string) string {
	sum := md5.Sum([]byte(relPath))
	return hex.EncodeToString(sum[:])[:idLength]
}
