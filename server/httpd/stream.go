package httpd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/KerianM/music-search-api/server"
)

var mimeTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".wav":  "audio/wav",
	".aac":  "audio/aac",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
}

func contentTypeFor(path string) string {
	if mime, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return "application/octet-stream"
}

// parseRange interprets a single-range bytes header against a file size.
// Multi-range, suffix-range and malformed headers report !ok, which degrades
// the response to a full 200 rather than an error.
func parseRange(header string, size int64) (start, end int64, ok bool) {
	const prefix = "bytes="
	if header == "" || !strings.HasPrefix(header, prefix) || size == 0 {
		return 0, 0, false
	}
	spec := strings.TrimPrefix(header, prefix)
	if strings.Contains(spec, ",") {
		return 0, 0, false
	}

	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
		return 0, 0, false
	}

	start, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || start < 0 || start >= size {
		return 0, 0, false
	}

	end = size - 1
	if p := strings.TrimSpace(parts[1]); p != "" {
		end, err = strconv.ParseInt(p, 10, 64)
		if err != nil || end < start {
			return 0, 0, false
		}
		if end >= size {
			end = size - 1
		}
	}
	return start, end, true
}

// serveAudio streams a local file, honoring a single-range request with a 206
// and a bounded window over the file.
func serveAudio(c *gin.Context, path string, logger server.Logger) {
	info, err := os.Stat(path)
	if err != nil {
		respondError(c, http.StatusNotFound, "Music file not found", "The requested audio file does not exist")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error", "Failed to open audio file")
		return
	}
	defer f.Close()

	size := info.Size()
	c.Header("Content-Type", contentTypeFor(path))
	c.Header("Accept-Ranges", "bytes")

	if start, end, ok := parseRange(c.GetHeader("Range"), size); ok {
		length := end - start + 1
		c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
		c.Header("Content-Length", strconv.FormatInt(length, 10))
		c.Status(http.StatusPartialContent)
		if _, err := io.Copy(c.Writer, io.NewSectionReader(f, start, length)); err != nil && logger != nil {
			logger.Debug("stream aborted", "path", path, "error", err)
		}
		return
	}

	c.Header("Content-Length", strconv.FormatInt(size, 10))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, f); err != nil && logger != nil {
		logger.Debug("stream aborted", "path", path, "error", err)
	}
}
