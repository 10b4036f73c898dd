package httpd

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KerianM/music-search-api/server"
	"github.com/KerianM/music-search-api/server/catalog"
	"github.com/KerianM/music-search-api/server/lyrics"
	"github.com/KerianM/music-search-api/server/resolver"
)

// Handler bundles the route handlers with their collaborators.
type Handler struct {
	Resolver  *resolver.Resolver
	Catalog   *catalog.Catalog
	Lyrics    *lyrics.Store
	ServerURL string
	Logger    server.Logger
	StartedAt time.Time
}

// Register attaches all routes to the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", h.index)
	r.GET("/health", h.health)
	r.GET("/search", h.search)
	r.GET("/stream", h.stream)
	r.GET("/info", h.info)
	r.GET("/music/*filepath", h.musicFile)
	r.GET("/lyrics/*filepath", h.lyricFile)
}

func respondError(c *gin.Context, status int, errText, message string) {
	c.JSON(status, gin.H{"error": errText, "message": message})
}

// nullable maps an empty string to JSON null.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func (h *Handler) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "Music Search API",
		"description": "Search music across remote providers and a local library, stream audio and serve lyrics",
		"endpoints": gin.H{
			"GET /search?keyword=":  "Resolve a keyword to a playable track",
			"GET /stream?id=":       "Stream a local track by ID with range support",
			"GET /info?id=":         "Track metadata by ID",
			"GET /music/:filename":  "Serve a local audio file by name",
			"GET /lyrics/:filename": "Serve a lyric file by name",
			"GET /health":           "Service health",
		},
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.StartedAt).Seconds(),
	})
}

func (h *Handler) search(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		respondError(c, http.StatusBadRequest, "Missing keyword parameter", "Please provide a keyword query parameter")
		return
	}

	ref, err := h.Resolver.Resolve(c.Request.Context(), keyword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"title":    ref.Title,
			"artist":   ref.Artist,
			"songUrl":  ref.SongURL,
			"lyricUrl": nullable(ref.LyricURL),
		})
	case errors.Is(err, resolver.ErrAllDisabled):
		respondError(c, http.StatusServiceUnavailable, "Search disabled", "All search sources are disabled in configuration")
	case errors.Is(err, resolver.ErrNoMatch):
		respondError(c, http.StatusNotFound, "Music not found", "No result for keyword: "+keyword)
	default:
		h.Logger.Error("search failed", "keyword", keyword, "error", err)
		respondError(c, http.StatusInternalServerError, "Internal server error", "Search failed unexpectedly")
	}
}

func (h *Handler) stream(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		respondError(c, http.StatusBadRequest, "Missing id parameter", "Please provide an id query parameter")
		return
	}

	entry, err := h.Catalog.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Music not found", "No track with id: "+id)
			return
		}
		h.Logger.Error("stream lookup failed", "id", id, "error", err)
		respondError(c, http.StatusInternalServerError, "Internal server error", "Track lookup failed")
		return
	}

	serveAudio(c, entry.FilePath, h.Logger)
}

func (h *Handler) info(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		respondError(c, http.StatusBadRequest, "Missing id parameter", "Please provide an id query parameter")
		return
	}

	entry, err := h.Catalog.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Music not found", "No track with id: "+id)
			return
		}
		h.Logger.Error("info lookup failed", "id", id, "error", err)
		respondError(c, http.StatusInternalServerError, "Internal server error", "Track lookup failed")
		return
	}

	var lyricURL string
	if entry.LyricName != "" {
		lyricURL = h.ServerURL + "/lyrics/" + url.PathEscape(entry.LyricName)
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        entry.ID,
		"title":     entry.Title,
		"artist":    entry.Artist,
		"album":     nullable(entry.Album),
		"streamUrl": h.ServerURL + "/stream?id=" + entry.ID,
		"lyricUrl":  nullable(lyricURL),
	})
}

func (h *Handler) musicFile(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filepath"), "/")
	path, err := resolveUnder(h.Catalog.Root(), name)
	if err != nil {
		respondError(c, http.StatusForbidden, "Access denied", "Requested path is outside the music directory")
		return
	}
	if !fileExists(path) {
		respondError(c, http.StatusNotFound, "Music file not found", "No such file: "+name)
		return
	}
	serveAudio(c, path, h.Logger)
}

func (h *Handler) lyricFile(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("filepath"), "/")
	path, err := h.Lyrics.Resolve(name)
	if err != nil {
		respondError(c, http.StatusForbidden, "Access denied", "Requested path is outside the lyrics directory")
		return
	}
	if !fileExists(path) {
		respondError(c, http.StatusNotFound, "Lyrics not found", "No such file: "+name)
		return
	}
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.File(path)
}

// resolveUnder joins name onto root and rejects results that escape it.
func resolveUnder(root, name string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(filepath.Join(absRoot, filepath.FromSlash(name)))
	if err != nil {
		return "", err
	}
	if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(os.PathSeparator)) {
		return "", errors.New("path escapes root")
	}
	return absPath, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
