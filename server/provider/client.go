package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"

	"github.com/KerianM/music-search-api/server"
	"github.com/KerianM/music-search-api/server/lyrics"
)

// minSongURLLen rejects placeholder or error strings that some upstreams
// return in the audio URL field. Real media links are comfortably longer.
const minSongURLLen = 30

// Options configures a remote provider client.
type Options struct {
	Timeout   time.Duration
	ServerURL string
	Lyrics    *lyrics.Store
	Logger    server.Logger
}

// Client queries one remote music API through a circuit breaker, validates
// the result, persists the lyric text locally and rewrites the lyric link to
// a self-hosted URL.
type Client struct {
	adapter    Adapter
	httpClient *retryablehttp.Client
	breaker    *gobreaker.CircuitBreaker
	lyrics     *lyrics.Store
	serverURL  string
	logger     server.Logger
}

// NewClient creates a client for the given adapter.
func NewClient(adapter Adapter, opts Options) *Client {
	httpClient := retryablehttp.NewClient()
	// One round trip per lookup. Falling through to the next source is the
	// recovery path, not retrying the same upstream.
	httpClient.RetryMax = 0
	httpClient.Logger = nil
	if opts.Timeout > 0 {
		httpClient.HTTPClient.Timeout = opts.Timeout
	}

	settings := gobreaker.Settings{
		Name:        adapter.Name + "-api",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}

	return &Client{
		adapter:    adapter,
		httpClient: httpClient,
		breaker:    gobreaker.NewCircuitBreaker(settings),
		lyrics:     opts.Lyrics,
		serverURL:  strings.TrimRight(opts.ServerURL, "/"),
		logger:     opts.Logger,
	}
}

// Name returns the adapter name.
func (c *Client) Name() string {
	return c.adapter.Name
}

// Search asks the upstream for the best match on keyword. A result is only
// returned when it has lyric text and a plausible audio URL; anything less is
// an error so the caller can fall through to the next source.
func (c *Client) Search(ctx context.Context, keyword string) (*TrackRef, error) {
	result, err := c.fetch(ctx, keyword)
	if err != nil {
		return nil, wrapError(c.adapter.Name, err)
	}

	if strings.TrimSpace(result.LyricText) == "" {
		return nil, wrapError(c.adapter.Name, fmt.Errorf("%w for %q", ErrNoLyrics, result.Title))
	}

	assetName := lyrics.AssetName(result.Artist, result.Title)
	if _, err := c.lyrics.Save(assetName, result.LyricText); err != nil {
		return nil, wrapError(c.adapter.Name, fmt.Errorf("save lyric: %w", err))
	}

	if len(result.SongURL) < minSongURLLen {
		return nil, wrapError(c.adapter.Name, fmt.Errorf("%w: %q", ErrBadAudioURL, result.SongURL))
	}

	if c.logger != nil {
		c.logger.Info("remote search hit", "provider", c.adapter.Name, "title", result.Title, "artist", result.Artist)
	}

	return &TrackRef{
		Title:    result.Title,
		Artist:   result.Artist,
		SongURL:  result.SongURL,
		LyricURL: c.serverURL + "/lyrics/" + url.PathEscape(assetName),
	}, nil
}

func (c *Client) fetch(ctx context.Context, keyword string) (*SongResult, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		requestURL := c.adapter.Endpoint + "?" + c.adapter.Query(keyword).Encode()
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		return c.adapter.Parse(body)
	})
	if err != nil {
		return nil, err
	}
	return out.(*SongResult), nil
}
