package provider

import (
	"encoding/json"
	"fmt"
	"net/url"
)

const (
	defaultQQEndpoint   = "https://api.yaohud.cn/api/music/qq"
	defaultMiguEndpoint = "https://api.yuafeng.cn/API/ly/mgmusic.php"
)

// Adapter captures everything source-specific about a remote music API: its
// endpoint, how a keyword becomes query parameters, and how a response body
// becomes a SongResult. The surrounding Client handles transport, breaker
// state, validation and lyric persistence for all adapters alike.
type Adapter struct {
	Name     string
	Endpoint string
	Query    func(keyword string) url.Values
	Parse    func(body []byte) (*SongResult, error)
}

// QQAdapter talks to the yaohud QQ music API. The key parameter is the
// caller's API key and is required by the upstream.
func QQAdapter(endpoint, key string) Adapter {
	if endpoint == "" {
		endpoint = defaultQQEndpoint
	}
	return Adapter{
		Name:     "qq",
		Endpoint: endpoint,
		Query: func(keyword string) url.Values {
			params := url.Values{}
			params.Set("key", key)
			params.Set("msg", keyword)
			params.Set("n", "1")
			return params
		},
		Parse: parseQQ,
	}
}

func parseQQ(body []byte) (*SongResult, error) {
	var resp struct {
		Data *struct {
			Name     string `json:"name"`
			SongName string `json:"songname"`
			MusicURL string `json:"musicurl"`
			LrcText  string `json:"lrctxt"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Data == nil {
		return nil, ErrNotFound
	}
	// The upstream swaps the obvious meanings: "name" carries the track
	// title and "songname" carries the performer.
	return &SongResult{
		Title:     resp.Data.Name,
		Artist:    resp.Data.SongName,
		SongURL:   resp.Data.MusicURL,
		LyricText: resp.Data.LrcText,
	}, nil
}

// MiguAdapter talks to the yuafeng Migu music API. It takes no API key.
func MiguAdapter(endpoint string) Adapter {
	if endpoint == "" {
		endpoint = defaultMiguEndpoint
	}
	return Adapter{
		Name:     "migu",
		Endpoint: endpoint,
		Query: func(keyword string) url.Values {
			params := url.Values{}
			params.Set("msg", keyword)
			params.Set("n", "1")
			return params
		},
		Parse: parseMigu,
	}
}

func parseMigu(body []byte) (*SongResult, error) {
	var resp struct {
		Data *struct {
			Song   string `json:"song"`
			Singer string `json:"singer"`
			Music  string `json:"music"`
			Lyric  string `json:"lyric"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Data == nil {
		return nil, ErrNotFound
	}
	return &SongResult{
		Title:     resp.Data.Song,
		Artist:    resp.Data.Singer,
		SongURL:   resp.Data.Music,
		LyricText: resp.Data.Lyric,
	}, nil
}
