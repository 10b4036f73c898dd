package provider

// TrackRef is the normalized answer of a successful search, regardless of
// which source produced it. SongURL points at upstream media for remote
// sources and at the local streaming route for catalog hits. LyricURL is
// always self-hosted.
type TrackRef struct {
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	SongURL  string `json:"songUrl"`
	LyricURL string `json:"lyricUrl"`
}

// SongResult is the raw payload a remote adapter extracts from an upstream
// response body, before validation and lyric persistence.
type SongResult struct {
	Title     string
	Artist    string
	SongURL   string
	LyricText string
}
