package catalog

import (
	"errors"
	"testing"
)

func TestSplitArtistTitle(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		artist string
		title  string
	}{
		{"plain", "周杰伦 - 晴天", "周杰伦", "晴天"},
		{"no separator", "晴天", "Unknown Artist", "晴天"},
		{"separator in title", "Artist - Song - Live", "Artist", "Song - Live"},
		{"extra spaces", "Artist  -  Song", "Artist", "Song"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artist, title := SplitArtistTitle(tt.base)
			if artist != tt.artist || title != tt.title {
				t.Errorf("SplitArtistTitle(%q) = (%q, %q), want (%q, %q)", tt.base, artist, title, tt.artist, tt.title)
			}
		})
	}
}

func TestResolveMetaFromTags(t *testing.T) {
	m := resolveMeta("file", Tags{Title: "晴天", Artist: "周杰伦", Album: "叶惠美"}, nil)
	if !m.FromTags {
		t.Fatal("expected FromTags")
	}
	if m.Title != "晴天" || m.Artist != "周杰伦" || m.Album != "叶惠美" {
		t.Fatalf("unexpected meta: %+v", m)
	}
}

func TestResolveMetaTagDefaults(t *testing.T) {
	m := resolveMeta("somefile", Tags{}, nil)
	if m.Title != "somefile" {
		t.Errorf("expected title to default to filename base, got %q", m.Title)
	}
	if m.Artist != "Unknown Artist" {
		t.Errorf("expected unknown artist default, got %q", m.Artist)
	}
	if m.Album != "" {
		t.Errorf("expected empty album, got %q", m.Album)
	}
}

func TestResolveMetaFilenameFallback(t *testing.T) {
	m := resolveMeta("周杰伦 - 晴天", Tags{}, errors.New("no tags"))
	if m.FromTags {
		t.Fatal("expected fallback meta")
	}
	if m.Artist != "周杰伦" || m.Title != "晴天" {
		t.Fatalf("unexpected fallback meta: %+v", m)
	}
}
