package lyrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveWritesOnce(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	created, err := store.Save("周杰伦 - 晴天.lrc", "[00:00.00]first")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !created {
		t.Fatal("expected first save to create the file")
	}

	created, err = store.Save("周杰伦 - 晴天.lrc", "[00:00.00]second")
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if created {
		t.Fatal("expected second save to be a no-op")
	}

	path, err := store.Resolve("周杰伦 - 晴天.lrc")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "[00:00.00]first" {
		t.Fatalf("expected original content to survive, got %q", data)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "lyrics")
	store := NewStore(dir, nil)

	if _, err := store.Save("a.lrc", "text"); err != nil {
		t.Fatalf("save into missing directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.lrc")); err != nil {
		t.Fatalf("expected file to exist: %v", err)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	for _, name := range []string{"../escape.lrc", "../../etc/passwd", "sub/../../out.txt"} {
		if _, err := store.Resolve(name); !errors.Is(err, ErrOutsideRoot) {
			t.Errorf("Resolve(%q): expected ErrOutsideRoot, got %v", name, err)
		}
	}
}

func TestFindPriority(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	write := func(name string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	// Only the filename-derived txt exists.
	write("somefile.txt")
	name, ok := store.Find("Artist", "Song", "somefile")
	if !ok || name != "somefile.txt" {
		t.Fatalf("expected fallback txt, got %q ok=%v", name, ok)
	}

	// A metadata lrc outranks everything else.
	write("Artist - Song.lrc")
	name, ok = store.Find("Artist", "Song", "somefile")
	if !ok || name != "Artist - Song.lrc" {
		t.Fatalf("expected metadata lrc to win, got %q ok=%v", name, ok)
	}
}

func TestFindNothing(t *testing.T) {
	store := NewStore(t.TempDir(), nil)
	if name, ok := store.Find("A", "B", "c"); ok {
		t.Fatalf("expected no lyric, got %q", name)
	}
}

func TestFindSkipsMetadataNameWhenFieldsMissing(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)
	if err := os.WriteFile(filepath.Join(dir, "base.lrc"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	name, ok := store.Find("", "Song", "base")
	if !ok || name != "base.lrc" {
		t.Fatalf("expected filename fallback when artist missing, got %q ok=%v", name, ok)
	}
}

func TestAssetName(t *testing.T) {
	if got := AssetName("周杰伦", "晴天"); got != "周杰伦 - 晴天.lrc" {
		t.Fatalf("unexpected asset name %q", got)
	}
}
