package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestIsShard(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/data/books_1.json", true},
		{"/data/ratings_3.json", true},
		{"/data/books.json", true},
		{"/data/notes.txt", false},
		{"/data/other.json", false},
		{"/data/books_1.json.tmp", false},
	}
	for _, tt := range tests {
		if got := isShard(tt.path); got != tt.want {
			t.Errorf("isShard(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatcher_ReloadOnShardWrite(t *testing.T) {
	dir := t.TempDir()
	var reloads atomic.Int32
	w := New(dir, func() { reloads.Add(1) }, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "books_1.json"), []byte("[]"), 0600); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for reloads.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestWatcher_IgnoresNonShardFiles(t *testing.T) {
	dir := t.TempDir()
	var reloads atomic.Int32
	w := New(dir, func() { reloads.Add(1) }, WithDebounce(30*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if reloads.Load() != 0 {
		t.Errorf("reloads = %d, want 0", reloads.Load())
	}
}

func TestWatcher_StartMissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), func() {})
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Error("expected error for missing directory")
	}
}
