package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "detail.raw")
	other := filepath.Join(dir, "unrelated.txt")
	if err := os.WriteFile(path, []byte{0}, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := NewWatcher([]string{path, "https://cdn.example.com/height.raw"}, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(other, []byte{1}, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte{byte(i)}, 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	want, _ := filepath.Abs(path)
	select {
	case got := <-w.Changes():
		if got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestWatcherNoLocalFiles(t *testing.T) {
	if _, err := NewWatcher([]string{"https://cdn.example.com/a.raw", ""}, time.Millisecond); err == nil {
		t.Error("expected error when nothing local to watch")
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "height.raw")
	if err := os.WriteFile(path, []byte{0}, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := NewWatcher([]string{path}, time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
