package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherFiresOnStoreWrite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "strand.db")
	if err := os.WriteFile(dbPath, []byte("seed"), 0o644); err != nil {
		t.Fatalf("seed store file: %v", err)
	}

	fired := make(chan struct{}, 1)
	w, err := New(dbPath, 20*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	if err := os.WriteFile(dbPath, []byte("commit"), 0o644); err != nil {
		t.Fatalf("write store file: %v", err)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not fire after store write")
	}
}

func TestWatcherCoversWALSiblings(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "strand.db")
	if err := os.WriteFile(dbPath, []byte("seed"), 0o644); err != nil {
		t.Fatalf("seed store file: %v", err)
	}

	fired := make(chan struct{}, 1)
	w, err := New(dbPath, 20*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	if err := os.WriteFile(dbPath+"-wal", []byte("frames"), 0o644); err != nil {
		t.Fatalf("write wal file: %v", err)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not fire after wal write")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "strand.db")
	if err := os.WriteFile(dbPath, []byte("seed"), 0o644); err != nil {
		t.Fatalf("seed store file: %v", err)
	}

	fired := make(chan struct{}, 1)
	w, err := New(dbPath, 20*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write unrelated file: %v", err)
	}

	select {
	case <-fired:
		t.Fatal("watcher fired for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}
