package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/selimozcann/cnnct/internal/storage"
)

func TestStores(t *testing.T) {
	stores := map[string]storage.Storage{
		"memory": storage.NewMemory(),
		"file":   storage.NewFile(filepath.Join(t.TempDir(), "state")),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get("cnnct_history"); !errors.Is(err, storage.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if err := s.Set("cnnct_history", []byte(`[1]`)); err != nil {
				t.Fatalf("Set error: %v", err)
			}
			if err := s.Set("cnnct_history", []byte(`[1,2]`)); err != nil {
				t.Fatalf("Set error: %v", err)
			}
			got, err := s.Get("cnnct_history")
			if err != nil {
				t.Fatalf("Get error: %v", err)
			}
			if string(got) != `[1,2]` {
				t.Fatalf("unexpected value %q", got)
			}
		})
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := storage.NewFile(dir)
	for i := 0; i < 3; i++ {
		if err := s.Set("k", []byte("v")); err != nil {
			t.Fatalf("Set error: %v", err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "k.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only k.json, got %v", names)
	}
}

func TestFileStoreRejectsBadKey(t *testing.T) {
	s := storage.NewFile(t.TempDir())
	if err := s.Set("../escape", []byte("x")); err == nil {
		t.Fatalf("expected error for key with path separator")
	}
}
