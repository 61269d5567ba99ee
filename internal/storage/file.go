package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"go.uber.org/multierr"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

type fileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFile returns a Storage keeping one file per key under dir. The directory
// is created on first write.
func NewFile(dir string) Storage {
	return &fileStore{dir: dir}
}

func (s *fileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *fileStore) Get(key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}
	return b, nil
}

// Set replaces the value atomically: write a temp file, then rename it over
// the old one.
func (s *fileStore) Set(key string, value []byte) (err error) {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("storage: create %s: %w", s.dir, err)
	}
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage: temp file: %w", err)
	}
	defer func() {
		if err != nil {
			multierr.AppendInto(&err, ignoreNotExist(os.Remove(tmp.Name())))
		}
	}()

	if _, err = tmp.Write(value); err != nil {
		return multierr.Append(fmt.Errorf("storage: write %s: %w", key, err), tmp.Close())
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("storage: close %s: %w", key, err)
	}
	if err = os.Chmod(tmp.Name(), 0o640); err != nil {
		return fmt.Errorf("storage: chmod %s: %w", key, err)
	}
	if err = os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("storage: replace %s: %w", key, err)
	}
	return nil
}

func ignoreNotExist(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
