// Package history keeps the bounded, newest-first log of completed probes and
// persists it after every change.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/selimozcann/cnnct/internal/model"
	"github.com/selimozcann/cnnct/internal/storage"
)

// Key is the storage key the log is persisted under.
const Key = "cnnct_history"

// MaxEntries bounds the log. Older entries are dropped.
const MaxEntries = 10

// Log is the history log. It is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	store   storage.Storage
	entries []model.HistoryEntry
	// onChange receives a copy of the entries after every change.
	onChange func([]model.HistoryEntry)
}

// New returns an empty log bound to store. Call Load to restore saved state.
func New(store storage.Storage) *Log {
	return &Log{store: store}
}

// OnChange registers fn to be called with the entries after each change.
func (l *Log) OnChange(fn func([]model.HistoryEntry)) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// Load restores the log from storage. Missing, unreadable or wrongly shaped
// data yields an empty log; only storage read failures are returned.
func (l *Log) Load() error {
	raw, err := l.store.Get(Key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		l.replace(nil)
		return nil
	case err != nil:
		l.replace(nil)
		return fmt.Errorf("load history: %w", err)
	}

	entries, err := decode(raw)
	if err != nil {
		slog.Warn("discarding unreadable history", slog.String("error", err.Error()))
		entries = nil
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	l.replace(entries)
	return nil
}

// decode parses a stored log. One malformed element rejects the whole list.
func decode(raw []byte) ([]model.HistoryEntry, error) {
	var items []*model.HistoryEntry
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	entries := make([]model.HistoryEntry, 0, len(items))
	for i, e := range items {
		switch {
		case e == nil:
			return nil, fmt.Errorf("entry %d is null", i)
		case e.Target == "":
			return nil, fmt.Errorf("entry %d has no target", i)
		}
		if _, ok := model.ModeForType(e.Type); !ok {
			return nil, fmt.Errorf("entry %d has unknown type %q", i, e.Type)
		}
		entries = append(entries, *e)
	}
	return entries, nil
}

func (l *Log) replace(entries []model.HistoryEntry) {
	l.mu.Lock()
	l.entries = entries
	fn, snap := l.onChange, l.snapshot()
	l.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

// Record prepends e, truncates to MaxEntries and persists the result. The
// in-memory log is updated even when persisting fails.
func (l *Log) Record(e model.HistoryEntry) error {
	l.mu.Lock()
	next := make([]model.HistoryEntry, 0, MaxEntries)
	next = append(next, e)
	next = append(next, l.entries...)
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}
	l.entries = next
	err := l.persistLocked()
	fn, snap := l.onChange, l.snapshot()
	l.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
	return err
}

// Clear empties the log and persists the empty list.
func (l *Log) Clear() error {
	l.mu.Lock()
	l.entries = nil
	err := l.persistLocked()
	fn := l.onChange
	l.mu.Unlock()

	if fn != nil {
		fn([]model.HistoryEntry{})
	}
	return err
}

// Entries returns the log newest first.
func (l *Log) Entries() []model.HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Log) snapshot() []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Log) persistLocked() error {
	entries := l.entries
	if entries == nil {
		entries = []model.HistoryEntry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := l.store.Set(Key, b); err != nil {
		slog.Warn("history not persisted", slog.String("error", err.Error()))
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
