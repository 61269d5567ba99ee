package history_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/selimozcann/cnnct/internal/history"
	"github.com/selimozcann/cnnct/internal/model"
	"github.com/selimozcann/cnnct/internal/storage"
)

func entry(i int) model.HistoryEntry {
	return model.HistoryEntry{
		Target:  fmt.Sprintf("host%d.example", i),
		Type:    model.TypePort,
		Outcome: "Success",
		Time:    "10:00:00 AM",
	}
}

func TestRecordCapsAndOrders(t *testing.T) {
	store := storage.NewMemory()
	log := history.New(store)
	for i := 0; i < 11; i++ {
		if err := log.Record(entry(i)); err != nil {
			t.Fatalf("Record error: %v", err)
		}
	}

	got := log.Entries()
	if len(got) != history.MaxEntries {
		t.Fatalf("expected %d entries, got %d", history.MaxEntries, len(got))
	}
	if got[0].Target != "host10.example" {
		t.Fatalf("expected newest first, got %q", got[0].Target)
	}
	if got[len(got)-1].Target != "host1.example" {
		t.Fatalf("expected oldest kept to be host1, got %q", got[len(got)-1].Target)
	}

	raw, err := store.Get(history.Key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	var persisted []model.HistoryEntry
	if err := json.Unmarshal(raw, &persisted); err != nil {
		t.Fatalf("persisted history is not a JSON array: %v", err)
	}
	if len(persisted) != history.MaxEntries || persisted[0] != got[0] {
		t.Fatalf("persisted history does not match memory: %+v", persisted)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	origin := storage.NewMemory()
	first := history.New(origin)
	for i := 0; i < history.MaxEntries; i++ {
		if err := first.Record(entry(i)); err != nil {
			t.Fatalf("Record error: %v", err)
		}
	}
	raw, err := origin.Get(history.Key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}

	store := storage.NewMemory()
	if err := store.Set(history.Key, raw); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	second := history.New(store)
	if err := second.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	loaded := second.Entries()
	if len(loaded) != history.MaxEntries {
		t.Fatalf("expected %d entries after reload, got %d", history.MaxEntries, len(loaded))
	}

	if err := second.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	for i := len(loaded) - 1; i >= 0; i-- {
		if err := second.Record(loaded[i]); err != nil {
			t.Fatalf("Record error: %v", err)
		}
	}
	again, err := store.Get(history.Key)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !bytes.Equal(again, raw) {
		t.Fatalf("history changed across reload:\n%s\n%s", raw, again)
	}
}

func TestLoadBadData(t *testing.T) {
	cases := map[string]string{
		"corrupt":     `[{"target":`,
		"object":      `{"target":"x"}`,
		"wrongFields": `[{"target":1}]`,
		"null":        `null`,
		"emptyObject": `[{}]`,
		"nullElement": `[null]`,
		"unknownKeys": `[{"foo":"bar"}]`,
		"noType":      `[{"target":"x"}]`,
		"badType":     `[{"target":"x","type":"Ping","outcome":"Success","time":"1:00:00 AM"}]`,
		"oneBadEntry": `[{"target":"x","type":"DNS","outcome":"Resolved","time":"1:00:00 AM"},null]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			store := storage.NewMemory()
			if err := store.Set(history.Key, []byte(raw)); err != nil {
				t.Fatalf("Set error: %v", err)
			}
			log := history.New(store)
			if err := log.Load(); err != nil {
				t.Fatalf("Load error: %v", err)
			}
			if n := len(log.Entries()); n != 0 {
				t.Fatalf("expected empty log, got %d entries", n)
			}
			if err := log.Record(entry(1)); err != nil {
				t.Fatalf("Record error: %v", err)
			}
			if n := len(log.Entries()); n != 1 {
				t.Fatalf("expected 1 entry, got %d", n)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	log := history.New(storage.NewMemory())
	if err := log.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(log.Entries()) != 0 {
		t.Fatalf("expected empty log")
	}
}

type failingStore struct{ storage.Storage }

func (failingStore) Set(string, []byte) error { return errors.New("disk full") }

func TestRecordKeepsMemoryOnPersistFailure(t *testing.T) {
	log := history.New(failingStore{storage.NewMemory()})
	if err := log.Record(entry(1)); err == nil {
		t.Fatalf("expected persist error")
	}
	if len(log.Entries()) != 1 {
		t.Fatalf("expected entry kept in memory")
	}
}

func TestClearAndOnChange(t *testing.T) {
	store := storage.NewMemory()
	log := history.New(store)
	var calls [][]model.HistoryEntry
	log.OnChange(func(es []model.HistoryEntry) { calls = append(calls, es) })

	_ = log.Record(entry(1))
	_ = log.Record(entry(2))
	if err := log.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	if len(calls) != 3 {
		t.Fatalf("expected 3 change notifications, got %d", len(calls))
	}
	if len(calls[1]) != 2 || len(calls[2]) != 0 {
		t.Fatalf("unexpected notifications: %+v", calls)
	}
	raw, _ := store.Get(history.Key)
	if string(raw) != "[]" {
		t.Fatalf("expected persisted empty array, got %q", raw)
	}
}
