package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// Copy button labels.
const (
	CopyLabel   = "Copy JSON"
	CopiedLabel = "Copied!"
)

// CopiedFor is how long the confirmation label stays up.
const CopiedFor = 1500 * time.Millisecond

// Clipboard is the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes through the OS clipboard utilities.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Timer is a pending callback.
type Timer interface {
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// FormatExport indents a raw JSON body with two spaces. Key order is kept.
func FormatExport(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", fmt.Errorf("indent export: %w", err)
	}
	return buf.String(), nil
}

// CopyButton is the export affordance shown under a result.
type CopyButton struct {
	mu    sync.Mutex
	clip  Clipboard
	clock Clock
	label string
	timer Timer
}

// NewCopyButton returns a button writing to clip. A nil clock uses real time.
func NewCopyButton(clip Clipboard, clock Clock) *CopyButton {
	if clock == nil {
		clock = realClock{}
	}
	return &CopyButton{clip: clip, clock: clock, label: CopyLabel}
}

// Label returns the current button text.
func (b *CopyButton) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

// Copy places raw on the clipboard as indented JSON. It reports false
// without touching the clipboard when raw is empty.
func (b *CopyButton) Copy(raw json.RawMessage) (bool, error) {
	if len(raw) == 0 {
		return false, nil
	}
	text, err := FormatExport(raw)
	if err != nil {
		return false, err
	}
	if err := b.clip.WriteAll(text); err != nil {
		return false, fmt.Errorf("copy to clipboard: %w", err)
	}
	slog.Debug("exported response", slog.Int("bytes", len(text)))

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.label = CopiedLabel
	b.timer = b.clock.AfterFunc(CopiedFor, func() {
		b.mu.Lock()
		b.label = CopyLabel
		b.timer = nil
		b.mu.Unlock()
	})
	return true, nil
}
