package output

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"github.com/selimozcann/cnnct/internal/model"
)

// JSONLWriter writes one history entry per line as JSON.
type JSONLWriter struct {
	w  *bufio.Writer
	mu sync.Mutex
}

// NewJSONLWriter wraps an io.Writer with buffering.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{w: bufio.NewWriter(w)}
}

// Write writes a single entry as a JSON line.
func (j *JSONLWriter) Write(e model.HistoryEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	enc := json.NewEncoder(j.w)
	enc.SetEscapeHTML(false)
	return enc.Encode(e)
}

// Flush flushes the underlying buffer.
func (j *JSONLWriter) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.w.Flush()
}

// WriteJSONL writes every entry and flushes.
func WriteJSONL(w io.Writer, entries []model.HistoryEntry) error {
	jw := NewJSONLWriter(w)
	for _, e := range entries {
		if err := jw.Write(e); err != nil {
			return err
		}
	}
	return jw.Flush()
}
