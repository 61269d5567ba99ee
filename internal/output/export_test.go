package output_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/selimozcann/cnnct/internal/output"
)

type fakeClipboard struct {
	text   string
	writes int
	err    error
}

func (f *fakeClipboard) WriteAll(text string) error {
	if f.err != nil {
		return f.err
	}
	f.writes++
	f.text = text
	return nil
}

type fakeTimer struct{ stopped bool }

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type fakeClock struct {
	delays []time.Duration
	fns    []func()
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) output.Timer {
	tm := &fakeTimer{}
	c.delays = append(c.delays, d)
	c.fns = append(c.fns, f)
	c.timers = append(c.timers, tm)
	return tm
}

func TestFormatExportKeepsOrder(t *testing.T) {
	got, err := output.FormatExport(json.RawMessage(`{"target":"8.8.8.8","tcp_443":true,"latency_ms":12}`))
	if err != nil {
		t.Fatalf("FormatExport error: %v", err)
	}
	want := "{\n  \"target\": \"8.8.8.8\",\n  \"tcp_443\": true,\n  \"latency_ms\": 12\n}"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestCopyButton(t *testing.T) {
	clip := &fakeClipboard{}
	clock := &fakeClock{}
	btn := output.NewCopyButton(clip, clock)

	if btn.Label() != output.CopyLabel {
		t.Fatalf("unexpected initial label %q", btn.Label())
	}
	copied, err := btn.Copy(nil)
	if err != nil || copied || clip.writes != 0 {
		t.Fatalf("expected no-op without a response, got copied=%v err=%v writes=%d", copied, err, clip.writes)
	}

	copied, err = btn.Copy(json.RawMessage(`{"records":["1.1.1.1"]}`))
	if err != nil || !copied {
		t.Fatalf("Copy failed: copied=%v err=%v", copied, err)
	}
	if clip.text != "{\n  \"records\": [\n    \"1.1.1.1\"\n  ]\n}" {
		t.Fatalf("unexpected clipboard text %q", clip.text)
	}
	if btn.Label() != output.CopiedLabel {
		t.Fatalf("expected %q, got %q", output.CopiedLabel, btn.Label())
	}
	if len(clock.delays) != 1 || clock.delays[0] != 1500*time.Millisecond {
		t.Fatalf("expected one 1.5s revert, got %v", clock.delays)
	}

	// A second copy before the revert restarts the timer.
	if _, err := btn.Copy(json.RawMessage(`{}`)); err != nil {
		t.Fatalf("Copy error: %v", err)
	}
	if !clock.timers[0].stopped {
		t.Fatalf("expected first timer to be stopped")
	}
	clock.fns[1]()
	if btn.Label() != output.CopyLabel {
		t.Fatalf("expected label to revert, got %q", btn.Label())
	}
}

func TestCopyButtonClipboardError(t *testing.T) {
	clip := &fakeClipboard{err: errors.New("no xclip")}
	btn := output.NewCopyButton(clip, &fakeClock{})
	if _, err := btn.Copy(json.RawMessage(`{}`)); err == nil {
		t.Fatalf("expected clipboard error")
	}
	if btn.Label() != output.CopyLabel {
		t.Fatalf("label must not change on failure, got %q", btn.Label())
	}
}
