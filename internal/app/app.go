// Package app owns the client session: the active mode, the last shown
// result and the history log. Every probe, whether typed, picked from a
// preset, triggered by a mode switch or replayed, goes through Orchestrator.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/selimozcann/cnnct/internal/dispatch"
	"github.com/selimozcann/cnnct/internal/history"
	"github.com/selimozcann/cnnct/internal/mode"
	"github.com/selimozcann/cnnct/internal/model"
	"github.com/selimozcann/cnnct/internal/output"
	"github.com/selimozcann/cnnct/internal/presets"
)

// Prober runs a single probe against the backend.
type Prober interface {
	Dispatch(ctx context.Context, req model.ProbeRequest) (dispatch.Response, error)
}

// View shows probe progress and outcomes.
type View interface {
	Progress(m model.ProbeMode)
	Result(res model.ProbeResult)
	Error(msg string)
}

// Exporter copies a raw response somewhere outside the process.
type Exporter interface {
	Copy(raw json.RawMessage) (bool, error)
}

// State is what the session currently shows.
type State struct {
	// Issued is the sequence number of the latest dispatch.
	Issued uint64
	// Shown is the sequence number whose outcome is on screen.
	Shown uint64
	// LastRaw is the body of the shown result; nil after an error.
	LastRaw json.RawMessage
	Last    model.ProbeResult
	LastErr string
}

// Options configures an Orchestrator. Prober and History are required.
type Options struct {
	Prober   Prober
	History  *history.Log
	View     View
	Exporter Exporter
	Machine  *mode.Machine
	Now      func() time.Time
}

// Orchestrator serialises probe outcomes into session state.
type Orchestrator struct {
	prober  Prober
	history *history.Log
	view    View
	export  Exporter
	machine *mode.Machine
	now     func() time.Time

	mu    sync.Mutex
	state State
}

// New builds an orchestrator from opts.
func New(opts Options) (*Orchestrator, error) {
	if opts.Prober == nil {
		return nil, errors.New("app: prober is required")
	}
	if opts.History == nil {
		return nil, errors.New("app: history is required")
	}
	o := &Orchestrator{
		prober:  opts.Prober,
		history: opts.History,
		view:    opts.View,
		export:  opts.Exporter,
		machine: opts.Machine,
		now:     opts.Now,
	}
	if o.view == nil {
		o.view = discardView{}
	}
	if o.machine == nil {
		o.machine = mode.New()
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o, nil
}

// Mode returns the active mode.
func (o *Orchestrator) Mode() model.ProbeMode { return o.machine.Current() }

// ModeView describes the active mode without changing it.
func (o *Orchestrator) ModeView() mode.Transition { return o.machine.View() }

// History returns the log the orchestrator records into.
func (o *Orchestrator) History() *history.Log { return o.history }

// State returns a copy of the session state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := o.state
	if s.LastRaw != nil {
		s.LastRaw = append(json.RawMessage(nil), s.LastRaw...)
	}
	return s
}

// SelectMode switches the active mode. Entering Status probes immediately.
func (o *Orchestrator) SelectMode(ctx context.Context, m model.ProbeMode) (mode.Transition, error) {
	t := o.machine.Select(m)
	if !t.Dispatch {
		return t, nil
	}
	_, err := o.Probe(ctx, model.ProbeRequest{Mode: m})
	return t, err
}

// Submit probes target in the active mode. A blank target is ignored and
// reported as dispatch.ErrEmptyInput without touching state.
func (o *Orchestrator) Submit(ctx context.Context, target string) (dispatch.Response, error) {
	return o.Probe(ctx, model.ProbeRequest{Mode: o.machine.Current(), Target: target})
}

// ChoosePreset submits the preset at index i of the active mode's list.
func (o *Orchestrator) ChoosePreset(ctx context.Context, i int) (dispatch.Response, error) {
	list := presets.ForMode(o.machine.Current())
	if i < 0 || i >= len(list) {
		return dispatch.Response{}, fmt.Errorf("no preset %d for mode %s", i+1, o.machine.Current())
	}
	return o.Submit(ctx, list[i].Value)
}

// Probe dispatches req and applies its outcome.
func (o *Orchestrator) Probe(ctx context.Context, req model.ProbeRequest) (dispatch.Response, error) {
	if req.Mode.NeedsTarget() && strings.TrimSpace(req.Target) == "" {
		return dispatch.Response{}, dispatch.ErrEmptyInput
	}
	o.mu.Lock()
	o.state.Issued++
	seq := o.state.Issued
	o.view.Progress(req.Mode)
	o.mu.Unlock()

	resp, err := o.prober.Dispatch(ctx, req)
	o.settle(seq, resp, err)
	return resp, err
}

// Apply records an outcome produced outside Probe, such as a replay, as if
// it had just been dispatched.
func (o *Orchestrator) Apply(resp dispatch.Response, err error) {
	if errors.Is(err, dispatch.ErrEmptyInput) {
		return
	}
	o.settle(o.issue(), resp, err)
}

func (o *Orchestrator) issue() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Issued++
	return o.state.Issued
}

func (o *Orchestrator) settle(seq uint64, resp dispatch.Response, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	current := seq == o.state.Issued
	if err != nil {
		if errors.Is(err, dispatch.ErrEmptyInput) {
			return
		}
		if !current {
			slog.Debug("discarding stale error", slog.Uint64("seq", seq), slog.Uint64("latest", o.state.Issued))
			return
		}
		o.state.Shown = seq
		o.state.LastRaw = nil
		o.state.Last = nil
		o.state.LastErr = errorMessage(err)
		o.view.Error(o.state.LastErr)
		return
	}

	if entry, ok := resp.HistoryEntry(o.now()); ok {
		if herr := o.history.Record(entry); herr != nil {
			slog.Warn("history record failed", slog.String("error", herr.Error()))
		}
	}
	if !current {
		slog.Debug("discarding stale result", slog.Uint64("seq", seq), slog.Uint64("latest", o.state.Issued))
		return
	}
	o.state.Shown = seq
	o.state.LastRaw = append(json.RawMessage(nil), resp.Raw...)
	o.state.Last = resp.Result
	o.state.LastErr = ""
	o.view.Result(resp.Result)
}

// ExportLast copies the last shown raw response. It reports false when no
// successful result is held.
func (o *Orchestrator) ExportLast() (bool, error) {
	if o.export == nil {
		return false, errors.New("app: no exporter configured")
	}
	o.mu.Lock()
	raw := append(json.RawMessage(nil), o.state.LastRaw...)
	o.mu.Unlock()
	if len(raw) == 0 {
		return false, nil
	}
	return o.export.Copy(raw)
}

func errorMessage(err error) string {
	if pe, ok := dispatch.IsProbeError(err); ok {
		return pe.Message
	}
	return err.Error()
}

type discardView struct{}

func (discardView) Progress(model.ProbeMode) {}
func (discardView) Result(model.ProbeResult) {}
func (discardView) Error(string)             {}

var _ View = (*output.Presenter)(nil)
var _ Exporter = (*output.CopyButton)(nil)
