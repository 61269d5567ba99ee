package mode

import (
	"sync"

	"github.com/selimozcann/cnnct/internal/model"
	"github.com/selimozcann/cnnct/internal/presets"
)

var placeholders = map[model.ProbeMode]string{
	model.ModePort:       "Enter IP or Domain (e.g. 8.8.8.8)",
	model.ModeDNS:        "Enter Domain for DNS lookup...",
	model.ModeDiagnostic: "Enter URL (e.g. https://google.com)",
	model.ModeStatus:     "",
}

// Placeholder returns the input hint shown for m.
func Placeholder(m model.ProbeMode) string { return placeholders[m] }

// Transition carries everything the front end must apply after a mode change.
// It depends only on the target mode.
type Transition struct {
	Mode        model.ProbeMode
	Changed     bool
	Placeholder string
	FormVisible bool
	Presets     []presets.Preset
	// Dispatch is set when the new mode probes immediately without a target.
	Dispatch bool
}

// Machine tracks the active mode. The zero value is not usable; use New.
type Machine struct {
	mu      sync.Mutex
	current model.ProbeMode
}

// New returns a machine in the Port mode.
func New() *Machine {
	return &Machine{current: model.ModePort}
}

// Current returns the active mode.
func (m *Machine) Current() model.ProbeMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// View describes the active mode without changing it.
func (m *Machine) View() Transition {
	return describe(m.Current(), false)
}

// Select switches to next. Selecting the active mode is a no-op: the returned
// transition has Changed and Dispatch unset.
func (m *Machine) Select(next model.ProbeMode) Transition {
	m.mu.Lock()
	changed := m.current != next
	m.current = next
	m.mu.Unlock()
	return describe(next, changed)
}

func describe(md model.ProbeMode, changed bool) Transition {
	return Transition{
		Mode:        md,
		Changed:     changed,
		Placeholder: Placeholder(md),
		FormVisible: md.NeedsTarget(),
		Presets:     presets.ForMode(md),
		Dispatch:    changed && !md.NeedsTarget(),
	}
}
