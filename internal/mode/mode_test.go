package mode

import (
	"testing"

	"github.com/selimozcann/cnnct/internal/model"
)

func TestNewStartsInPort(t *testing.T) {
	m := New()
	v := m.View()
	if v.Mode != model.ModePort || !v.FormVisible || v.Placeholder != "Enter IP or Domain (e.g. 8.8.8.8)" {
		t.Fatalf("unexpected initial view %+v", v)
	}
	if v.Dispatch || v.Changed {
		t.Fatalf("view must not report a change")
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	cases := []struct {
		to          model.ProbeMode
		placeholder string
		form        bool
		presets     int
		firstValue  string
		dispatch    bool
	}{
		{model.ModeDNS, "Enter Domain for DNS lookup...", true, 4, "doompatrol.io", false},
		{model.ModeDiagnostic, "Enter URL (e.g. https://google.com)", true, 4, "https://doompatrol.io", false},
		{model.ModeStatus, "", false, 0, "", true},
		{model.ModePort, "Enter IP or Domain (e.g. 8.8.8.8)", true, 4, "doompatrol.io", false},
	}
	// The result depends only on the target mode, whatever the previous one.
	for _, from := range model.Modes {
		for _, tc := range cases {
			if from == tc.to {
				continue
			}
			m := New()
			m.Select(from)
			tr := m.Select(tc.to)
			if !tr.Changed || tr.Mode != tc.to || m.Current() != tc.to {
				t.Fatalf("%s->%s: expected change, got %+v", from, tc.to, tr)
			}
			if tr.Placeholder != tc.placeholder || tr.FormVisible != tc.form || tr.Dispatch != tc.dispatch {
				t.Fatalf("%s->%s: unexpected transition %+v", from, tc.to, tr)
			}
			if len(tr.Presets) != tc.presets {
				t.Fatalf("%s->%s: expected %d presets, got %d", from, tc.to, tc.presets, len(tr.Presets))
			}
			if tc.presets > 0 && tr.Presets[0].Value != tc.firstValue {
				t.Fatalf("%s->%s: unexpected first preset %q", from, tc.to, tr.Presets[0].Value)
			}
		}
	}
}

func TestReselectIsIdempotent(t *testing.T) {
	m := New()
	first := m.Select(model.ModeStatus)
	again := m.Select(model.ModeStatus)
	if !first.Dispatch {
		t.Fatalf("entering status must dispatch")
	}
	if again.Changed || again.Dispatch {
		t.Fatalf("re-selecting status must not dispatch: %+v", again)
	}
}
