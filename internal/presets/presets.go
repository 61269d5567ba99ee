package presets

import "github.com/selimozcann/cnnct/internal/model"

// Preset is a one-click target.
type Preset struct {
	Label string
	Value string
}

var table = []Preset{
	{Label: "doompatrol.io", Value: "doompatrol.io"},
	{Label: "Google DNS", Value: "8.8.8.8"},
	{Label: "Cloudflare", Value: "1.1.1.1"},
	{Label: "GitHub", Value: "github.com"},
}

// All returns the raw preset table.
func All() []Preset {
	return append([]Preset(nil), table...)
}

// ForMode returns the presets offered in the given mode, with values rewritten
// for it. Status takes no target and gets none.
func ForMode(m model.ProbeMode) []Preset {
	if !m.NeedsTarget() {
		return nil
	}
	out := All()
	if m == model.ModeDiagnostic {
		for i := range out {
			out[i].Value = "https://" + out[i].Value
		}
	}
	return out
}
