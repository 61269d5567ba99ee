package output

import (
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/selimozcann/cnnct/internal/model"
)

// Summary contains counters for the HTML summary section.
type Summary struct {
	Total     int
	Successes int
	Failures  int
	ByType    map[string]int
}

// EntryView is one history row with pre-computed fields.
type EntryView struct {
	Index   int
	Entry   model.HistoryEntry
	Failure bool
}

// PageData provides the full context for the HTML report.
type PageData struct {
	Title         string
	GeneratedAt   time.Time
	Params        map[string]string
	OrderedParams []Param
	Summary       Summary
	Entries       []EntryView
}

// Param represents a rendered flag/value pair.
type Param struct {
	Key   string
	Value string
}

// IsFailure reports whether a history outcome describes a failed probe:
// a closed port or an HTTP error status.
func IsFailure(outcome string) bool {
	if outcome == "Failed" {
		return true
	}
	var code int
	if _, err := fmt.Sscanf(outcome, "%d", &code); err == nil {
		return code >= 400
	}
	return false
}

// BuildSummary derives counters from the entries.
func BuildSummary(entries []model.HistoryEntry) Summary {
	sum := Summary{Total: len(entries), ByType: make(map[string]int)}
	for _, e := range entries {
		if IsFailure(e.Outcome) {
			sum.Failures++
		} else {
			sum.Successes++
		}
		sum.ByType[e.Type]++
	}
	return sum
}

// BuildPage assembles report data for entries.
func BuildPage(title string, generatedAt time.Time, params map[string]string, entries []model.HistoryEntry) PageData {
	views := make([]EntryView, len(entries))
	for i, e := range entries {
		views[i] = EntryView{Index: i + 1, Entry: e, Failure: IsFailure(e.Outcome)}
	}
	return PageData{
		Title:       title,
		GeneratedAt: generatedAt,
		Params:      params,
		Summary:     BuildSummary(entries),
		Entries:     views,
	}
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"formatTime": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"upper":      strings.ToUpper,
}).Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root { color-scheme: light dark; }
body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; margin: 24px; background:#fafafa; color:#111; }
header { margin-bottom: 24px; }
h1 { font-size: 26px; margin: 0 0 8px; }
.section { border:1px solid #e5e7eb; border-radius:16px; padding:16px 20px; margin-bottom:18px; background:#fff; box-shadow:0 1px 2px rgba(15,23,42,0.08); }
h2 { font-size:20px; margin:0 0 12px; }
dt { font-weight:600; }
dd { margin:0 0 8px 0; }
.summary-grid { display:grid; gap:12px; grid-template-columns: repeat(auto-fit,minmax(180px,1fr)); }
.summary-card { display:block; padding:12px; border-radius:12px; border:1px solid #cbd5f5; color:inherit; position:relative; background:linear-gradient(180deg,#eef2ff,#fff); }
.summary-card .badge { position:absolute; top:12px; right:12px; padding:2px 10px; border-radius:999px; background:#4f46e5; color:#fff; font-size:12px; }
.meta { color:#6b7280; font-size:12px; }
.table { width:100%; border-collapse:collapse; font-size:14px; }
.table th, .table td { border-bottom:1px solid #e5e7eb; padding:6px 8px; text-align:left; }
.table th { background:#f9fafb; }
.target { font-family: ui-monospace, SFMono-Regular, Menlo, Consolas, monospace; font-size:13px; }
.ok { color:#059669; font-weight:600; }
.fail { color:#e11d48; font-weight:600; }
.footer { text-align:center; font-size:12px; color:#6b7280; margin-top:24px; }
@media (prefers-color-scheme: dark) {
        body { background:#0f172a; color:#e2e8f0; }
        .section { background:#1e293b; border-color:#334155; box-shadow:none; }
        .summary-card { background:linear-gradient(180deg,#312e81,#1e293b); border-color:#4338ca; color:#e0e7ff; }
        .meta { color:#94a3b8; }
        .table th { background:#1e293b; }
}
</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <p class="meta">Generated at {{formatTime .GeneratedAt}}</p>
</header>
<section id="summary" class="section">
  <h2>Summary</h2>
  <div class="summary-grid">
    <div class="summary-card"><strong>Total Probes</strong><span class="badge">{{.Summary.Total}}</span></div>
    <div class="summary-card"><strong>Successes</strong><span class="badge">{{.Summary.Successes}}</span></div>
    <div class="summary-card"><strong>Failures</strong><span class="badge">{{.Summary.Failures}}</span></div>
    {{- range $type, $n := .Summary.ByType}}
    <div class="summary-card by-type"><strong>{{upper $type}}</strong><span class="badge">{{$n}}</span></div>
    {{- end}}
  </div>
</section>
{{- if .OrderedParams}}
<section id="parameters" class="section">
  <h2>Parameters</h2>
  <dl>
  {{- range .OrderedParams }}
    <dt>{{.Key}}</dt>
    <dd><span class="target">{{.Value}}</span></dd>
  {{- end }}
  </dl>
</section>
{{- end}}
<section id="history" class="section">
  <h2>History</h2>
  {{if not .Entries}}
    <p class="meta">No probes recorded.</p>
  {{else}}
  <table class="table">
    <thead>
      <tr><th>#</th><th>Type</th><th>Target</th><th>Outcome</th><th>Time</th></tr>
    </thead>
    <tbody>
    {{range .Entries}}
      <tr>
        <td>{{.Index}}</td>
        <td>{{upper .Entry.Type}}</td>
        <td class="target">{{.Entry.Target}}</td>
        <td class="{{if .Failure}}fail{{else}}ok{{end}}">{{.Entry.Outcome}}</td>
        <td>{{.Entry.Time}}</td>
      </tr>
    {{end}}
    </tbody>
  </table>
  {{end}}
</section>
<footer class="footer">
  cnnct history report generated at {{formatTime .GeneratedAt}}
</footer>
</body>
</html>
`))

// RenderHTML renders the HTML report using the provided data.
func RenderHTML(w io.Writer, data PageData) error {
	if data.Params != nil {
		keys := make([]string, 0, len(data.Params))
		for k := range data.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make([]Param, 0, len(keys))
		for _, k := range keys {
			ordered = append(ordered, Param{Key: k, Value: data.Params[k]})
		}
		data.OrderedParams = ordered
	}
	return htmlTemplate.Execute(w, data)
}
