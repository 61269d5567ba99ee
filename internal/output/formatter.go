package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/selimozcann/cnnct/internal/model"
	"github.com/selimozcann/cnnct/internal/statuscolor"
)

var (
	heading = color.New(color.FgWhite, color.Bold)
	accent  = color.New(color.FgBlue)
	label   = color.New(color.FgHiBlack)
	errLine = color.New(color.FgRed)
	pending = color.New(color.FgCyan)
)

// Presenter renders probe results and errors as terminal text.
type Presenter struct {
	w io.Writer
	// CopyHint is printed under every rendered result. Empty disables it.
	CopyHint string
}

// NewPresenter returns a presenter writing to w.
func NewPresenter(w io.Writer) *Presenter {
	return &Presenter{w: w}
}

// Progress announces an in-flight probe.
func (p *Presenter) Progress(m model.ProbeMode) {
	if m == model.ModeStatus {
		pending.Fprintln(p.w, "Checking status...")
		return
	}
	pending.Fprintln(p.w, "Probing...")
}

// Error renders a probe failure in place of results.
func (p *Presenter) Error(msg string) {
	errLine.Fprintf(p.w, "Error: %s\n", msg)
}

// Result renders res according to its mode.
func (p *Presenter) Result(res model.ProbeResult) {
	switch r := res.(type) {
	case model.PortResult:
		p.port(r)
	case model.DNSResult:
		p.dns(r)
	case model.DiagnosticResult:
		p.diag(r)
	case model.StatusResult:
		p.status(r)
	default:
		fmt.Fprintf(p.w, "%v\n", res)
	}
	if p.CopyHint != "" {
		label.Fprintf(p.w, "[%s]\n", p.CopyHint)
	}
}

func (p *Presenter) port(r model.PortResult) {
	line := fmt.Sprintf("Target: %s", accent.Sprint(r.Target))
	if r.LatencyMs != nil && *r.LatencyMs != 0 {
		line += "  " + statuscolor.OK(num(*r.LatencyMs)+"ms")
	}
	fmt.Fprintln(p.w, line)
	verdict := statuscolor.Fail("CLOSED")
	if r.TCP443 {
		verdict = statuscolor.OK("OPEN")
	}
	fmt.Fprintf(p.w, "  %s %s\n", label.Sprint("PORT 443"), verdict)
}

func (p *Presenter) dns(r model.DNSResult) {
	heading.Fprintln(p.w, "A Records")
	for _, ip := range r.Records {
		fmt.Fprintf(p.w, "  %s\n", statuscolor.OK(ip))
	}
}

func (p *Presenter) diag(r model.DiagnosticResult) {
	fmt.Fprintf(p.w, "URL: %s  %s\n", accent.Sprint(r.URL), statuscolor.Sprint(r.HTTPCode))
	p.grid([][2]string{
		{"Method", r.Method},
		{"IP", r.RemoteIP},
		{"Time", num(r.TotalTimeMs) + "ms"},
		{"Speed", FormatSpeed(r.SpeedDownloadBps)},
		{"Type", r.ContentType},
		{"Redirects", strconv.Itoa(r.Redirects)},
	})
}

func (p *Presenter) status(r model.StatusResult) {
	if r.IsMemory() {
		fmt.Fprintf(p.w, "Backend: %s\n", accent.Sprint(r.Backend))
		fmt.Fprintf(p.w, "  %s\n", r.Message)
		return
	}
	verdict := statuscolor.Fail("DISCONNECTED")
	if r.Connected {
		verdict = statuscolor.OK("CONNECTED")
	}
	fmt.Fprintf(p.w, "Backend: %s  %s\n", accent.Sprint(r.Backend), verdict)
	if !r.Connected {
		fmt.Fprintf(p.w, "  %s\n", statuscolor.Fail("Error: "+r.Error))
		return
	}
	p.grid([][2]string{
		{"Version", r.Version},
		{"Latency", optNum(r.LatencyMs) + "ms"},
		{"Clients", optNum(r.ConnectedClients)},
		{"Memory", r.UsedMemoryHuman},
		{"Uptime", optNum(r.UptimeSeconds) + "s"},
	})
}

func (p *Presenter) grid(rows [][2]string) {
	width := 0
	for _, row := range rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}
	for _, row := range rows {
		pad := strings.Repeat(" ", width-len(row[0]))
		fmt.Fprintf(p.w, "  %s:%s %s\n", label.Sprint(row[0]), pad, row[1])
	}
}

// History renders the log one entry per line, newest first.
func (p *Presenter) History(entries []model.HistoryEntry) {
	if len(entries) == 0 {
		label.Fprintln(p.w, "No history yet.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(p.w, "%s %s %s %s\n",
			accent.Sprintf("[%s]", strings.ToUpper(e.Type)),
			statuscolor.Gray(e.Time),
			e.Target,
			statuscolor.Outcome(e.Outcome),
		)
	}
}

// FormatSpeed renders bytes per second as KB/s with two decimals.
func FormatSpeed(bps float64) string {
	return fmt.Sprintf("%.2f KB/s", bps/1024)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optNum(v *float64) string {
	if v == nil {
		return "-"
	}
	return num(*v)
}
