package model

import (
	"fmt"
	"strings"
)

// ProbeMode selects which backend check a probe runs.
type ProbeMode int

const (
	ModePort ProbeMode = iota
	ModeDNS
	ModeDiagnostic
	ModeStatus
)

// Modes lists every mode in tab order.
var Modes = []ProbeMode{ModePort, ModeDNS, ModeDiagnostic, ModeStatus}

func (m ProbeMode) String() string {
	switch m {
	case ModePort:
		return "port"
	case ModeDNS:
		return "dns"
	case ModeDiagnostic:
		return "diag"
	case ModeStatus:
		return "status"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// NeedsTarget reports whether the mode requires a user supplied target.
func (m ProbeMode) NeedsTarget() bool { return m != ModeStatus }

// ParseMode accepts the String form of a mode, case-insensitively.
func ParseMode(s string) (ProbeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "port":
		return ModePort, nil
	case "dns":
		return ModeDNS, nil
	case "diag", "http":
		return ModeDiagnostic, nil
	case "status":
		return ModeStatus, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// ProbeRequest is one submission from the operator.
type ProbeRequest struct {
	Mode   ProbeMode
	Target string
}

// ProbeResult is implemented by the per-mode result shapes. Mode always
// equals the mode of the request that produced the result.
type ProbeResult interface {
	Mode() ProbeMode
}

// PortResult is the /api/cnnct answer.
type PortResult struct {
	Target    string   `json:"target"`
	TCP443    bool     `json:"tcp_443"`
	LatencyMs *float64 `json:"latency_ms"`
}

// DNSResult is the /api/dns answer. Records keeps the backend order.
type DNSResult struct {
	Records []string `json:"records"`
}

// DiagnosticResult is the /api/diag answer.
type DiagnosticResult struct {
	URL              string  `json:"url"`
	HTTPCode         int     `json:"http_code"`
	Method           string  `json:"method"`
	RemoteIP         string  `json:"remote_ip"`
	TotalTimeMs      float64 `json:"total_time_ms"`
	SpeedDownloadBps float64 `json:"speed_download_bps"`
	ContentType      string  `json:"content_type"`
	Redirects        int     `json:"redirects"`
}

// MemoryBackend is the backend value reported when no cache is configured.
const MemoryBackend = "memory"

// StatusResult is the /api/status answer. It has three shapes: the memory
// backend (Message only), a connected cache (metrics) and a disconnected
// cache (Error).
type StatusResult struct {
	Backend          string   `json:"backend"`
	Message          string   `json:"message,omitempty"`
	Connected        bool     `json:"connected"`
	Version          string   `json:"version,omitempty"`
	LatencyMs        *float64 `json:"latency_ms,omitempty"`
	ConnectedClients *float64 `json:"connected_clients,omitempty"`
	UsedMemoryHuman  string   `json:"used_memory_human,omitempty"`
	UptimeSeconds    *float64 `json:"uptime_seconds,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// IsMemory reports whether the backend has no cache dependency.
func (s StatusResult) IsMemory() bool { return s.Backend == MemoryBackend }

func (PortResult) Mode() ProbeMode       { return ModePort }
func (DNSResult) Mode() ProbeMode        { return ModeDNS }
func (DiagnosticResult) Mode() ProbeMode { return ModeDiagnostic }
func (StatusResult) Mode() ProbeMode     { return ModeStatus }

// HistoryEntry summarises one completed probe. The JSON keys are part of the
// persisted format.
type HistoryEntry struct {
	Target  string `json:"target"`
	Type    string `json:"type"`
	Outcome string `json:"outcome"`
	Time    string `json:"time"`
}

// History type labels.
const (
	TypePort = "Port"
	TypeDNS  = "DNS"
	TypeHTTP = "HTTP"
)

// HistoryTimeLayout formats HistoryEntry.Time in local time.
const HistoryTimeLayout = "3:04:05 PM"

// ModeForType maps a history type label back to the mode that produced it.
func ModeForType(label string) (ProbeMode, bool) {
	switch label {
	case TypePort:
		return ModePort, true
	case TypeDNS:
		return ModeDNS, true
	case TypeHTTP:
		return ModeDiagnostic, true
	}
	return 0, false
}
