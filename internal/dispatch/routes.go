package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/selimozcann/cnnct/internal/model"
)

// route binds a mode to its endpoint, parser and history formatting.
type route struct {
	// typeLabel is the history type; empty means the mode is not recorded.
	typeLabel string
	path      func(target string) string
	parse     func(body []byte) (model.ProbeResult, error)
	outcome   func(model.ProbeResult) string
}

var routes = map[model.ProbeMode]route{
	model.ModePort: {
		typeLabel: model.TypePort,
		path: func(target string) string {
			return "/api/cnnct?target=" + url.QueryEscape(target)
		},
		parse: func(body []byte) (model.ProbeResult, error) {
			var r model.PortResult
			if err := decode(body, &r); err != nil {
				return nil, err
			}
			return r, nil
		},
		outcome: func(res model.ProbeResult) string {
			if res.(model.PortResult).TCP443 {
				return "Success"
			}
			return "Failed"
		},
	},
	model.ModeDNS: {
		typeLabel: model.TypeDNS,
		path: func(target string) string {
			return "/api/dns/" + url.PathEscape(target)
		},
		parse: func(body []byte) (model.ProbeResult, error) {
			var r model.DNSResult
			if err := decode(body, &r); err != nil {
				return nil, err
			}
			if r.Records == nil {
				r.Records = []string{}
			}
			return r, nil
		},
		outcome: func(model.ProbeResult) string { return "Resolved" },
	},
	model.ModeDiagnostic: {
		typeLabel: model.TypeHTTP,
		path: func(target string) string {
			return "/api/diag?url=" + url.QueryEscape(target)
		},
		parse: func(body []byte) (model.ProbeResult, error) {
			var r model.DiagnosticResult
			if err := decode(body, &r); err != nil {
				return nil, err
			}
			return r, nil
		},
		outcome: func(res model.ProbeResult) string {
			return fmt.Sprintf("%d OK", res.(model.DiagnosticResult).HTTPCode)
		},
	},
	model.ModeStatus: {
		path: func(string) string { return "/api/status" },
		parse: func(body []byte) (model.ProbeResult, error) {
			var r model.StatusResult
			if err := decode(body, &r); err != nil {
				return nil, err
			}
			return r, nil
		},
	},
}

// Endpoint returns the path and query the mode requests for target.
func Endpoint(m model.ProbeMode, target string) (string, error) {
	rt, ok := routes[m]
	if !ok {
		return "", fmt.Errorf("no route for mode %s", m)
	}
	return rt.path(target), nil
}

// decode requires a top-level JSON object. Missing fields keep their zero
// value; a known field with the wrong JSON type is an error.
func decode(body []byte, v any) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return fmt.Errorf("response is not a JSON object: %w", err)
	}
	if top == nil {
		return errors.New("response is null")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("unexpected response shape: %w", err)
	}
	return nil
}
