package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/selimozcann/cnnct/internal/model"
)

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

// Response is a successful dispatch.
type Response struct {
	Request model.ProbeRequest
	Result  model.ProbeResult
	// Raw is the body exactly as received.
	Raw json.RawMessage
}

// HistoryEntry summarises the response for the history log. ok is false for
// modes that are not recorded.
func (r Response) HistoryEntry(at time.Time) (entry model.HistoryEntry, ok bool) {
	rt := routes[r.Request.Mode]
	if rt.typeLabel == "" || rt.outcome == nil {
		return model.HistoryEntry{}, false
	}
	return model.HistoryEntry{
		Target:  r.Request.Target,
		Type:    rt.typeLabel,
		Outcome: rt.outcome(r.Result),
		Time:    at.Local().Format(model.HistoryTimeLayout),
	}, true
}

// Doer is the part of *http.Client the dispatcher needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Dispatcher turns probe requests into backend calls.
type Dispatcher struct {
	baseURL string
	client  Doer
}

// New returns a dispatcher that sends requests to baseURL, e.g.
// "http://127.0.0.1:8080". The endpoint paths already carry the /api prefix.
func New(baseURL string, client Doer) *Dispatcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Dispatcher{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Dispatch runs one probe. The returned error is ErrEmptyInput or a
// *ProbeError. A response whose body reports a logical failure (closed port,
// disconnected cache) is a success.
func (d *Dispatcher) Dispatch(ctx context.Context, req model.ProbeRequest) (Response, error) {
	req.Target = strings.TrimSpace(req.Target)
	if req.Mode.NeedsTarget() && req.Target == "" {
		return Response{}, ErrEmptyInput
	}
	if !req.Mode.NeedsTarget() {
		req.Target = ""
	}
	rt, ok := routes[req.Mode]
	if !ok {
		return Response{}, fmt.Errorf("no route for mode %s", req.Mode)
	}

	endpoint := d.baseURL + rt.path(req.Target)
	start := time.Now()
	slog.Info("dispatch start", slog.String("mode", req.Mode.String()), slog.String("target", req.Target))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, transportErr(err.Error(), 0, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(httpReq)
	if err != nil {
		slog.Warn("dispatch failed", slog.String("mode", req.Mode.String()), slog.String("error", err.Error()))
		return Response{}, transportErr(err.Error(), 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Response{}, transportErr(fmt.Sprintf("read response body: %v", err), resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("dispatch rejected", slog.String("mode", req.Mode.String()), slog.Int("status", resp.StatusCode))
		return Response{}, transportErr(fmt.Sprintf("Server returned %d", resp.StatusCode), resp.StatusCode, nil)
	}

	result, err := rt.parse(body)
	if err != nil {
		slog.Warn("dispatch malformed", slog.String("mode", req.Mode.String()), slog.String("error", err.Error()))
		return Response{}, malformedErr(err.Error(), err)
	}

	slog.Info("dispatch done", slog.String("mode", req.Mode.String()), slog.Duration("took", time.Since(start)))
	return Response{
		Request: req,
		Result:  result,
		Raw:     json.RawMessage(body),
	}, nil
}

// IsProbeError reports whether err is a *ProbeError and returns it.
func IsProbeError(err error) (*ProbeError, bool) {
	var pe *ProbeError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
