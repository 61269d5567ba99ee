package runner

import (
	"context"
	"sync"
	"time"

	"github.com/selimozcann/cnnct/internal/dispatch"
	"github.com/selimozcann/cnnct/internal/model"
)

// Config holds settings for the runner.
type Config struct {
	Threads   int
	RateLimit int // requests per second, 0 = unlimited
}

// Prober runs one probe.
type Prober interface {
	Dispatch(ctx context.Context, req model.ProbeRequest) (dispatch.Response, error)
}

// Outcome is the result of one request, in input order.
type Outcome struct {
	Request  model.ProbeRequest
	Response dispatch.Response
	Err      error
}

// Runner coordinates concurrent probes.
type Runner struct {
	cfg    Config
	prober Prober
}

// New creates a new Runner.
func New(cfg Config, prober Prober) *Runner {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	return &Runner{cfg: cfg, prober: prober}
}

// Run dispatches every request and returns outcomes in the order given.
// Requests not started before ctx ends carry ctx.Err().
func (r *Runner) Run(ctx context.Context, reqs []model.ProbeRequest) []Outcome {
	out := make([]Outcome, len(reqs))
	for i, req := range reqs {
		out[i] = Outcome{Request: req}
	}
	done := make([]bool, len(reqs))
	mu := &sync.Mutex{}
	var (
		rateCh <-chan time.Time
		ticker *time.Ticker
	)
	if r.cfg.RateLimit > 0 {
		interval := time.Second / time.Duration(r.cfg.RateLimit)
		if interval <= 0 {
			interval = time.Nanosecond
		}
		ticker = time.NewTicker(interval)
		rateCh = ticker.C
		defer ticker.Stop()
	}

	type job struct {
		idx int
		req model.ProbeRequest
	}

	jobs := make(chan job)
	wg := sync.WaitGroup{}
	for i := 0; i < r.cfg.Threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jb := range jobs {
				if rateCh != nil {
					select {
					case <-ctx.Done():
						continue
					case <-rateCh:
					}
				}
				resp, err := r.prober.Dispatch(ctx, jb.req)
				mu.Lock()
				out[jb.idx].Response = resp
				out[jb.idx].Err = err
				done[jb.idx] = true
				mu.Unlock()
			}
		}()
	}

feed:
	for i, req := range reqs {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job{idx: i, req: req}:
		}
	}
	close(jobs)

	wg.Wait()
	for i := range out {
		if !done[i] {
			out[i].Err = ctx.Err()
		}
	}
	return out
}
