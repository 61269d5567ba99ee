package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/selimozcann/cnnct/internal/model"
	"github.com/selimozcann/cnnct/internal/output"
	"github.com/selimozcann/cnnct/internal/runner"
)

var historyOpts struct {
	jsonl string
	html  string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent probes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		entries := s.history.Entries()
		s.presenter.History(entries)
		if historyOpts.jsonl != "" {
			if err := writeJSONLFile(historyOpts.jsonl, entries); err != nil {
				return err
			}
		}
		if historyOpts.html != "" {
			page := output.BuildPage("cnnct probe history", time.Now(), reportParams(), entries)
			if err := writeHTMLFile(historyOpts.html, page); err != nil {
				return err
			}
		}
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all recorded probes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return s.history.Clear()
	},
}

var replayOpts runner.Config

var historyReplayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Run every recorded probe again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		failed := replay(cmd.Context(), cmd.OutOrStdout(), s, replayOpts)
		if failed > 0 {
			return fmt.Errorf("%d of the replayed probes failed", failed)
		}
		return nil
	},
}

// replay re-dispatches the recorded probes oldest first so the log keeps its
// relative order, and applies each outcome through the orchestrator.
func replay(ctx context.Context, w io.Writer, s *session, cfg runner.Config) int {
	entries := s.history.Entries()
	reqs := make([]model.ProbeRequest, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		m, ok := model.ModeForType(entries[i].Type)
		if !ok {
			continue
		}
		reqs = append(reqs, model.ProbeRequest{Mode: m, Target: entries[i].Target})
	}

	failed := 0
	for _, o := range runner.New(cfg, s.dispatcher).Run(ctx, reqs) {
		fmt.Fprintf(w, "[%s] %s\n", o.Request.Mode, o.Request.Target)
		s.orch.Apply(o.Response, o.Err)
		if o.Err != nil {
			failed++
		}
	}
	return failed
}

func reportParams() map[string]string {
	return map[string]string{
		"api":       cfg.APIBase,
		"state-dir": cfg.StateDir,
		"timeout":   cfg.Timeout.String(),
	}
}

func writeJSONLFile(path string, entries []model.HistoryEntry) error {
	return writeFile(path, "JSONL", func(w io.Writer) error { return output.WriteJSONL(w, entries) })
}

func writeHTMLFile(path string, page output.PageData) error {
	return writeFile(path, "HTML", func(w io.Writer) error { return output.RenderHTML(w, page) })
}

func writeFile(path, kind string, write func(io.Writer) error) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("create %s directory: %w", kind, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s file: %w", kind, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", kind, err)
	}
	fmt.Fprintf(os.Stderr, "[write] %s report -> %s\n", kind, path)
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func init() {
	historyCmd.Flags().StringVar(&historyOpts.jsonl, "jsonl", "", "also write the history as JSON lines to this file")
	historyCmd.Flags().StringVar(&historyOpts.html, "html", "", "also write an HTML report to this file")

	historyReplayCmd.Flags().IntVarP(&replayOpts.Threads, "threads", "t", 4, "concurrent probes")
	historyReplayCmd.Flags().IntVar(&replayOpts.RateLimit, "rl", 0, "requests per second, 0 = unlimited")

	historyCmd.AddCommand(historyClearCmd, historyReplayCmd)
	rootCmd.AddCommand(historyCmd)
}
