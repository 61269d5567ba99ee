package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/selimozcann/cnnct/internal/banner"
	"github.com/selimozcann/cnnct/internal/dispatch"
	"github.com/selimozcann/cnnct/internal/mode"
	"github.com/selimozcann/cnnct/internal/model"
	"github.com/selimozcann/cnnct/internal/output"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive probing session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		s, err := newSession(out)
		if err != nil {
			return err
		}
		s.presenter.CopyHint = output.CopyLabel + ": type copy"
		banner.PrintBanner(out)
		return runShell(cmd.Context(), cmd.InOrStdin(), out, s)
	},
}

const shellHelp = `commands:
  port | dns | diag | status   switch mode (status probes at once)
  1..4                         probe a preset
  copy                         copy the last JSON response
  history                      list recent probes
  clear                        forget recent probes
  help                         show this text
  quit                         leave the shell
anything else is probed in the current mode`

var (
	promptColor = color.New(color.FgCyan)
	hintColor   = color.New(color.FgHiBlack)
)

func runShell(ctx context.Context, in io.Reader, out io.Writer, s *session) error {
	var recorded atomic.Int64
	recorded.Store(int64(len(s.history.Entries())))
	s.history.OnChange(func(entries []model.HistoryEntry) {
		recorded.Store(int64(len(entries)))
	})

	showMode(out, s.orch.ModeView())
	scanner := bufio.NewScanner(in)
	for {
		promptColor.Fprintf(out, "cnnct [%s] (%d) > ", s.orch.Mode(), recorded.Load())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if quit := shellLine(ctx, out, s, line); quit {
			return nil
		}
	}
}

// shellLine handles one input line and reports whether the session ends.
func shellLine(ctx context.Context, out io.Writer, s *session, line string) bool {
	switch strings.ToLower(line) {
	case "":
		return false
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(out, shellHelp)
		return false
	case "copy":
		copied, err := s.orch.ExportLast()
		switch {
		case err != nil:
			s.presenter.Error(err.Error())
		case !copied:
			hintColor.Fprintln(out, "Nothing to copy")
		default:
			fmt.Fprintln(out, s.copyButton.Label())
		}
		return false
	case "history":
		s.presenter.History(s.history.Entries())
		return false
	case "clear":
		if err := s.history.Clear(); err != nil {
			s.presenter.Error(err.Error())
		}
		return false
	}

	if m, err := model.ParseMode(line); err == nil {
		// Probe failures are already rendered by the orchestrator.
		t, _ := s.orch.SelectMode(ctx, m)
		if t.Changed && !t.Dispatch {
			showMode(out, t)
		}
		return false
	}
	if !s.orch.ModeView().FormVisible {
		hintColor.Fprintf(out, "%s mode takes no target; switch with port, dns or diag\n", s.orch.Mode())
		return false
	}
	if n, err := strconv.Atoi(line); err == nil {
		if _, err := s.orch.ChoosePreset(ctx, n-1); err != nil {
			if _, isProbe := dispatch.IsProbeError(err); !isProbe {
				s.presenter.Error(err.Error())
			}
		}
		return false
	}
	_, _ = s.orch.Submit(ctx, line)
	return false
}

func showMode(out io.Writer, t mode.Transition) {
	if t.Placeholder != "" {
		hintColor.Fprintln(out, t.Placeholder)
	}
	for i, p := range t.Presets {
		hintColor.Fprintf(out, "  %d) %s (%s)\n", i+1, p.Label, p.Value)
	}
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
