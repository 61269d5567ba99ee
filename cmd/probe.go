package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/selimozcann/cnnct/internal/dispatch"
	"github.com/selimozcann/cnnct/internal/model"
	"github.com/selimozcann/cnnct/internal/output"
)

type probeFlags struct {
	copy bool
	json bool
}

func newProbeCmd(m model.ProbeMode, use, short string) *cobra.Command {
	var pf probeFlags
	args := cobra.ExactArgs(1)
	if !m.NeedsTarget() {
		args = cobra.NoArgs
	}
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, a []string) error {
			target := ""
			if len(a) > 0 {
				target = a[0]
			}
			return runProbe(cmd.Context(), cmd.OutOrStdout(), m, target, pf)
		},
	}
	c.Flags().BoolVar(&pf.copy, "copy", false, "copy the raw JSON response to the clipboard")
	c.Flags().BoolVar(&pf.json, "json", false, "print the raw JSON response instead of rendering it")
	return c
}

func runProbe(ctx context.Context, w io.Writer, m model.ProbeMode, target string, pf probeFlags) error {
	view := w
	if pf.json {
		view = io.Discard
	}
	s, err := newSession(view)
	if err != nil {
		return err
	}

	var resp dispatch.Response
	if m.NeedsTarget() {
		if _, err := s.orch.SelectMode(ctx, m); err != nil {
			return err
		}
		resp, err = s.orch.Submit(ctx, target)
	} else {
		_, err = s.orch.SelectMode(ctx, m)
		resp.Raw = s.orch.State().LastRaw
	}
	switch {
	case errors.Is(err, dispatch.ErrEmptyInput):
		return nil
	case err != nil && pf.json:
		return err
	case err != nil:
		return errReported
	}

	if pf.json {
		if text, ferr := output.FormatExport(resp.Raw); ferr == nil {
			fmt.Fprintln(w, text)
		} else {
			fmt.Fprintln(w, string(resp.Raw))
		}
	}
	if pf.copy {
		if _, err := s.orch.ExportLast(); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, s.copyButton.Label())
	}
	return nil
}

func init() {
	rootCmd.AddCommand(
		newProbeCmd(model.ModePort, "port <target>", "Check TCP 443 reachability of an IP or domain"),
		newProbeCmd(model.ModeDNS, "dns <domain>", "Resolve the A records of a domain"),
		newProbeCmd(model.ModeDiagnostic, "diag <url>", "Run an HTTP diagnostic against a URL"),
		newProbeCmd(model.ModeStatus, "status", "Show the backend cache status"),
	)
}
