package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/selimozcann/cnnct/internal/app"
	"github.com/selimozcann/cnnct/internal/config"
	"github.com/selimozcann/cnnct/internal/dispatch"
	"github.com/selimozcann/cnnct/internal/history"
	"github.com/selimozcann/cnnct/internal/httpclient"
	"github.com/selimozcann/cnnct/internal/logging"
	"github.com/selimozcann/cnnct/internal/output"
	"github.com/selimozcann/cnnct/internal/storage"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "cnnct",
	Short:         "Run port, DNS, HTTP and backend status probes",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(cfg.LogLevel)
		if cfg.NoColor {
			color.NoColor = true
		}
	},
}

// session is everything a command needs to probe and record.
type session struct {
	orch       *app.Orchestrator
	dispatcher *dispatch.Dispatcher
	history    *history.Log
	presenter  *output.Presenter
	copyButton *output.CopyButton
}

func newSession(w io.Writer) (*session, error) {
	log := history.New(storage.NewFile(cfg.StateDir))
	if err := log.Load(); err != nil {
		return nil, err
	}
	d := dispatch.New(cfg.APIBase, httpclient.New(httpclient.Config{Timeout: cfg.Timeout, Insecure: cfg.Insecure}))
	presenter := output.NewPresenter(w)
	btn := output.NewCopyButton(output.SystemClipboard{}, nil)
	orch, err := app.New(app.Options{
		Prober:   d,
		History:  log,
		View:     presenter,
		Exporter: btn,
	})
	if err != nil {
		return nil, err
	}
	return &session{orch: orch, dispatcher: d, history: log, presenter: presenter, copyButton: btn}, nil
}

func Execute() {
	defaults, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg = defaults

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.APIBase, "api", defaults.APIBase, "probe backend base URL (env "+config.EnvAPIBase+")")
	flags.StringVar(&cfg.StateDir, "state-dir", defaults.StateDir, "directory for persisted history (env "+config.EnvStateDir+")")
	flags.DurationVar(&cfg.Timeout, "timeout", defaults.Timeout, "per-request timeout, 0 for none (env "+config.EnvTimeout+")")
	flags.StringVar(&cfg.LogLevel, "log-level", defaults.LogLevel, "debug, info, warn or error (env "+config.EnvLogLevel+")")
	flags.BoolVar(&cfg.NoColor, "no-color", false, "disable colored output")
	flags.BoolVar(&cfg.Insecure, "insecure", false, "skip TLS verification of an https backend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// errReported marks a failure already shown to the operator.
var errReported = errors.New("reported")
