package cliutil

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sso-concerts/lib/config"
	"sso-concerts/lib/telemetry"

	"github.com/spf13/cobra"
)

// Returns a context that will live until Ctrl+C is pressed
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	return ctx
}

func Fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

// Flags are the flags every binary shares.
type Flags struct {
	Config  string
	Verbose bool
}

func (f *Flags) Register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.Config, "config", config.DefaultFile, "The config file, sso.local.json5 next to it overrides it.")
	cmd.PersistentFlags().BoolVarP(&f.Verbose, "verbose", "v", false, "Log at debug level.")
}

// Setup loads the config, initializes logging and installs the tracer
// provider. The returned func flushes any pending spans.
func (f Flags) Setup(ctx context.Context, serviceName string) (config.Config, func(), error) {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return config.Config{}, nil, err
	}
	cfg.Verbose = cfg.Verbose || f.Verbose
	telemetry.InitSlog(cfg.Verbose)

	tel, err := telemetry.Setup(ctx, serviceName, cfg.Telemetry)
	if err != nil {
		return config.Config{}, nil, err
	}
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	}
	return cfg, shutdown, nil
}

// Execute runs the command tree, any returned error exits with status 1.
func Execute(root *cobra.Command) {
	root.SilenceErrors = true
	root.SilenceUsage = true
	if err := root.ExecuteContext(SignalContext()); err != nil {
		Fatal("command failed", err)
	}
}
