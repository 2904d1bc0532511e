package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/cdma/internal/pipeline"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions

	// MetricsFile, if set, receives the pipeline metrics in Prometheus
	// text format when the run ends.
	MetricsFile string

	// IDGenerator allows overriding the frame id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDGenerator pipeline.IDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive streaming channel",
		Long: `Start the streaming channel: a producer reads whitespace-separated
frames from stdin and a consumer encodes, decodes and prints every
user's cumulative bits after each frame.

Type the sentinel (default "exit") or close stdin to stop. Frames already
queued are decoded before the program exits.

Example:
  cdma run
  cdma run --width 8 --config ./channel.cue
  printf '0101 1 exit' | cdma run --metrics-file ./cdma.prom`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChannel(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	return cmd
}

func runChannel(opts *RunOptions, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := opts.LoadConfig()
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid channel config", err)
	}
	cb, err := cfg.CodeBook()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build codes", err)
	}

	ids := opts.IDGenerator
	if ids == nil {
		ids = pipeline.UUIDv7Generator{}
	}
	reg := prometheus.NewRegistry()

	p, err := pipeline.New(cb,
		pipeline.WithLogger(logger),
		pipeline.WithNormalizer(cfg.Normalizer()),
		pipeline.WithSentinel(cfg.Sentinel),
		pipeline.WithIDGenerator(ids),
		pipeline.WithMetrics(reg),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create pipeline", err)
	}

	// Setup signal handling for graceful shutdown
	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	src := pipeline.NewScannerSource(cmd.InOrStdin())
	defer src.Close()

	sink := NewConsoleSink(cmd.OutOrStdout())
	if err := sink.Prompt(); err != nil {
		return err
	}

	runErr := p.Run(ctx, src, sink)
	fmt.Fprintln(cmd.OutOrStdout())

	stats := p.Stats()
	logger.Info("channel closed", "decoded", stats.Decoded, "rejected", stats.Rejected)

	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, reg); err != nil {
			return WrapExitError(ExitFailure, "failed to write metrics", err)
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return WrapExitError(ExitFailure, "pipeline error", runErr)
	}
	return nil
}
