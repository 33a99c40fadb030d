package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/petasbytes/toolloop/internal/config"
	"github.com/petasbytes/toolloop/internal/console"
	"github.com/petasbytes/toolloop/internal/runner"
	"github.com/petasbytes/toolloop/tools"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		provider  string
		model     string
		logLevel  string
		workRoot  string
		maxTokens int
	)
	cmd := &cobra.Command{
		Use:          "agent",
		Short:        "Chat with a model that can read, list and edit files in the work root",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			f := cmd.Flags()
			if f.Changed("provider") {
				cfg.Provider = provider
			}
			if f.Changed("model") {
				cfg.Model = model
			}
			if f.Changed("max-tokens") {
				cfg.MaxTokens = maxTokens
			}
			if f.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if f.Changed("work-root") {
				cfg.WorkRoot = workRoot
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			// fsops resolves the root from the environment on first use
			if cfg.WorkRoot != "" {
				if err := os.Setenv("AGT_WORK_ROOT", cfg.WorkRoot); err != nil {
					return fmt.Errorf("set work root: %w", err)
				}
			}

			log := newLogger(cmd.ErrOrStderr(), cfg.SlogLevel())
			slog.SetDefault(log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), log)
		},
	}
	f := cmd.Flags()
	f.StringVar(&provider, "provider", config.ProviderAnthropic, "completion backend: anthropic or openai (env AGT_PROVIDER)")
	f.StringVar(&model, "model", "", "model name; empty uses the backend default (env AGT_MODEL)")
	f.IntVar(&maxTokens, "max-tokens", 1024, "maximum tokens per reply (env AGT_MAX_TOKENS)")
	f.StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error (env AGT_LOG_LEVEL)")
	f.StringVar(&workRoot, "work-root", "", "directory relative tool paths resolve against (env AGT_WORK_ROOT)")
	return cmd
}

// run drives one session. Cancellation is a normal way to leave.
func run(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer, log *slog.Logger) error {
	printer := console.NewPrinter(out)
	printer.Println("Chat with the agent (empty line or Ctrl-C to quit)")
	log.Info("session started", "provider", cfg.Provider, "model", cfg.ModelOrDefault())

	c := runner.New(
		cfg.Gateway(log),
		tools.Default(),
		console.NewReader(in),
		printer,
		runner.WithModel(cfg.ModelOrDefault()),
		runner.WithLogger(log),
	)
	err := c.Run(ctx)
	if errors.Is(err, context.Canceled) {
		printer.Println("\nExiting...")
		return nil
	}
	return err
}

// newLogger writes human-readable logs to terminals and JSON otherwise.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
