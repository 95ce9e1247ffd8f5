package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"facility_reports/internal/infra/config"
	"facility_reports/internal/infra/logger"
	"facility_reports/internal/wire"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// runFunc is the body of a command once the runtime is up and the collections are loaded.
type runFunc func(ctx context.Context, rt *wire.Runtime) error

// withRuntime loads configuration, builds the services, refreshes reports and the
// admin update feed, then runs fn. The runtime is closed when fn returns.
func withRuntime(cmd *cobra.Command, fn runFunc) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	// Keep command output readable unless the user asked for more.
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = "warn"
	}
	logger.Init(cfg)

	rt, err := wire.Build(ctx, cfg, newConsoleAlerter(cmd.ErrOrStderr()), logger.Entry())
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.Controller.Refresh(ctx); err != nil {
		warn(cmd, "Could not refresh from %s: %v", cfg.APIBaseURL, err)
	}
	return fn(ctx, rt)
}

func warn(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintln(cmd.ErrOrStderr(), color.New(color.FgYellow).Sprintf("⚠ "+format, args...))
}

func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), color.New(color.FgGreen).Sprintf("✓ "+format, args...))
}
