// Command api serves the Savorly JSON API and its ops endpoints
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/savorly/savorly/internal/infrastructure/container"
	"github.com/spf13/pflag"
	"go.uber.org/fx"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a config file")
	shutdownTimeout := pflag.Duration("shutdown-timeout", 30*time.Second, "time allowed for a graceful shutdown")
	pflag.Parse()

	app := fx.New(
		fx.NopLogger,
		container.APIModule(*configPath),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start application: %v\n", err)
		os.Exit(1)
	}

	// Stop on a signal or when a server fails
	exitCode := 0
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		exitCode = sig.ExitCode
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), *shutdownTimeout)
	defer shutdownCancel()

	if err := app.Stop(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to stop application gracefully: %v\n", err)
		exitCode = 1
	}
	if exitCode != 0 {
		shutdownCancel()
		cancel()
		os.Exit(exitCode)
	}
}
