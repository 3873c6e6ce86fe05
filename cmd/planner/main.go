// Command planner is an interactive shell for browsing recipes, booking
// meals and keeping favorites against a running Savorly API
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/savorly/savorly/internal/application/view"
	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/savorly/savorly/internal/infrastructure/container"
	"github.com/spf13/pflag"
	"go.uber.org/fx"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a config file")
	apiURL := pflag.String("api-url", "", "Savorly API base URL (overrides client.api_url)")
	pflag.Parse()

	if *apiURL != "" {
		_ = os.Setenv(config.EnvPrefix+"_CLIENT_API_URL", *apiURL)
	}

	var page *view.Page
	app := fx.New(
		fx.NopLogger,
		container.PlannerModule(*configPath, os.Stdout),
		fx.Populate(&page),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start planner: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Savorly planner. Type help for commands.")
	sh := newShell(page, os.Stdout)
	if err := sh.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Input error: %v\n", err)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	_ = app.Stop(stopCtx)
}
