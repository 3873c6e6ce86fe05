// Command migrate applies or rolls back the PostgreSQL schema
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/savorly/savorly/internal/infrastructure/persistence/migrations"
	"github.com/savorly/savorly/pkg/logger"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = `Usage: migrate [flags] <up|down|reset|status|version|force N>

Flags:
`

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a config file")
	dsn := pflag.String("dsn", "", "PostgreSQL connection string (defaults to the configured database)")
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(logger.Config{Level: cfg.App.LogLevel, Format: "console", Output: os.Stderr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, *dsn, pflag.Args(), log.Logger); err != nil {
		log.Error("Migration command failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, dsn string, args []string, log *zap.Logger) error {
	if dsn == "" {
		dsn = cfg.GetDSN()
	}
	db, err := migrations.Open(dsn)
	if err != nil {
		return err
	}
	m, err := migrations.New(db, cfg.Database.Database, log)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer m.Close()

	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "reset":
		return m.Reset()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		return nil
	case "status":
		status, err := m.Status()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force needs a version")
		}
		var version int
		if _, err := fmt.Sscanf(args[1], "%d", &version); err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		return m.Force(version)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}
