// Package container wires the Savorly binaries with Uber FX
package container

import (
	"context"
	"io"

	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/savorly/savorly/internal/infrastructure/monitoring"
	"github.com/savorly/savorly/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ConfigModule loads the configuration from path, or from the default
// locations when path is empty
func ConfigModule(path string) fx.Option {
	return fx.Provide(func() (*config.Config, error) {
		return config.Load(path)
	})
}

// LoggerModule provides the root logger writing to out
func LoggerModule(out io.Writer) fx.Option {
	return fx.Provide(
		func(cfg *config.Config) (*logger.Logger, error) {
			return logger.New(logger.Config{
				Level:       cfg.App.LogLevel,
				Format:      cfg.App.LogFormat,
				Development: cfg.App.Debug,
				Output:      out,
			})
		},
		func(l *logger.Logger) *zap.Logger {
			return l.Logger
		},
	)
}

// TracingModule installs the OpenTelemetry tracer provider for service
func TracingModule(service string) fx.Option {
	return fx.Options(
		fx.Provide(func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
			tp, err := monitoring.NewTracingProvider(monitoring.TracingConfig{
				ServiceName:    service,
				ServiceVersion: cfg.App.Version,
				Environment:    cfg.App.Environment,
				OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
				SamplingRate:   cfg.Monitoring.SamplingRate,
				Enabled:        cfg.Monitoring.EnableTracing,
			}, log)
			if err != nil {
				return nil, err
			}
			lc.Append(fx.Hook{OnStop: tp.Shutdown})
			return tp, nil
		}),
		// Constructing the provider is what installs it globally
		fx.Invoke(func(*monitoring.TracingProvider) {}),
	)
}

// WatchLogLevel applies log level changes from the config file at runtime
func WatchLogLevel(lc fx.Lifecycle, cfg *config.Config, l *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			current := cfg.App.LogLevel
			watching := cfg.Watch(l.Logger, func(next *config.Config) {
				if next.App.LogLevel == current {
					return
				}
				l.Info("Changing log level",
					zap.String("from", current),
					zap.String("to", next.App.LogLevel),
				)
				current = next.App.LogLevel
				l.SetLevel(current)
			})
			if watching {
				l.Debug("Watching configuration file for changes")
			}
			return nil
		},
	})
}
