package container

import (
	"io"
	"os"

	"github.com/savorly/savorly/internal/application/planner"
	"github.com/savorly/savorly/internal/application/querycache"
	"github.com/savorly/savorly/internal/application/view"
	"github.com/savorly/savorly/internal/infrastructure/config"
	"github.com/savorly/savorly/internal/infrastructure/http/apiclient"
	"github.com/savorly/savorly/internal/infrastructure/notify"
	"github.com/savorly/savorly/internal/ports/outbound"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// PlannerModule wires the interactive planner. Toasts go to out and logs
// to stderr so they do not interleave with the shell.
func PlannerModule(configPath string, out io.Writer) fx.Option {
	return fx.Options(
		ConfigModule(configPath),
		LoggerModule(os.Stderr),
		TracingModule("savorly-planner"),
		fx.Provide(
			func(cfg *config.Config, log *zap.Logger) outbound.DataService {
				return apiclient.NewAPIClient(cfg.Client, log)
			},
			func(cfg *config.Config, log *zap.Logger) *querycache.Cache {
				return querycache.New(cfg.Client.StaleTime, log)
			},
			func(log *zap.Logger) outbound.Notifier {
				return notify.NewConsoleNotifier(out, log)
			},
			planner.New,
			view.NewPage,
		),
		fx.Invoke(WatchLogLevel),
	)
}
