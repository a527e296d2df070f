package batch

import (
	"context"

	"github.com/careertrail/careertrail/internal/analytics/runlog"
	"go.uber.org/fx"
)

var Module = fx.Module("analytics.batch",
	fx.Provide(FromAppConfig),
	fx.Provide(runlog.NewLedger),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func runWorker(lc fx.Lifecycle, worker *Worker) {
	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go worker.RunForever(runCtx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
