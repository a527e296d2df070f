package analytics

import (
	"github.com/careertrail/careertrail/internal/analytics/repository"
	"github.com/careertrail/careertrail/internal/analytics/service"
	"go.uber.org/fx"
)

var Module = fx.Module("analytics",
	fx.Provide(repository.ProvideSnapshotStore),
	fx.Provide(service.NewService),
)
