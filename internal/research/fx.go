package research

import (
	"github.com/careertrail/careertrail/internal/research/service"
	"go.uber.org/fx"
)

var Module = fx.Module("research",
	fx.Provide(service.NewService),
)
