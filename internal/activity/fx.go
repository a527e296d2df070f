package activity

import (
	"github.com/careertrail/careertrail/internal/activity/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("activity",
	fx.Provide(repository.Provide),
)
