package team

import (
	"github.com/careertrail/careertrail/internal/team/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("team",
	fx.Provide(repository.Provide),
)
