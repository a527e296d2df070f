package profile

import (
	"github.com/careertrail/careertrail/internal/profile/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("profile",
	fx.Provide(repository.Provide),
)
