package vcache

import "go.uber.org/fx"

var Module = fx.Module("vcache",
	fx.Provide(NewStore),
)
