package fingerprint

import "go.uber.org/fx"

var Module = fx.Module("fingerprint",
	fx.Provide(func(p *ProfileProvider) Provider { return p }),
	fx.Provide(NewProfileProvider),
)
