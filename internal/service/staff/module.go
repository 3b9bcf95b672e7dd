package staff

import "go.uber.org/fx"

// Module provides the staff service to Fx.
var Module = fx.Provide(NewService)
