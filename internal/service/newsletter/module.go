package newsletter

import "go.uber.org/fx"

// Module provides the newsletter service to Fx.
var Module = fx.Provide(NewService)
