package newsletter

import "go.uber.org/fx"

// Module provides the newsletter repository to Fx.
var Module = fx.Provide(NewRepository)
