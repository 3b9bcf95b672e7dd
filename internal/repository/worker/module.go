package worker

import "go.uber.org/fx"

// Module provides the worker repository to Fx.
var Module = fx.Provide(NewRepository)
