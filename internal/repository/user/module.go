package user

import "go.uber.org/fx"

// Module provides the staff directory repository to Fx.
var Module = fx.Provide(NewRepository)
