package menu

import "go.uber.org/fx"

// Module provides the menu catalog repository to Fx.
var Module = fx.Provide(NewRepository)
