package orderevent

import "go.uber.org/fx"

// Module provides the order audit trail repository to Fx.
var Module = fx.Provide(NewRepository)
