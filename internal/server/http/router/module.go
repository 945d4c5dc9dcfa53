package router

import "go.uber.org/fx"

// Module provides the fintrack gin engine.
var Module = fx.Provide(Setup)
