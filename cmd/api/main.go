package main

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/tableside/internal/app"
	"github.com/Additional-Code/tableside/internal/logger"
)

// main runs the HTTP and gRPC service without the CLI; see cmd/tableside for migrations and seeding.
func main() {
	fx.New(app.Module, fx.WithLogger(logger.FxEvent)).Run()
}
