package main

import (
	"os"

	"github.com/Additional-Code/tableside/internal/cli"
	"github.com/Additional-Code/tableside/internal/observability"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	observability.Version = version
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
