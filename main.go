package main

import (
	"os"

	"github.com/mrlokans/mediashelf/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := cli.Execute(Version, Commit); err != nil {
		os.Exit(1)
	}
}
