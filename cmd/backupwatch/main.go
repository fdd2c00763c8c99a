package main

import (
	"backupwatch/internal/cli"
)

// Version is set at build time via -ldflags.
var Version = "0.1.0"

func main() {
	cli.SetVersion(Version)
	cli.Execute()
}
