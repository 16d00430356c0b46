package main

import (
	"os"

	"github.com/vortex-fintech/intlphone/cmd/phonefmt/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
