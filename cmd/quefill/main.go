package main

import (
	"os"

	"github.com/quefill/quefill/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
