package main

import (
	"os"

	"github.com/Simplici0/fabricalc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
