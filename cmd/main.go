package main

import (
	"os"

	"github.com/tcfw/minichain/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
