package main

import (
	"os"

	"github.com/stonehive/hivehook/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
