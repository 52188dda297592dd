package main

import (
	"os"

	"github.com/vidgrab/vidgrab/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
