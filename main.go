package main

import (
	"os"

	"conference-app/internal/app/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
