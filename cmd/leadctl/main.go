package main

import (
	"os"

	"github.com/leadgen/lead-extractor-service/cmd/leadctl/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
