package main

import (
	"os"

	"github.com/Coffee-Addict4/aseprite-mcp-docker/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
