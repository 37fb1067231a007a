// Package main provides the entry point for the clinic-chat CLI.
package main

import (
	"fmt"
	"os"

	"github.com/gbyperovo-dot/dental-clinic-bot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
