// Package main provides the entry point for the odds estimator CLI.
package main

import (
	"log"
	"os"
)

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
