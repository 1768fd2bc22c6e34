// Copyright (c) 2025 Bizpaysol Team
// Bizpaysol - ACH payment processing and settlement system
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Bizpaysol.
//
// Usage:
//
//	go run . [flags]
//	./bizpaysol [flags]
//
// This launches the Bizpaysol CLI. See --help for options.
package main

import (
	"log"
	"os"

	"github.com/joelmooyoung/Bizpaysol/internal/cli"
)

// main is the entrypoint for the Bizpaysol CLI.
func main() {
	if err := cli.Execute(); err != nil {
		log.Printf("Bizpaysol CLI error: %v", err)
		os.Exit(1)
	}
}
