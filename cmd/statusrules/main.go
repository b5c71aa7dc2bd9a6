// Package main provides the statusrules CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/statusrules/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
