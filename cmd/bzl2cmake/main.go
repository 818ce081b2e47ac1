// Package main is the bzl2cmake command.
package main

import (
	"os"

	"github.com/leapstack-labs/bzl2cmake/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
