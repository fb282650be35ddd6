// Package main is the entry point for the songlake binary.
package main

import (
	"os"

	cli "songlake/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
