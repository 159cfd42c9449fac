// Command twevals runs registered evaluations and manages stored results.
//
// Evaluation suites are Go packages that register cases with
// internal/registry from init functions; projects build their own binary by
// importing their suites alongside this package's wiring.
package main

import (
	"os"

	"github.com/camronh/Twevals/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
