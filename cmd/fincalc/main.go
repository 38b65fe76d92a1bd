// Command fincalc projects investment growth and monthly budgets from the
// command line, and serves the same calculators over HTTP.
package main

import (
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
