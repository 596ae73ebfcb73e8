// Command enginectl is a thin driver over the engine package: it
// plans and executes a single workflow document from the command
// line, wiring the capabilities (cache, graph store, HTTP client,
// clock) the library leaves to its caller.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
