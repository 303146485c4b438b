// Command polychain is the command-line interface: chain generation,
// monomer repetition, XYZ inspection, and the embedded API server.
package main

import (
	"os"

	"github.com/polyforge/polychain/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
