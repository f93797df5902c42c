// Command wedged compares diffraction datasets and aggregates CC½ across
// pedestal sweeps.
package main

import (
	"os"

	"github.com/dagewa/wedged-lamellae/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewRootCommand()))
}
