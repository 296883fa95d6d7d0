// doclens is the local command-line interface for DocLens-Intelligence.
package main

import (
	"os"

	"github.com/turtacn/DocLens-Intelligence/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
