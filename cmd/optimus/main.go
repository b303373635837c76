// Command optimus generates optimus parameters, encodes and decodes IDs,
// and installs the parameters into PostgreSQL.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
