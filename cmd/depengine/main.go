// Command depengine runs a registry with demo services and serves its
// inspection endpoints.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
