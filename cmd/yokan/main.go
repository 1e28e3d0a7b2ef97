package main

import (
	"fmt"
	"os"

	"github.com/tebeka/atexit"
)

// main exits through atexit so the flush handlers the recorders and
// analyzers register actually run.
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
