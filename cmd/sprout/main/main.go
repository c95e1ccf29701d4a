package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/arthur-debert/sprout/cmd/sprout"
	"github.com/arthur-debert/sprout/pkg/style"
)

func main() {
	rootCmd := sprout.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Commands that already rendered their outcome return a bare
		// exit status; everything else is a usage-level error.
		var exitErr *sprout.ExitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}

		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		fmt.Fprintln(os.Stderr)
		_ = rootCmd.Help()

		os.Exit(1)
	}
}
