package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/sprout/cmd/sprout"
	"github.com/arthur-debert/sprout/internal/version"
)

func main() {
	rootCmd := sprout.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "SPROUT",
		Section: "1",
		Source:  "sprout " + version.Version,
		Manual:  "sprout manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
