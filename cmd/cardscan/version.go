package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "cardscan %s\n", Version)
		fmt.Fprintf(w, "  Go:         %s\n", runtime.Version())
		fmt.Fprintf(w, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	},
}
