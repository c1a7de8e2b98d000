package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"reef/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "reef",
	Short: "Compact cargo diagnostics",
	Long:  `Reef runs cargo check or clippy and condenses the compiler's multi-line diagnostics into one scannable line per problem`,
}

// exitStatus mirrors the underlying cargo invocation's exit code so CI and
// editors treat reef exactly like the compiler it wraps.
var exitStatus int

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(clippyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(lastCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("width", 0, "output width in columns (0=auto)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	if exitStatus != 0 {
		os.Exit(exitStatus)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
