package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	noIncludes bool
	withEnv    bool
)

var rootCmd = &cobra.Command{
	Use:     "rsdtool",
	Short:   "Inspect and render RSD scene-description documents",
	Long:    `rsdtool parses, resolves and reformats RSD documents from the command line.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().
		BoolVar(&noIncludes, "no-includes", false, "Do not follow include directives")
	rootCmd.PersistentFlags().
		BoolVar(&withEnv, "with-env", false, "Attach the process environment as a fallback block")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	execute()
}
