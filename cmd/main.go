package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	rootCmd = &cobra.Command{
		Use:   "invz",
		Short: "Invertible pipeline demos",
		Long: `invz is a CLI tool for exploring invertible data transformation
pipelines through interactive demonstrations.

Walk through example preprocessing chains, watch values thread forward
through the steps, and see the same pipeline run in reverse.`,
		Version: version,
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available demos",
	Long:  "Display a list of all available pipeline demos with descriptions.",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println("Available demos:")
		fmt.Println()
		for _, d := range demos {
			fmt.Printf("  %-12s %s\n", d.name, d.description)
		}
		fmt.Println()
		fmt.Println("Run a demo with: invz demo <name>")
	},
}
