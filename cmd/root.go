// Package cmd wires the vancouver command set.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const appVersion = "0.1.0"

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "vancouver",
	Short:         "A dependency-audit policy checker",
	Long: `Vancouver decides whether the dependencies in a lock file are trusted
to satisfy a required set of criteria, based on an audits ledger and
config-declared exemptions, and explains exactly what is missing when
they are not.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("vancouver %s\n", appVersion)
		},
	})
}

// Execute runs the root command. Errors it returns are input or
// construction problems; per-dependency check failures exit through
// their own codes instead.
func Execute() error {
	return rootCmd.Execute()
}
