// Package cli implements the hotpath command line interface.
package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "hotpath",
	Short:   "In-process performance telemetry for Go programs",
	Version: version,
	Long: `Hotpath measures where a program spends its time or memory. Instrumented
call sites submit timing or allocation measurements that are aggregated
off the critical path and summarized into a report when the session ends.

The CLI runs synthetic workloads from a config file and inspects
previously emitted JSON reports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. It is called once from main.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(inspectCmd)
}
