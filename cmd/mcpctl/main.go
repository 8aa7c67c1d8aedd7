// Package main is the entry point for the mcpctl CLI.
//
// mcpctl talks to a model control plane server over its HTTP API.
//
// Usage:
//
//	mcpctl model register churn-predictor
//	mcpctl model version promote churn-predictor 3 --stage production
//	mcpctl deployment create churn-predictor --version production
//	mcpctl version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "mcpctl",
	Short: "Manage models, versions and deployments on a model control plane",
	Long: `mcpctl manages registered models, their versions, artifacts and
serving deployments on a model control plane server.

Connection defaults come from ~/.mcpctl.yaml, overridden by
MCPCTL_SERVER, MCPCTL_WORKSPACE and MCPCTL_OUTPUT environment
variables, overridden in turn by flags.

Quick start:
  1. Point the CLI at a server: export MCPCTL_SERVER=http://localhost:8080
  2. Pick a workspace:          export MCPCTL_WORKSPACE=<uuid>
  3. Register a model:          mcpctl model register churn-predictor

Model versions are addressed by ID, number, name, stage or "latest":
  mcpctl model version get churn-predictor production
  mcpctl model version log-metadata churn-predictor latest accuracy=0.93`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mcpctl %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().String("server", "", "server base URL (default http://localhost:8080)")
	rootCmd.PersistentFlags().String("workspace", "", "workspace ID requests are scoped to")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: table, json or yaml (default table)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "request timeout (default 30s)")
	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.mcpctl.yaml)")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
