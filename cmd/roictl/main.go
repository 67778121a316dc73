// Package main implements the roictl CLI for querying college income explanations.
//
// By default roictl loads artifacts in-process using the collegeroi
// configuration. With --server it queries a running collegeroid instead.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// configPath overrides the default config file location
	configPath string
	// serverURL selects a running collegeroid; empty means in-process
	serverURL string
	// outputFormat is json, yaml or text
	outputFormat string
	// verbose keeps info-level logs on stderr
	verbose bool
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "roictl",
	Short: "Explore predicted college income and its feature attributions",
	Long: `roictl answers questions about the college income model: which schools
and features a horizon covers, why the model predicts a school's income,
how one feature drives predictions across schools, and which features
matter most overall.

Horizons are 6 or 10 years after entry.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default ~/.config/collegeroi/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "collegeroid server URL, e.g. http://localhost:9090 (default: load artifacts in-process)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log service activity to stderr")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(horizonsCmd)
	rootCmd.AddCommand(schoolsCmd)
	rootCmd.AddCommand(featuresCmd)
	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(scatterCmd)
	rootCmd.AddCommand(importanceCmd)
	rootCmd.AddCommand(predictionsCmd)
	rootCmd.AddCommand(browseCmd)
}
