// Package main provides the kunitz CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath overrides the configuration search order
var configPath string

// verbose enables debug logging
var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kunitz",
	Short: "Profile-HMM evaluation pipeline for the Kunitz domain family",
	Long: `kunitz builds a profile HMM from a seed alignment, searches candidate
sequence databases with it, scores the hits against ground-truth labels,
and reconciles unlabeled hits against UniProtKB annotation.

Every run writes its artifacts into a fresh timestamped directory under
output_dir; the run index kept beside them is a convenience view that
can always be rebuilt from the directories. All commands output JSON by
default; use --human for readable text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for KUNITZ_CONFIG / KUNITZ_UNIPROT_URL)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: config/config.yaml, then config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}
