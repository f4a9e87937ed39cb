// Package main provides the epitope_ranker CLI: ranking peptide datasets from
// the command line, importing them into PostgreSQL, and serving the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "epitope_ranker",
		Short: "Rank neoantigen peptides and epitopes by predicted HLA binding",
		Long: "epitope_ranker scores candidate epitopes against a user threshold on percentile rank or " +
			"IC50 binding score, ranks peptides by their mutation-overlapping binders, and serves the " +
			"ranked views to the visualization front end.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Path to YAML config file (optional)")
	root.PersistentFlags().BoolP("verbose", "v", false, "Print human-readable summaries to stderr")

	root.AddCommand(
		newRankPeptidesCmd(),
		newRankEpitopesCmd(),
		newHighlightCmd(),
		newOverlappingCmd(),
		newValidateCmd(),
		newImportCmd(),
		newServeCmd(),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
