package main

import (
	"fmt"

	"github.com/jonathan/epitope-ranker/internal/ranking"
	"github.com/spf13/cobra"
)

func newHighlightCmd() *cobra.Command {
	var (
		input      string
		index      int
		tf         thresholdFlags
		minAlleles int
		output     string
	)

	cmd := &cobra.Command{
		Use:   "highlight",
		Short: "List the epitopes highlighted on one peptide",
		Long:  "Writes the epitopes of one peptide that pass the threshold for at least --min-alleles alleles, in input order.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			t, err := tf.resolve(cmd, cfg)
			if err != nil {
				return err
			}
			m, err := minAllelesFlag(cmd, minAlleles, cfg)
			if err != nil {
				return err
			}
			peptide, err := loadPeptide(input, index, cfg)
			if err != nil {
				return err
			}

			highlights, err := ranking.FilterEpitopesByMinAlleles(peptide.Epitopes, t, m)
			if err != nil {
				return fmt.Errorf("failed to filter epitopes: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), output, highlights)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to peptide dataset JSON (required)")
	cmd.Flags().IntVarP(&index, "peptide", "p", 0, "Peptide index in the dataset (required)")
	tf.register(cmd)
	cmd.Flags().IntVarP(&minAlleles, "min-alleles", "m", 0, "Minimum passing alleles (default from config)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Path to output JSON file (default stdout)")
	markRequired(cmd, "input", "peptide")
	return cmd
}
