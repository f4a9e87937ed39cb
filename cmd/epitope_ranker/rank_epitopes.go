package main

import (
	"fmt"

	"github.com/jonathan/epitope-ranker/internal/ranking"
	"github.com/spf13/cobra"
)

func newRankEpitopesCmd() *cobra.Command {
	var (
		input  string
		index  int
		tf     thresholdFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "rank-epitopes",
		Short: "List one peptide's epitopes by passing-allele count",
		Long: "Writes the expanded view of one peptide: every epitope in descending passing-allele order " +
			"with the alleles that pass and whether it overlaps the mutation.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			t, err := tf.resolve(cmd, cfg)
			if err != nil {
				return err
			}
			peptide, err := loadPeptide(input, index, cfg)
			if err != nil {
				return err
			}

			views, err := ranking.DescribeEpitopes(peptide, t)
			if err != nil {
				return fmt.Errorf("failed to rank epitopes: %w", err)
			}
			if p := verbosePrinter(cmd); p != nil {
				p.PrintEpitopeViews(peptide, views)
			}
			return writeJSON(cmd.OutOrStdout(), output, views)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to peptide dataset JSON (required)")
	cmd.Flags().IntVarP(&index, "peptide", "p", 0, "Peptide index in the dataset (required)")
	tf.register(cmd)
	cmd.Flags().StringVarP(&output, "out", "o", "", "Path to output JSON file (default stdout)")
	markRequired(cmd, "input", "peptide")
	return cmd
}
