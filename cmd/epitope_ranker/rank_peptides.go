package main

import (
	"fmt"

	"github.com/jonathan/epitope-ranker/internal/dataset"
	"github.com/jonathan/epitope-ranker/internal/ranking"
	"github.com/spf13/cobra"
)

func newRankPeptidesCmd() *cobra.Command {
	var (
		inputs     []string
		tf         thresholdFlags
		minAlleles int
		output     string
	)

	cmd := &cobra.Command{
		Use:   "rank-peptides",
		Short: "Rank peptides by their mutation-overlapping binders",
		Long: "Loads one or more peptide datasets, scores every peptide by the allele passes of its " +
			"mutation-overlapping epitopes, and writes the collapsed overview: peptides in descending " +
			"score order, each with the epitopes passing at least --min-alleles alleles.",
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

			ds, err := dataset.LoadAll(cmd.Context(), inputs, dataset.Options{SchemaPath: cfg.SchemaPath})
			if err != nil {
				return fmt.Errorf("failed to load datasets: %w", err)
			}

			ranked, err := ranking.RankDataset(ds.Peptides, t, m)
			if err != nil {
				return fmt.Errorf("failed to rank peptides: %w", err)
			}
			if p := verbosePrinter(cmd); p != nil {
				p.PrintDatasetSummary(ds)
				p.PrintRankedDataset(ranked)
			}
			return writeJSON(cmd.OutOrStdout(), output, ranked)
		},
	}

	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "Path to peptide dataset JSON (repeatable, required)")
	tf.register(cmd)
	cmd.Flags().IntVarP(&minAlleles, "min-alleles", "m", 0, "Minimum passing alleles for a highlighted epitope (default from config)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Path to output JSON file (default stdout)")
	markRequired(cmd, "input")
	return cmd
}
