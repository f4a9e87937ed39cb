package main

import (
	"github.com/jonathan/epitope-ranker/internal/ranking"
	"github.com/spf13/cobra"
)

func newOverlappingCmd() *cobra.Command {
	var (
		input    string
		index    int
		position int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "overlapping",
		Short: "List the epitopes covering one residue of a peptide",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			peptide, err := loadPeptide(input, index, cfg)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), output, ranking.EpitopesOverlapping(position, peptide.Epitopes))
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Path to peptide dataset JSON (required)")
	cmd.Flags().IntVarP(&index, "peptide", "p", 0, "Peptide index in the dataset (required)")
	cmd.Flags().IntVar(&position, "position", 0, "Residue position in the peptide sequence (required)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Path to output JSON file (default stdout)")
	markRequired(cmd, "input", "peptide", "position")
	return cmd
}
