package ranking

import (
	"fmt"

	"github.com/jonathan/epitope-ranker/internal/types"
)

// RankDataset builds the collapsed overview: peptides in SortPeptides order, each
// carrying its score, its input index, and the epitopes passing at least minAlleles alleles.
func RankDataset(peptides []types.Peptide, threshold types.Threshold, minAlleles int) (*types.RankedDataset, error) {
	scored, err := scorePeptides(peptides, threshold)
	if err != nil {
		return nil, err
	}

	ranked := make([]types.RankedPeptide, 0, len(scored))
	for _, s := range scored {
		highlights, err := FilterEpitopesByMinAlleles(s.peptide.Epitopes, threshold, minAlleles)
		if err != nil {
			return nil, fmt.Errorf("failed to filter epitopes for peptide %d: %w", s.index, err)
		}
		ranked = append(ranked, types.RankedPeptide{
			Index:      s.index,
			Score:      s.score,
			Peptide:    s.peptide,
			Highlights: highlights,
		})
	}

	return &types.RankedDataset{
		Threshold:  threshold,
		MinAlleles: minAlleles,
		Peptides:   ranked,
	}, nil
}

// DescribeEpitopes builds the expanded view of one peptide: every epitope in
// SortEpitopes order, annotated with its passing alleles and mutation overlap.
func DescribeEpitopes(peptide types.Peptide, threshold types.Threshold) ([]types.EpitopeView, error) {
	scored, err := scoreEpitopes(peptide.Epitopes, threshold)
	if err != nil {
		return nil, err
	}
	sortScoredEpitopes(scored)

	views := make([]types.EpitopeView, 0, len(scored))
	for _, s := range scored {
		alleles, err := PassingAlleles(s.epitope, threshold)
		if err != nil {
			return nil, err
		}
		views = append(views, types.EpitopeView{
			Epitope:          s.epitope,
			AllelesPassing:   s.passing,
			PassingAlleles:   alleles,
			OverlapsMutation: OverlapsMutationRange(peptide.MutStart, peptide.MutEnd, s.epitope),
		})
	}
	return views, nil
}
