package ranking

import (
	"sort"

	"github.com/jonathan/epitope-ranker/internal/types"
)

type scoredEpitope struct {
	epitope types.Epitope
	passing int
	index   int
}

type scoredPeptide struct {
	peptide     types.Peptide
	score       int
	overlapping bool
	index       int
}

func scoreEpitopes(epitopes []types.Epitope, threshold types.Threshold) ([]scoredEpitope, error) {
	if err := threshold.Validate(); err != nil {
		return nil, err
	}

	scored := make([]scoredEpitope, len(epitopes))
	for i, epitope := range epitopes {
		n, err := AllelesPassing(epitope, threshold)
		if err != nil {
			return nil, err
		}
		scored[i] = scoredEpitope{epitope: epitope, passing: n, index: i}
	}
	return scored, nil
}

// sortScoredEpitopes orders by pass count (descending), then start, then length, then input index.
func sortScoredEpitopes(scored []scoredEpitope) {
	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.passing != b.passing {
			return a.passing > b.passing
		}
		if a.epitope.Start != b.epitope.Start {
			return a.epitope.Start < b.epitope.Start
		}
		if a.epitope.Length != b.epitope.Length {
			return a.epitope.Length < b.epitope.Length
		}
		return a.index < b.index
	})
}

// SortEpitopes returns the epitopes ordered by descending AllelesPassing.
// Equal counts are ordered left to right by start; the order is total.
func SortEpitopes(epitopes []types.Epitope, threshold types.Threshold) ([]types.Epitope, error) {
	scored, err := scoreEpitopes(epitopes, threshold)
	if err != nil {
		return nil, err
	}
	sortScoredEpitopes(scored)

	result := make([]types.Epitope, len(scored))
	for i, s := range scored {
		result[i] = s.epitope
	}
	return result, nil
}

func scorePeptides(peptides []types.Peptide, threshold types.Threshold) ([]scoredPeptide, error) {
	if err := threshold.Validate(); err != nil {
		return nil, err
	}

	scored := make([]scoredPeptide, len(peptides))
	for i, peptide := range peptides {
		score, overlapping, err := peptideScore(peptide, threshold)
		if err != nil {
			return nil, err
		}
		scored[i] = scoredPeptide{peptide: peptide, score: score, overlapping: overlapping, index: i}
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.score != b.score {
			return a.score > b.score
		}
		// Peptides without any epitope over the mutation go last.
		if a.overlapping != b.overlapping {
			return a.overlapping
		}
		return a.index < b.index
	})
	return scored, nil
}

// SortPeptides returns the peptides ordered by descending PeptideScore.
// Ties keep their input order.
func SortPeptides(peptides []types.Peptide, threshold types.Threshold) ([]types.Peptide, error) {
	scored, err := scorePeptides(peptides, threshold)
	if err != nil {
		return nil, err
	}

	result := make([]types.Peptide, len(scored))
	for i, s := range scored {
		result[i] = s.peptide
	}
	return result, nil
}

// FilterEpitopesByMinAlleles keeps the epitopes with at least minAlleles passing
// alleles, in input order. No match yields an empty, non-nil slice.
func FilterEpitopesByMinAlleles(epitopes []types.Epitope, threshold types.Threshold, minAlleles int) ([]types.Epitope, error) {
	if err := threshold.Validate(); err != nil {
		return nil, err
	}

	result := make([]types.Epitope, 0)
	for _, epitope := range epitopes {
		n, err := AllelesPassing(epitope, threshold)
		if err != nil {
			return nil, err
		}
		if n >= minAlleles {
			result = append(result, epitope)
		}
	}
	return result, nil
}
