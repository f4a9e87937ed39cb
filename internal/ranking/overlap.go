package ranking

import (
	"github.com/jonathan/epitope-ranker/internal/types"
)

// EpitopesOverlapping returns the epitopes whose closed span [start, start+length]
// contains position, in input order. Adjacent epitopes both match at their shared boundary.
func EpitopesOverlapping(position int, epitopes []types.Epitope) []types.Epitope {
	result := make([]types.Epitope, 0)
	for _, epitope := range epitopes {
		if epitope.Start <= position && position <= epitope.End() {
			result = append(result, epitope)
		}
	}
	return result
}

// OverlapsMutationRange reports whether [start, start+length) intersects [mutStart, mutEnd).
func OverlapsMutationRange(mutStart, mutEnd int, epitope types.Epitope) bool {
	return epitope.Start < mutEnd && epitope.End() > mutStart
}

// PeptideScore sums AllelesPassing over the epitopes that cover the peptide's mutation.
func PeptideScore(peptide types.Peptide, threshold types.Threshold) (int, error) {
	score, _, err := peptideScore(peptide, threshold)
	return score, err
}

// peptideScore also reports whether any epitope overlapped the mutation.
func peptideScore(peptide types.Peptide, threshold types.Threshold) (int, bool, error) {
	if err := threshold.Validate(); err != nil {
		return 0, false, err
	}

	total := 0
	overlapping := false
	for _, epitope := range peptide.Epitopes {
		if !OverlapsMutationRange(peptide.MutStart, peptide.MutEnd, epitope) {
			continue
		}
		overlapping = true
		n, err := AllelesPassing(epitope, threshold)
		if err != nil {
			return 0, false, err
		}
		total += n
	}
	return total, overlapping, nil
}
