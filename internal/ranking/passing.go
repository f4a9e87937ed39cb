// Package ranking decides which epitopes pass a binding threshold and orders
// epitopes and peptides for display. Every function is pure: inputs are never
// mutated and sorted or filtered results are freshly allocated.
package ranking

import (
	"sort"

	"github.com/jonathan/epitope-ranker/internal/types"
)

// passes is the single pass predicate for both attributes: lower is a stronger
// binder, and a score equal to the threshold passes.
func passes(score types.Score, threshold types.Threshold) (bool, error) {
	v, err := score.Value(threshold.Attribute)
	if err != nil {
		return false, err
	}
	return v <= threshold.Value, nil
}

// AllelesPassing counts the alleles whose score for threshold.Attribute is <= threshold.Value.
func AllelesPassing(epitope types.Epitope, threshold types.Threshold) (int, error) {
	if err := threshold.Validate(); err != nil {
		return 0, err
	}

	count := 0
	for _, score := range epitope.Scores {
		ok, err := passes(score, threshold)
		if err != nil {
			return 0, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}

// PassesThreshold reports whether at least one allele passes.
func PassesThreshold(epitope types.Epitope, threshold types.Threshold) (bool, error) {
	n, err := AllelesPassing(epitope, threshold)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// PassingAlleles returns the names of the passing alleles in lexical order.
func PassingAlleles(epitope types.Epitope, threshold types.Threshold) ([]string, error) {
	if err := threshold.Validate(); err != nil {
		return nil, err
	}

	alleles := make([]string, 0, len(epitope.Scores))
	for allele, score := range epitope.Scores {
		ok, err := passes(score, threshold)
		if err != nil {
			return nil, err
		}
		if ok {
			alleles = append(alleles, allele)
		}
	}
	sort.Strings(alleles)
	return alleles, nil
}
