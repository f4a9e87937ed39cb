package dataset

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonathan/epitope-ranker/internal/types"
)

// groupedPeptide is one transcript entry as written by the epitope grouping step
// of the prediction pipeline.
type groupedPeptide struct {
	Peptide             string           `json:"Peptide"`
	SourceSequence      string           `json:"SourceSequence"`
	TranscriptID        string           `json:"TranscriptId"`
	Gene                string           `json:"Gene"`
	GeneMutationInfo    string           `json:"GeneMutationInfo"`
	PeptideMutationInfo string           `json:"PeptideMutationInfo"`
	MutationStart       int              `json:"MutationStart"`
	MutationEnd         int              `json:"MutationEnd"`
	Epitopes            []groupedEpitope `json:"Epitopes"`
}

type groupedEpitope struct {
	Epitope      string         `json:"Epitope"`
	EpitopeStart int            `json:"EpitopeStart"`
	EpitopeEnd   int            `json:"EpitopeEnd"`
	AlleleScores []groupedScore `json:"MHC_Allele_Scores"`
}

type groupedScore struct {
	Allele         string   `json:"Allele"`
	PercentileRank *float64 `json:"MHC_PercentileRank"`
	// Older pipeline runs spell the column with an underscore.
	PercentileRankAlt *float64 `json:"MHC_Percentile_Rank"`
	IC50              *float64 `json:"MHC_IC50"`
}

// score requires both prediction columns.
func (s groupedScore) score() (types.Score, error) {
	var out types.Score
	switch {
	case s.PercentileRank != nil:
		out.Percentile = *s.PercentileRank
	case s.PercentileRankAlt != nil:
		out.Percentile = *s.PercentileRankAlt
	default:
		return out, errors.New("missing MHC_PercentileRank")
	}
	if s.IC50 == nil {
		return out, errors.New("missing MHC_IC50")
	}
	out.BindingScore = *s.IC50
	return out, nil
}

func (g groupedPeptide) toPeptide() (types.Peptide, error) {
	sequence := g.Peptide
	if sequence == "" {
		sequence = g.SourceSequence
	}

	peptide := types.Peptide{
		Sequence:     sequence,
		Gene:         g.Gene,
		TranscriptID: g.TranscriptID,
		Mutation:     g.PeptideMutationInfo,
		MutStart:     g.MutationStart,
		MutEnd:       g.MutationEnd,
		Epitopes:     make([]types.Epitope, 0, len(g.Epitopes)),
	}
	if peptide.Mutation == "" {
		peptide.Mutation = g.GeneMutationInfo
	}

	for _, ge := range g.Epitopes {
		length := len(ge.Epitope)
		if length == 0 {
			length = ge.EpitopeEnd - ge.EpitopeStart
		}

		scores := make(map[string]types.Score, len(ge.AlleleScores))
		for _, s := range ge.AlleleScores {
			if _, seen := scores[s.Allele]; seen {
				slog.Warn("repeated allele entry for epitope, keeping first",
					"transcript", g.TranscriptID,
					"epitope", ge.Epitope,
					"allele", s.Allele)
				continue
			}
			score, err := s.score()
			if err != nil {
				return types.Peptide{}, &LoadError{
					Message: fmt.Sprintf("transcript %s, epitope %s, allele %s", g.TranscriptID, ge.Epitope, s.Allele),
					Cause:   err,
				}
			}
			scores[s.Allele] = score
		}

		peptide.Epitopes = append(peptide.Epitopes, types.Epitope{
			Start:    ge.EpitopeStart,
			Length:   length,
			Sequence: ge.Epitope,
			Scores:   scores,
		})
	}

	return peptide, nil
}
