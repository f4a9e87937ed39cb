package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/epitope-ranker/internal/types"
	"github.com/stretchr/testify/require"
)

var testAlleles = []string{"HLA-A*01:01", "HLA-A*02:01", "HLA-B*07:02", "HLA-B*08:01", "HLA-C*07:01", "HLA-C*07:02"}

// scoresPassing returns six allele scores; the first n pass at percentile 2 and at 500 nM.
func scoresPassing(n int) map[string]types.Score {
	scores := make(map[string]types.Score, len(testAlleles))
	for i, allele := range testAlleles {
		s := types.Score{Percentile: 50, BindingScore: 5000}
		if i < n {
			s = types.Score{Percentile: 1, BindingScore: 50}
		}
		scores[allele] = s
	}
	return scores
}

func testPeptides() []types.Peptide {
	return []types.Peptide{
		{
			Gene:     "TP53",
			Sequence: "ASILLLVFYWKKKKKKKK",
			MutStart: 5,
			MutEnd:   6,
			Epitopes: []types.Epitope{
				{Start: 0, Length: 9, Scores: scoresPassing(1)},
				{Start: 9, Length: 9, Scores: scoresPassing(5)},
			},
		},
		{
			Gene:     "SMAD4",
			Sequence: "ASIINFKELAGGGGGGGG",
			MutStart: 3,
			MutEnd:   4,
			Epitopes: []types.Epitope{
				{Start: 0, Length: 9, Scores: scoresPassing(4)},
				{Start: 2, Length: 9, Scores: scoresPassing(3)},
				{Start: 8, Length: 9, Scores: scoresPassing(6)},
			},
		},
	}
}

// clearEnv isolates a test from configuration in the environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"EPITOPE_PORT", "PORT", "DATABASE_URL", "EPITOPE_SCHEMA_PATH",
		"EPITOPE_DEFAULT_ATTRIBUTE", "EPITOPE_DEFAULT_PERCENTILE", "EPITOPE_DEFAULT_BINDING_SCORE",
		"EPITOPE_PERCENTILE_VARIANT", "EPITOPE_MIN_ALLELES",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_DEFAULT_LIMIT", "RATE_LIMIT_DEFAULT_WINDOW", "RATE_LIMIT_ALLOWLIST", "RATE_LIMIT_BLOCKLIST",
	} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func writeDataset(t *testing.T, name string, peptides []types.Peptide) string {
	t.Helper()
	data, err := json.Marshal(map[string]any{"name": name, "peptides": peptides})
	require.NoError(t, err)
	return writeFile(t, name+".json", data)
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func starts(epitopes []types.Epitope) []int {
	out := make([]int, 0, len(epitopes))
	for _, e := range epitopes {
		out = append(out, e.Start)
	}
	return out
}
