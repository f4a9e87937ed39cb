package main

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/epitope-ranker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlapping(t *testing.T) {
	clearEnv(t)
	input := writeDataset(t, "demo", testPeptides())

	stdout, _, err := execute(t, "overlapping", "-i", input, "-p", "1", "--position", "9")
	require.NoError(t, err)

	var epitopes []types.Epitope
	require.NoError(t, json.Unmarshal([]byte(stdout), &epitopes))
	assert.Equal(t, []int{0, 2, 8}, starts(epitopes))

	_, _, err = execute(t, "overlapping", "-i", input, "-p", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position")
}
