package main

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/epitope-ranker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlight(t *testing.T) {
	clearEnv(t)
	input := writeDataset(t, "demo", testPeptides())

	stdout, _, err := execute(t, "highlight", "-i", input, "-p", "1", "-m", "4")
	require.NoError(t, err)

	var highlights []types.Epitope
	require.NoError(t, json.Unmarshal([]byte(stdout), &highlights))
	assert.Equal(t, []int{0, 8}, starts(highlights))
}
