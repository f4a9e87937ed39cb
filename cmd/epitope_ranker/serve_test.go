package main

import (
	"testing"

	"github.com/jonathan/epitope-ranker/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestServe_RequiresDatabaseURL(t *testing.T) {
	clearEnv(t)

	_, _, err := execute(t, "serve")
	assert.ErrorIs(t, err, config.ErrMissingDatabaseURL)
}
