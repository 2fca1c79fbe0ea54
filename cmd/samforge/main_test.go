package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samforge/internal/config"
)

func TestParseScenarios(t *testing.T) {
	t.Run("all expands to every scenario", func(t *testing.T) {
		scenarios, err := parseScenarios("all")
		require.NoError(t, err)
		assert.Equal(t, config.AvailableScenarios, scenarios)
	})

	t.Run("csv with whitespace", func(t *testing.T) {
		scenarios, err := parseScenarios(" esg_guardian, executive_copilot ")
		require.NoError(t, err)
		assert.Equal(t, []string{"esg_guardian", "executive_copilot"}, scenarios)
	})

	t.Run("unknown scenario rejected", func(t *testing.T) {
		_, err := parseScenarios("quant_wizard")
		assert.ErrorContains(t, err, "invalid scenario")
	})
}

func TestBuildScopes(t *testing.T) {
	for _, scope := range []string{"all", "data", "structured", "unstructured", "ai", "semantic", "search", "agents"} {
		assert.True(t, buildScopes[scope], scope)
	}
	assert.False(t, buildScopes["everything"])
}
