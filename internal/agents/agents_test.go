package agents

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samforge/internal/config"
	"samforge/internal/warehouse"
)

func toolNames(spec *Spec) []string {
	var names []string
	for _, t := range spec.Tools {
		names = append(names, t.ToolSpec.Name)
	}
	return names
}

func TestBuildSpec_PortfolioCopilot(t *testing.T) {
	cfg := config.Default()

	spec, err := BuildSpec(cfg, "portfolio_copilot")
	require.NoError(t, err)

	assert.Equal(t, "AM_portfolio_copilot", spec.Name)
	assert.Equal(t, "Portfolio Co-Pilot", spec.DisplayName)
	assert.Equal(t, "claude-sonnet-4-5", spec.Models.Orchestration)

	names := toolNames(spec)
	assert.Contains(t, names, "portfolio_analyzer")
	assert.Contains(t, names, "market_analyzer")
	assert.Contains(t, names, "search_broker_research")
	assert.Contains(t, names, "search_portfolio_docs")
	assert.Contains(t, names, "pdf_generator")
	assert.NotContains(t, names, "ma_simulator", "only the executive agent simulates acquisitions")

	t.Run("every tool has a resource binding", func(t *testing.T) {
		for _, name := range names {
			assert.Contains(t, spec.ToolResources, name)
		}
	})

	t.Run("analyst tools bind to semantic views", func(t *testing.T) {
		res, ok := spec.ToolResources["portfolio_analyzer"].(AnalystResource)
		require.True(t, ok)
		assert.Equal(t, "AI_PORTFOLIO_ANALYST", res.SemanticView)
		assert.Equal(t, "SAM_DEMO_WH", res.Warehouse)
	})

	t.Run("search tools bind to services", func(t *testing.T) {
		res, ok := spec.ToolResources["search_broker_research"].(SearchResource)
		require.True(t, ok)
		assert.Equal(t, "SAM_BROKER_RESEARCH", res.Service)
		assert.Equal(t, 4, res.MaxResults)
	})
}

func TestBuildSpec_ExecutiveGetsSimulator(t *testing.T) {
	spec, err := BuildSpec(config.Default(), "executive_copilot")
	require.NoError(t, err)

	assert.Contains(t, toolNames(spec), "ma_simulator")
	res, ok := spec.ToolResources["ma_simulator"].(GenericResource)
	require.True(t, ok)
	assert.Equal(t, "SIMULATE_MA_IMPACT", res.Identifier)
}

func TestBuildSpec_UnknownScenario(t *testing.T) {
	_, err := BuildSpec(config.Default(), "quant_wizard")
	assert.ErrorContains(t, err, "no agent defined")
}

func TestRegistry(t *testing.T) {
	cfg := config.Default()
	store, err := warehouse.Open(t.TempDir(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	_, err = store.Provision(ctx)
	require.NoError(t, err)

	r := NewRegistry(store, cfg)
	created, err := r.RegisterAll(ctx, []string{"esg_guardian", "executive_copilot"})
	require.NoError(t, err)
	assert.Equal(t, []string{"AM_esg_guardian", "AM_executive_copilot"}, created)

	t.Run("list returns registered agents", func(t *testing.T) {
		agents, err := r.List()
		require.NoError(t, err)
		require.Len(t, agents, 2)
		assert.Equal(t, "AM_esg_guardian", agents[0].AgentName)
		assert.Equal(t, "ESG Guardian", agents[0].DisplayName)
	})

	t.Run("spec round trips through the registry", func(t *testing.T) {
		want, err := BuildSpec(cfg, "esg_guardian")
		require.NoError(t, err)
		got, err := r.Spec("AM_esg_guardian")
		require.NoError(t, err)

		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Instructions, got.Instructions)
		if diff := cmp.Diff(toolNames(want), toolNames(got)); diff != "" {
			t.Errorf("tool mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("re-registration upserts", func(t *testing.T) {
		_, err := r.RegisterAll(ctx, []string{"esg_guardian"})
		require.NoError(t, err)
		agents, err := r.List()
		require.NoError(t, err)
		assert.Len(t, agents, 2)
	})

	t.Run("unknown agent spec", func(t *testing.T) {
		_, err := r.Spec("AM_nobody")
		assert.ErrorContains(t, err, "not registered")
	})
}
