package warehouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samforge/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := config.Default()
	s, err := Open(t.TempDir(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestProvision_AllPhasesSucceed(t *testing.T) {
	s := newTestStore(t)

	results, err := s.Provision(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 6)

	wantOrder := []string{
		"create_database", "create_schemas", "create_role",
		"create_warehouses", "create_integration", "create_registries",
	}
	for i, r := range results {
		assert.Equal(t, wantOrder[i], r.Name)
		assert.True(t, r.OK, "phase %s: %v", r.Name, r.Err)
	}

	assert.True(t, s.tableExists("OPS_WAREHOUSES"))
	assert.True(t, s.tableExists("AI_SEARCH_SERVICES"))
	assert.True(t, s.tableExists("AI_AGENTS"))
}

func TestProvision_Idempotent(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Provision(context.Background())
	require.NoError(t, err)
	_, err = s.Provision(context.Background())
	require.NoError(t, err)

	n, err := s.CountRows("OPS_WAREHOUSES")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestTable_SchemaPrefixing(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, "RAW_BROKER_RESEARCH_RAW", s.Table("raw", "BROKER_RESEARCH_RAW"))
	assert.Equal(t, "MARKET_DATA_FACT_STOCK_PRICES", s.Table("market_data", "FACT_STOCK_PRICES"))
	assert.Equal(t, "AI_AGENTS", s.Table("ai", "AGENTS"))
}

func TestTeardown_OrderAndCascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Provision(ctx)
	require.NoError(t, err)

	// Seed environment state: a curated table, a registered search service
	// with its index table, a semantic view, and an agent.
	_, err = s.Exec("CREATE TABLE CURATED_BROKER_RESEARCH_CORPUS (id INTEGER PRIMARY KEY, document_text TEXT)")
	require.NoError(t, err)
	_, err = s.Exec("CREATE TABLE AI_SEARCH_SAM_BROKER_RESEARCH (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = s.Exec(
		"INSERT INTO AI_SEARCH_SERVICES (service_name, table_name, warehouse) VALUES (?, ?, ?)",
		"SAM_BROKER_RESEARCH", "AI_SEARCH_SAM_BROKER_RESEARCH", "SAM_CORTEX_WH")
	require.NoError(t, err)
	_, err = s.Exec("CREATE VIEW AI_SAM_PORTFOLIO_ANALYST AS SELECT 1 AS one")
	require.NoError(t, err)
	_, err = s.Exec("INSERT INTO AI_SEMANTIC_VIEWS (view_name) VALUES (?)", "AI_SAM_PORTFOLIO_ANALYST")
	require.NoError(t, err)
	_, err = s.Exec(
		"INSERT INTO AI_AGENTS (agent_name, display_name, spec_yaml) VALUES (?, ?, ?)",
		"AM_portfolio_copilot", "Portfolio Co-Pilot", "name: AM_portfolio_copilot")
	require.NoError(t, err)

	results, err := s.Teardown(ctx)
	require.NoError(t, err)

	wantOrder := []string{
		"drop_agents", "drop_search_services", "drop_semantic_views",
		"drop_integration", "drop_database", "drop_warehouses", "drop_role",
	}
	require.Len(t, results, len(wantOrder))
	for i, r := range results {
		assert.Equal(t, wantOrder[i], r.Name)
		assert.True(t, r.OK, "phase %s: %v", r.Name, r.Err)
	}

	assert.False(t, s.tableExists("CURATED_BROKER_RESEARCH_CORPUS"))
	assert.False(t, s.tableExists("AI_SEARCH_SAM_BROKER_RESEARCH"))
	assert.False(t, s.tableExists("AI_SAM_PORTFOLIO_ANALYST"))

	n, err := s.CountRows("OPS_WAREHOUSES")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Provision(ctx)
	require.NoError(t, err)
	_, err = s.Exec("CREATE TABLE RAW_PRESS_RELEASES_RAW (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = s.Exec("INSERT INTO RAW_PRESS_RELEASES_RAW DEFAULT VALUES")
	require.NoError(t, err)

	st, err := s.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, "SAM_DEMO", st.Database)
	assert.Equal(t, []string{"SAM_CORTEX_WH", "SAM_DEMO_WH"}, st.Warehouses)

	var raw *SchemaStatus
	for i := range st.Schemas {
		if st.Schemas[i].Name == "RAW" {
			raw = &st.Schemas[i]
		}
	}
	require.NotNil(t, raw)
	assert.Equal(t, 1, raw.Tables["RAW_PRESS_RELEASES_RAW"])
}
