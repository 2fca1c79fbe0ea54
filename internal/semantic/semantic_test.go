package semantic

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samforge/internal/config"
	"samforge/internal/structured"
	"samforge/internal/warehouse"
)

func newTestBuilder(t *testing.T) (*Builder, *warehouse.Store) {
	t.Helper()
	cfg := config.Default()
	store, err := warehouse.Open(t.TempDir(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	_, err = store.Provision(ctx)
	require.NoError(t, err)
	require.NoError(t, structured.NewGenerator(store, cfg, true).Run(ctx))

	return NewBuilder(store), store
}

func TestCompileDDL(t *testing.T) {
	b, _ := newTestBuilder(t)

	ddl := b.CompileDDL(viewCatalog["ESG_ANALYST"])
	assert.Contains(t, ddl, "CREATE VIEW IF NOT EXISTS AI_ESG_ANALYST")
	assert.Contains(t, ddl, "e.environmental_score AS environmental_score")
	assert.Contains(t, ddl, "CURATED_FACT_ESG_SCORES e")
	assert.Contains(t, ddl, "CURATED_DIM_ISSUER i")
	assert.NotContains(t, ddl, "{curated.", "table refs must be resolved")
}

func TestBuildAll(t *testing.T) {
	b, store := newTestBuilder(t)
	ctx := context.Background()

	created, err := b.BuildAll(ctx, []string{"esg_guardian", "compliance_advisor"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ESG_ANALYST", "PORTFOLIO_ANALYST", "COMPLIANCE_ANALYST"}, created)

	t.Run("views are queryable", func(t *testing.T) {
		var n int
		err := store.QueryRow("SELECT COUNT(*) FROM AI_ESG_ANALYST").Scan(&n)
		require.NoError(t, err)
		assert.Positive(t, n)
	})

	t.Run("views land in the registry", func(t *testing.T) {
		rows, err := store.Query(fmt.Sprintf(
			"SELECT view_name FROM %s ORDER BY view_name", store.Table("ai", "SEMANTIC_VIEWS")))
		require.NoError(t, err)
		defer rows.Close()

		var names []string
		for rows.Next() {
			var name string
			require.NoError(t, rows.Scan(&name))
			names = append(names, name)
		}
		assert.Equal(t, []string{"AI_COMPLIANCE_ANALYST", "AI_ESG_ANALYST", "AI_PORTFOLIO_ANALYST"}, names)
	})

	t.Run("rebuild is idempotent", func(t *testing.T) {
		_, err := b.BuildAll(ctx, []string{"esg_guardian"})
		require.NoError(t, err)
		n, err := store.CountRows(store.Table("ai", "SEMANTIC_VIEWS"))
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})
}

func TestBuild_ValidationCatchesMissingTables(t *testing.T) {
	cfg := config.Default()
	store, err := warehouse.Open(t.TempDir(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	// Provision only; no structured data, so base tables are absent.
	_, err = store.Provision(context.Background())
	require.NoError(t, err)

	b := NewBuilder(store)
	err = b.Build(viewCatalog["ESG_ANALYST"])
	assert.Error(t, err)
}

func TestViewsForScenarios_Dedupes(t *testing.T) {
	views := ViewsForScenarios([]string{"portfolio_copilot", "esg_guardian"})

	var names []string
	for _, v := range views {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"PORTFOLIO_ANALYST", "MARKET_ANALYST", "ESG_ANALYST"}, names)
}
