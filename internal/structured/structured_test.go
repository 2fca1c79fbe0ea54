package structured

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samforge/internal/config"
	"samforge/internal/warehouse"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	cfg := config.Default()
	store, err := warehouse.Open(t.TempDir(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewGenerator(store, cfg, true) // test mode keeps volumes small
}

func TestVolume_TestModeFloor(t *testing.T) {
	g := newTestGenerator(t)

	assert.Equal(t, 25, g.volume(252))
	assert.Equal(t, 4, g.volume(40))
	// Small counts floor at one instead of vanishing.
	assert.Equal(t, 1, g.volume(5))
	assert.Equal(t, 1, g.volume(1))
}

func TestIssuerIDFor(t *testing.T) {
	tickers := config.CompanyTickers("")
	assert.Equal(t, 1, IssuerIDFor(tickers[0]))
	assert.Equal(t, len(tickers), IssuerIDFor(tickers[len(tickers)-1]))
	assert.Zero(t, IssuerIDFor("ZZZZ"))
}

func TestRun_FullPipeline(t *testing.T) {
	g := newTestGenerator(t)
	ctx := context.Background()

	require.NoError(t, g.Run(ctx))
	require.False(t, g.PriceAnchor().IsZero())

	t.Run("dimensions populated from roster", func(t *testing.T) {
		n, err := g.store.CountRows("CURATED_DIM_ISSUER")
		require.NoError(t, err)
		assert.Equal(t, len(config.DemoCompanies()), n)

		n, err = g.store.CountRows("CURATED_DIM_CLIENT")
		require.NoError(t, err)
		assert.Equal(t, len(config.DemoClients()), n)

		n, err = g.store.CountRows("CURATED_DIM_PORTFOLIO")
		require.NoError(t, err)
		assert.Equal(t, len(config.DemoPortfolios()), n)
	})

	t.Run("price anchor matches warehouse max date", func(t *testing.T) {
		loaded, err := g.LoadPriceAnchor()
		require.NoError(t, err)
		assert.Equal(t, g.PriceAnchor(), loaded)
	})

	t.Run("large positions trigger concentration findings", func(t *testing.T) {
		var n int
		err := g.store.QueryRow(
			"SELECT COUNT(*) FROM CURATED_FACT_COMPLIANCE_BREACH WHERE severity = 'breach'").Scan(&n)
		require.NoError(t, err)
		assert.Positive(t, n)
	})

	t.Run("at-risk clients show redemptions", func(t *testing.T) {
		var n int
		err := g.store.QueryRow(
			`SELECT COUNT(*) FROM CURATED_FACT_CLIENT_FLOW
			 WHERE flow_type = 'redemption' AND net_flow_usd >= 0`).Scan(&n)
		require.NoError(t, err)
		assert.Zero(t, n, "redemption flows must be negative")
	})

	t.Run("new clients only have onboarding flows", func(t *testing.T) {
		var n int
		err := g.store.QueryRow(
			`SELECT COUNT(*) FROM CURATED_FACT_CLIENT_FLOW f
			 JOIN CURATED_DIM_CLIENT c ON f.client_id = c.client_id
			 WHERE c.category = 'new' AND f.flow_type <> 'onboarding'`).Scan(&n)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("esg overrides applied", func(t *testing.T) {
		var rating string
		err := g.store.QueryRow(
			"SELECT overall_rating FROM CURATED_FACT_ESG_SCORES WHERE issuer_id = ?",
			IssuerIDFor("XOM")).Scan(&rating)
		require.NoError(t, err)
		assert.Equal(t, "BB", rating)
	})
}

func TestRun_Deterministic(t *testing.T) {
	cfg := config.Default()

	sumPrices := func(t *testing.T) float64 {
		store, err := warehouse.Open(t.TempDir(), cfg)
		require.NoError(t, err)
		defer store.Close()

		g := NewGenerator(store, cfg, true)
		require.NoError(t, g.GeneratePrices(context.Background()))

		var sum float64
		err = store.QueryRow("SELECT SUM(close_price) FROM MARKET_DATA_FACT_STOCK_PRICES").Scan(&sum)
		require.NoError(t, err)
		return sum
	}

	assert.Equal(t, sumPrices(t), sumPrices(t), "same seed must yield the same prices")
}

func TestValidate_FailsOnEmptyTable(t *testing.T) {
	g := newTestGenerator(t)
	ctx := context.Background()

	require.NoError(t, g.GenerateDimensions(ctx))
	require.NoError(t, g.GeneratePrices(ctx))
	// Facts never generated: validation must flag the empty tables.
	err := g.Validate(ctx)
	assert.Error(t, err)
}
