package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samforge/internal/config"
	"samforge/internal/embedding"
	"samforge/internal/warehouse"
)

type corpusDoc struct {
	id, title, text, ticker, company, broker, rating string
}

func seedBrokerCorpus(t *testing.T, store *warehouse.Store, docs []corpusDoc) {
	t.Helper()
	table := store.Table("curated", "BROKER_RESEARCH_CORPUS")
	_, err := store.Exec(fmt.Sprintf(`CREATE TABLE %s (
		document_id TEXT PRIMARY KEY,
		doc_type TEXT,
		document_title TEXT,
		document_text TEXT,
		document_date TEXT,
		ticker TEXT,
		company_name TEXT,
		broker_name TEXT,
		rating TEXT
	)`, table))
	require.NoError(t, err)

	for i, d := range docs {
		_, err := store.Exec(fmt.Sprintf(
			`INSERT INTO %s VALUES (?, 'broker_research', ?, ?, ?, ?, ?, ?, ?)`, table),
			d.id, d.title, d.text, fmt.Sprintf("2025-06-%02d", i+1),
			d.ticker, d.company, d.broker, d.rating)
		require.NoError(t, err)
	}
}

func newTestBuilder(t *testing.T) (*Builder, *warehouse.Store) {
	t.Helper()
	cfg := config.Default()
	store, err := warehouse.Open(t.TempDir(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = store.Provision(context.Background())
	require.NoError(t, err)

	seedBrokerCorpus(t, store, []corpusDoc{
		{"d1", "NVDA Initiation", "Strong accelerator demand drives revenue growth for the data center segment", "NVDA", "NVIDIA Corp", "Meridian Capital Research", "Buy"},
		{"d2", "XOM Downgrade", "Energy transition pressure and regulatory scrutiny weigh on the outlook", "XOM", "Exxon Mobil", "Atlantic Equity Partners", "Sell"},
		{"d3", "MSFT Update", "Cloud revenue growth remains durable across enterprise workloads", "MSFT", "Microsoft Corp", "Meridian Capital Research", "Hold"},
	})

	return NewBuilder(store, cfg, embedding.NewLocalEngine(0)), store
}

func TestBuild_IndexesCorpusAndRegisters(t *testing.T) {
	b, store := newTestBuilder(t)

	counts, err := b.BuildAll(context.Background(), []string{"broker_research"})
	require.NoError(t, err)
	assert.Equal(t, 3, counts["SAM_BROKER_RESEARCH"])

	n, err := store.CountRows(b.IndexTable("SAM_BROKER_RESEARCH"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var tableName, wh string
	err = store.QueryRow(fmt.Sprintf(
		"SELECT table_name, warehouse FROM %s WHERE service_name = ?",
		store.Table("ai", "SEARCH_SERVICES")), "SAM_BROKER_RESEARCH").Scan(&tableName, &wh)
	require.NoError(t, err)
	assert.Equal(t, b.IndexTable("SAM_BROKER_RESEARCH"), tableName)
	assert.Equal(t, "SAM_CORTEX_WH", wh)
}

func TestBuild_IsIdempotent(t *testing.T) {
	b, store := newTestBuilder(t)
	ctx := context.Background()

	_, err := b.BuildAll(ctx, []string{"broker_research"})
	require.NoError(t, err)
	_, err = b.BuildAll(ctx, []string{"broker_research"})
	require.NoError(t, err)

	n, err := store.CountRows(b.IndexTable("SAM_BROKER_RESEARCH"))
	require.NoError(t, err)
	assert.Equal(t, 3, n, "rebuild must not duplicate rows")
}

func TestQuery_Keyword(t *testing.T) {
	b, _ := newTestBuilder(t)
	ctx := context.Background()

	_, err := b.BuildAll(ctx, []string{"broker_research"})
	require.NoError(t, err)

	t.Run("ranks by term overlap", func(t *testing.T) {
		results, err := b.Query(ctx, "SAM_BROKER_RESEARCH", "revenue growth", nil, 10)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, 1.0, results[0].Score)
		assert.ElementsMatch(t,
			[]string{"d1", "d3"},
			[]string{results[0].DocumentID, results[1].DocumentID})
	})

	t.Run("attribute filter narrows results", func(t *testing.T) {
		results, err := b.Query(ctx, "SAM_BROKER_RESEARCH", "revenue growth",
			map[string]string{"ticker": "MSFT"}, 10)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "d3", results[0].DocumentID)
		assert.Equal(t, "Meridian Capital Research", results[0].Attributes["broker_name"])
	})

	t.Run("unknown filter attribute", func(t *testing.T) {
		_, err := b.Query(ctx, "SAM_BROKER_RESEARCH", "revenue",
			map[string]string{"severity_level": "high"}, 10)
		assert.ErrorContains(t, err, "no attribute")
	})

	t.Run("unknown service", func(t *testing.T) {
		_, err := b.Query(ctx, "SAM_NOPE", "revenue", nil, 10)
		assert.ErrorContains(t, err, "unknown search service")
	})

	t.Run("no matches", func(t *testing.T) {
		results, err := b.Query(ctx, "SAM_BROKER_RESEARCH", "zebra migration", nil, 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("limit caps results", func(t *testing.T) {
		results, err := b.Query(ctx, "SAM_BROKER_RESEARCH", "revenue growth outlook", nil, 1)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}

func TestAttributeColumns(t *testing.T) {
	b := &Builder{}

	attrs := b.attributeColumns([]string{"broker_research"})
	assert.Equal(t, []string{"ticker", "company_name", "broker_name", "rating"}, attrs)

	attrs = b.attributeColumns([]string{"policy_docs"})
	assert.Empty(t, attrs, "global docs carry no linkage attributes")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short text", snippet("short   text"))

	long := ""
	for i := 0; i < 100; i++ {
		long += "word "
	}
	s := snippet(long)
	assert.LessOrEqual(t, len(s), snippetLen+3)
	assert.Contains(t, s, "...")
}
