package hydrate

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"samforge/internal/config"
	"samforge/internal/content"
	"samforge/internal/warehouse"
)

const brokerTemplate = `---
doc_type: broker_research
linkage_level: security
variant_id: initiation
word_count_target: 900
placeholders:
  required:
    - COMPANY_NAME
    - TICKER
  conditional:
    - name: OUTLOOK_PHRASE
      type: text
      condition: "REVENUE_GROWTH_PCT > 0"
      options:
        positive: "continues to expand"
        negative: "faces headwinds"
---
# {{COMPANY_NAME}} ({{TICKER}}) - {{RATING}}

{{BROKER_NAME}} research by {{ANALYST_NAME}}, {{REPORT_DATE}}.

Revenue {{OUTLOOK_PHRASE}}. Price target {{PRICE_TARGET}}.
`

const brokerVariantB = `---
doc_type: broker_research
linkage_level: security
variant_id: update
word_count_target: 700
---
# {{COMPANY_NAME}} ({{TICKER}}) - Coverage Update

{{BROKER_NAME}} maintains {{RATING}}.
`

const policyTemplate = `---
doc_type: policy_docs
linkage_level: global
variant_id: esg_policy
word_count_target: 800
---
# ESG Investment Policy

Review cycle: {{REVIEW_CYCLE_MONTHS}} months.
`

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.Default()
	ws := t.TempDir()

	store, err := warehouse.Open(ws, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	libRoot := filepath.Join(ws, "content_library")
	writeFile(t, filepath.Join(libRoot, "security/broker_research/initiation.md"), brokerTemplate)
	writeFile(t, filepath.Join(libRoot, "security/broker_research/update.md"), brokerVariantB)
	writeFile(t, filepath.Join(libRoot, "global/policy_docs/esg_policy.md"), policyTemplate)

	lib, err := content.NewLibrary(libRoot)
	require.NoError(t, err)
	rules := content.NewRules(filepath.Join(libRoot, "_rules"))

	anchor := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	return NewEngine(store, cfg, lib, rules, anchor, true)
}

func TestHydrate_BrokerResearch(t *testing.T) {
	e := newTestEngine(t)

	n, err := e.Hydrate(context.Background(), "broker_research")
	require.NoError(t, err)
	// 8 covered securities, test mode floors docs-per-entity at 1.
	assert.Equal(t, 8, n)

	rows, err := e.store.Query(
		`SELECT document_title, document_text, ticker, broker_name, rating
		 FROM RAW_BROKER_RESEARCH_RAW ORDER BY ticker`)
	require.NoError(t, err)
	defer rows.Close()

	seen := 0
	for rows.Next() {
		var title, text, ticker, broker, rating string
		require.NoError(t, rows.Scan(&title, &text, &ticker, &broker, &rating))
		seen++

		assert.NotContains(t, text, "{{COMPANY_NAME}}", "placeholders must be resolved")
		assert.NotContains(t, text, "{{OUTLOOK_PHRASE}}", "conditionals must be resolved")
		assert.Contains(t, text, broker)
		assert.NotEmpty(t, rating)
		assert.Contains(t, title, ticker, "title derives from the rendered H1")
	}
	assert.Equal(t, 8, seen)
}

func TestHydrate_GlobalDocsCycleVariants(t *testing.T) {
	e := newTestEngine(t)

	n, err := e.Hydrate(context.Background(), "policy_docs")
	require.NoError(t, err)
	assert.Equal(t, 1, n) // test mode: 6 docs scaled to floor

	var title string
	err = e.store.QueryRow("SELECT document_title FROM RAW_POLICY_DOCS_RAW").Scan(&title)
	require.NoError(t, err)
	assert.Equal(t, "ESG Investment Policy", title)
}

func TestHydrate_Deterministic(t *testing.T) {
	run := func(t *testing.T) []string {
		e := newTestEngine(t)
		_, err := e.Hydrate(context.Background(), "broker_research")
		require.NoError(t, err)

		rows, err := e.store.Query(
			"SELECT document_text FROM RAW_BROKER_RESEARCH_RAW ORDER BY ticker")
		require.NoError(t, err)
		defer rows.Close()

		var docs []string
		for rows.Next() {
			var text string
			require.NoError(t, rows.Scan(&text))
			docs = append(docs, text)
		}
		return docs
	}

	assert.Equal(t, run(t), run(t), "same seed must yield identical documents")
}

func TestHydrateAll_Concurrent(t *testing.T) {
	e := newTestEngine(t)

	counts, err := e.HydrateAll(context.Background(), []string{"broker_research", "policy_docs"})
	require.NoError(t, err)
	assert.Equal(t, 8, counts["broker_research"])
	assert.Equal(t, 1, counts["policy_docs"])
}

func TestHydrateAll_UnknownType(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.HydrateAll(context.Background(), []string{"broker_research", "nope"})
	assert.ErrorContains(t, err, "unknown document type")
}

func TestSelectTemplate(t *testing.T) {
	a, err := content.ParseTemplate("a.md", brokerTemplate)
	require.NoError(t, err)
	b, err := content.ParseTemplate("b.md", brokerVariantB)
	require.NoError(t, err)
	templates := []*content.Template{a, b}

	t.Run("single template short-circuits", func(t *testing.T) {
		got := SelectTemplate(templates[:1], Context{"SECURITY_ID": 1, "_doc_type": "broker_research"}, 42)
		assert.Same(t, a, got)
	})

	t.Run("entity selection is deterministic", func(t *testing.T) {
		c := Context{"SECURITY_ID": 3, "_doc_type": "broker_research"}
		first := SelectTemplate(templates, c, 42)
		for i := 0; i < 10; i++ {
			assert.Same(t, first, SelectTemplate(templates, c, 42))
		}
	})

	t.Run("global docs cycle by doc number", func(t *testing.T) {
		c0 := Context{"_doc_type": "policy_docs", "_doc_num": 0}
		c1 := Context{"_doc_type": "policy_docs", "_doc_num": 1}
		c2 := Context{"_doc_type": "policy_docs", "_doc_num": 2}
		assert.Same(t, a, SelectTemplate(templates, c0, 42))
		assert.Same(t, b, SelectTemplate(templates, c1, 42))
		assert.Same(t, a, SelectTemplate(templates, c2, 42))
	})
}

func TestEvalCondition(t *testing.T) {
	c := Context{"QTD_RETURN_PCT": 2.5, "YTD_RETURN_PCT": -3.0}

	assert.True(t, evalCondition("QTD_RETURN_PCT > 0", c))
	assert.False(t, evalCondition("YTD_RETURN_PCT > 0", c))
	assert.True(t, evalCondition("YTD_RETURN_PCT <= -3", c))
	assert.False(t, evalCondition("MISSING_METRIC > 0", c), "unknown placeholder is false")
	assert.False(t, evalCondition("not a condition", c), "malformed condition is false")
}

func TestWatch_ShutsDownCleanly(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- e.Watch(ctx, "broker_research", 50*time.Millisecond)
	}()

	// Trigger one re-hydration through the debounce window.
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(e.lib.Root, "security/broker_research/initiation.md"), brokerTemplate)
	time.Sleep(300 * time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}

	n, err := e.store.CountRows("RAW_BROKER_RESEARCH_RAW")
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}
