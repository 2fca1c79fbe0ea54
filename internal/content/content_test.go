package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTemplate = `---
doc_type: broker_research
linkage_level: security
variant_id: initiation
word_count_target: 900
sector_tags:
  - Information Technology
placeholders:
  required:
    - COMPANY_NAME
    - TICKER
  optional:
    - PRICE_TARGET
  conditional:
    - name: OUTLOOK_PHRASE
      type: text
      condition: "REVENUE_GROWTH_PCT > 0"
      options:
        positive: "continues to expand"
        negative: "faces headwinds"
  includes:
    - equity_markets
---
# {{COMPANY_NAME}} ({{TICKER}}) - Initiation of Coverage

{{> equity_markets}}

Revenue {{OUTLOOK_PHRASE}}.
`

func TestParseTemplate(t *testing.T) {
	tmpl, err := ParseTemplate("x.md", sampleTemplate)
	require.NoError(t, err)

	assert.Equal(t, "broker_research", tmpl.Metadata.DocType)
	assert.Equal(t, "security", tmpl.Metadata.LinkageLevel)
	assert.Equal(t, 900, tmpl.Metadata.WordCountTarget)
	assert.Equal(t, []string{"Information Technology"}, tmpl.Metadata.SectorTags)
	assert.Equal(t, []string{"COMPANY_NAME", "TICKER"}, tmpl.Metadata.Placeholders.Required)

	require.Len(t, tmpl.Metadata.Placeholders.Conditional, 1)
	cond := tmpl.Metadata.Placeholders.Conditional[0]
	assert.Equal(t, "OUTLOOK_PHRASE", cond.Name)
	assert.Equal(t, "REVENUE_GROWTH_PCT > 0", cond.Condition)
	assert.Equal(t, "continues to expand", cond.Options["positive"])

	assert.Equal(t, []string{"equity_markets"}, tmpl.AllIncludes())
	assert.Contains(t, tmpl.Body, "# {{COMPANY_NAME}}")
	assert.NotContains(t, tmpl.Body, "doc_type")
}

func TestParseTemplate_Invalid(t *testing.T) {
	t.Run("no front matter", func(t *testing.T) {
		_, err := ParseTemplate("x.md", "# Just markdown")
		assert.Error(t, err)
	})

	t.Run("missing required fields", func(t *testing.T) {
		_, err := ParseTemplate("x.md", "---\ndoc_type: broker_research\n---\nbody")
		assert.ErrorContains(t, err, "missing required fields")
		assert.ErrorContains(t, err, "linkage_level")
		assert.ErrorContains(t, err, "word_count_target")
	})
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func TestLibrary_LoadTemplates(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "security", "broker_research")

	writeFile(t, filepath.Join(dir, "initiation.md"), sampleTemplate)
	writeFile(t, filepath.Join(dir, "_notes.md"), sampleTemplate)               // underscore file skipped
	writeFile(t, filepath.Join(dir, "_partials", "equity_markets.md"), "body") // partials dir skipped
	writeFile(t, filepath.Join(dir, "broken.md"), "# no front matter")         // skipped with warning
	writeFile(t, filepath.Join(dir, "readme.txt"), "not markdown")

	lib, err := NewLibrary(root)
	require.NoError(t, err)

	templates, err := lib.LoadTemplates("security/broker_research")
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "initiation", templates[0].Metadata.VariantID)
}

func TestLibrary_LoadPartial(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "security", "broker_research")
	writeFile(t, filepath.Join(dir, "initiation.md"), sampleTemplate)
	writeFile(t, filepath.Join(dir, "_partials", "equity_markets.md"), "Equity markets were mixed.\n")

	lib, err := NewLibrary(root)
	require.NoError(t, err)

	partial, err := lib.LoadPartial("equity_markets", filepath.Join(dir, "initiation.md"))
	require.NoError(t, err)
	assert.Equal(t, "Equity markets were mixed.", partial)

	_, err = lib.LoadPartial("missing", filepath.Join(dir, "initiation.md"))
	assert.Error(t, err)
}

func TestRules_Fallbacks(t *testing.T) {
	r := NewRules(filepath.Join(t.TempDir(), "_rules")) // directory does not exist

	assert.NotEmpty(t, r.FictionalBrokers())
	assert.Contains(t, r.FictionalNGOs(), "environmental")

	bounds := r.NumericBounds("broker_research", "Information Technology")
	assert.Contains(t, bounds, "PRICE_TARGET")
}

func TestRules_YAMLOverridesAndSectorMerge(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "_rules")
	writeFile(t, filepath.Join(dir, "numeric_bounds.yaml"), `
security:
  broker_research:
    _default:
      PRICE_TARGET: {min: 10, max: 100}
      PE_RATIO: {min: 5, max: 40}
    Information Technology:
      PRICE_TARGET: {min: 50, max: 900}
`)
	writeFile(t, filepath.Join(dir, "fictional_providers.yaml"), `
fictional_brokers:
  - Testhaven Research
`)

	r := NewRules(dir)

	bounds := r.NumericBounds("broker_research", "Information Technology")
	assert.Equal(t, Bound{Min: 50, Max: 900}, bounds["PRICE_TARGET"], "sector overrides default")
	assert.Equal(t, Bound{Min: 5, Max: 40}, bounds["PE_RATIO"], "default retained")

	assert.Equal(t, []string{"Testhaven Research"}, r.FictionalBrokers())
}
