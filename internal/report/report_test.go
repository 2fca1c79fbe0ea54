package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samforge/internal/stage"
)

type stubConverter struct {
	lastHTML string
	err      error
}

func (s *stubConverter) HTMLToPDF(_ context.Context, html string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastHTML = html
	return []byte("%PDF-1.4 stub"), nil
}

func newTestRenderer(t *testing.T) (*Renderer, *stubConverter) {
	t.Helper()
	st, err := stage.New(stage.Config{
		Name:       "PDF_REPORTS",
		Root:       t.TempDir(),
		BaseURL:    "https://stage.sam-demo.example",
		SigningKey: "test-key",
		URLTTL:     time.Hour,
	})
	require.NoError(t, err)

	conv := &stubConverter{}
	return NewRenderer(conv, st), conv
}

func TestNormalizeAudience(t *testing.T) {
	assert.Equal(t, AudienceInternal, NormalizeAudience("internal"))
	assert.Equal(t, AudienceClient, NormalizeAudience("external_client"))
	assert.Equal(t, AudienceRegulatory, NormalizeAudience("external_regulatory"))

	// Anything unknown falls back to the most restrictive classification.
	assert.Equal(t, AudienceInternal, NormalizeAudience("public"))
	assert.Equal(t, AudienceInternal, NormalizeAudience(""))
	assert.Equal(t, AudienceInternal, NormalizeAudience("INTERNAL"))
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

	t.Run("sanitizes and timestamps", func(t *testing.T) {
		name := Filename("Q4 2024 Client Review", AudienceClient, now)
		assert.Equal(t, "external_client_Q4_2024_Client_Review_20250115_093000.pdf", name)
	})

	t.Run("truncates title after sanitizing", func(t *testing.T) {
		long := strings.Repeat("Portfolio Review ", 5)
		name := Filename(long, AudienceInternal, now)
		assert.Equal(t, "internal_Portfolio_Review_Portfolio_Rev_20250115_093000.pdf", name)
	})

	t.Run("distinct timestamps never collide", func(t *testing.T) {
		a := Filename("Same Title", AudienceInternal, now)
		b := Filename("Same Title", AudienceInternal, now.Add(time.Second))
		assert.NotEqual(t, a, b)
	})
}

func TestBuildHTML_AudienceBranding(t *testing.T) {
	now := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

	t.Run("internal badge and classification footer", func(t *testing.T) {
		html, err := BuildHTML("# Overview", "Q3 Review", AudienceInternal, now)
		require.NoError(t, err)
		assert.Contains(t, html, "INTERNAL DOCUMENT")
		assert.Contains(t, html, "Internal Use Only - Not for Distribution")
		assert.NotContains(t, html, "FCA REGULATED")
	})

	t.Run("regulatory badge and compliance footer", func(t *testing.T) {
		html, err := BuildHTML("# Overview", "Annual Filing", AudienceRegulatory, now)
		require.NoError(t, err)
		assert.Contains(t, html, "FCA REGULATED")
		assert.Contains(t, html, "compliance@sam-demo.example")
	})

	t.Run("client audience carries no badge", func(t *testing.T) {
		html, err := BuildHTML("# Overview", "Q3 Review", AudienceClient, now)
		require.NoError(t, err)
		assert.NotContains(t, html, "INTERNAL DOCUMENT")
		assert.NotContains(t, html, "FCA REGULATED")
		assert.Contains(t, html, "Past performance does not guarantee future results")
	})

	t.Run("every audience carries the demo disclaimer", func(t *testing.T) {
		for _, aud := range []Audience{AudienceInternal, AudienceClient, AudienceRegulatory} {
			html, err := BuildHTML("body", "T", aud, now)
			require.NoError(t, err)
			assert.Contains(t, html, "DEMONSTRATION ONLY", "audience %s", aud)
			assert.Contains(t, html, "fictional entity", "audience %s", aud)
		}
	})

	t.Run("embeds the logo inline", func(t *testing.T) {
		html, err := BuildHTML("body", "T", AudienceInternal, now)
		require.NoError(t, err)
		assert.Contains(t, html, "data:image/svg+xml;base64,")
		assert.Contains(t, html, "SIMULATED ASSET MANAGEMENT")
	})
}

func TestBuildHTML_MarkdownTables(t *testing.T) {
	md := strings.Join([]string{
		"# Holdings",
		"",
		"| Ticker | Weight |",
		"|--------|--------|",
		"| AAPL   | 8.2%   |",
	}, "\n")

	html, err := BuildHTML(md, "Holdings", AudienceInternal, time.Now())
	require.NoError(t, err)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<td>AAPL</td>")
}

func TestRenderer_Generate(t *testing.T) {
	r, conv := newTestRenderer(t)

	link, err := r.Generate(context.Background(), "# Q3 Review\n\nAll good.", "Q3 Review", "external_client")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(link, "[Client Report: Q3 Review]("))
	assert.True(t, strings.HasSuffix(link, ") - Professional PDF generated successfully with Simulated branding."))
	assert.Contains(t, link, "https://stage.sam-demo.example/PDF_REPORTS/external_client_Q3_Review_")
	assert.Contains(t, conv.lastHTML, "Past performance does not guarantee future results")
}

func TestRenderer_GenerateUnknownAudienceRendersInternal(t *testing.T) {
	r, conv := newTestRenderer(t)

	link, err := r.Generate(context.Background(), "# Notes", "Notes", "board_only")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(link, "[Internal Report: Notes]("))
	assert.Contains(t, link, "/internal_Notes_")
	assert.Contains(t, conv.lastHTML, "INTERNAL DOCUMENT")
}

func TestRenderer_GenerateConverterFailure(t *testing.T) {
	r, conv := newTestRenderer(t)
	conv.err = context.DeadlineExceeded

	_, err := r.Generate(context.Background(), "# Notes", "Notes", "internal")
	assert.ErrorContains(t, err, "PDF conversion failed")
}
