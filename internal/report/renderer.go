package report

import (
	"context"
	"fmt"
	"time"

	"samforge/internal/logging"
	"samforge/internal/stage"
)

// Converter turns a complete HTML document into PDF bytes.
type Converter interface {
	HTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// Renderer generates branded PDF reports and stages them for download.
type Renderer struct {
	converter Converter
	stage     *stage.Stage
	now       func() time.Time
}

// NewRenderer wires a converter to the report stage.
func NewRenderer(converter Converter, st *stage.Stage) *Renderer {
	return &Renderer{
		converter: converter,
		stage:     st,
		now:       time.Now,
	}
}

// Generate renders markdown content into a branded PDF, stages it, and
// returns a markdown download link. Unknown audiences render as internal.
func (r *Renderer) Generate(ctx context.Context, markdownContent, title, audience string) (string, error) {
	timer := logging.StartTimer(logging.CategoryReport, "Generate")
	defer timer.StopWithInfo()

	aud := NormalizeAudience(audience)
	now := r.now()
	filename := Filename(title, aud, now)

	logging.Report("Rendering %s (audience=%s)", filename, aud)

	html, err := BuildHTML(markdownContent, title, aud, now)
	if err != nil {
		return "", err
	}

	pdf, err := r.converter.HTMLToPDF(ctx, html)
	if err != nil {
		logging.Get(logging.CategoryReport).Error("PDF conversion failed: %v", err)
		return "", fmt.Errorf("PDF conversion failed: %w", err)
	}

	if _, err := r.stage.Put(filename, pdf); err != nil {
		return "", err
	}

	url, err := r.stage.PresignURL(filename)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("[%s: %s](%s) - Professional PDF generated successfully with Simulated branding.",
		aud.Label(), title, url), nil
}
