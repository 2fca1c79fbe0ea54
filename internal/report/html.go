// Package report renders professional branded PDF reports from markdown
// content and stages them for presigned-URL download.
package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"regexp"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Audience controls document classification, badges, and footer content.
type Audience string

const (
	AudienceInternal   Audience = "internal"
	AudienceClient     Audience = "external_client"
	AudienceRegulatory Audience = "external_regulatory"
)

// NormalizeAudience maps unknown audience values to internal, the most
// restrictive classification.
func NormalizeAudience(s string) Audience {
	switch Audience(s) {
	case AudienceInternal, AudienceClient, AudienceRegulatory:
		return Audience(s)
	default:
		return AudienceInternal
	}
}

// Label returns the audience's display label used in download links.
func (a Audience) Label() string {
	switch a {
	case AudienceClient:
		return "Client Report"
	case AudienceRegulatory:
		return "Regulatory Report"
	case AudienceInternal:
		return "Internal Report"
	default:
		return "Report"
	}
}

var unsafeTitleChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// Filename builds the staged PDF name: audience prefix, sanitized title
// capped at 30 characters, second-resolution timestamp. The timestamp keeps
// successive renders of the same report from colliding.
func Filename(title string, audience Audience, now time.Time) string {
	safe := unsafeTitleChars.ReplaceAllString(title, "_")
	if len(safe) > 30 {
		safe = safe[:30]
	}
	return fmt.Sprintf("%s_%s_%s.pdf", audience, safe, now.Format("20060102_150405"))
}

// Mountain peak logo in SAM brand colors, embedded as a data URI so the
// rendered document has no external fetches.
const svgLogo = `
    <svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120 50" width="120" height="50">
        <!-- Mountain peaks -->
        <polygon points="30,45 45,15 60,45" fill="#1F4E79"/>
        <polygon points="50,45 70,8 90,45" fill="#2E75B6"/>
        <polygon points="15,45 25,30 35,45" fill="#3F7CAC" opacity="0.8"/>
        <!-- Snow cap on main peak -->
        <polygon points="70,8 65,18 75,18" fill="white"/>
        <!-- Base line -->
        <line x1="10" y1="45" x2="95" y2="45" stroke="#1F4E79" stroke-width="2"/>
    </svg>
`

const cssStyle = `
            @page { size: A4; margin: 2cm; }
            body { font-family: Arial, sans-serif; line-height: 1.6; color: #2C3E50; }
            h1 { color: #1F4E79; border-bottom: 3px solid #1F4E79; padding-bottom: 10px; }
            h2 { color: #2E75B6; border-left: 4px solid #2E75B6; padding-left: 15px; margin-top: 25px; }
            h3 { color: #3F7CAC; }
            table { border-collapse: collapse; width: 100%; margin: 20px 0; }
            th { background-color: #1F4E79; color: white; padding: 12px; font-weight: bold; text-align: left; }
            td { padding: 10px; border-bottom: 1px solid #ddd; }
            tr:nth-child(even) { background-color: #F8F9FA; }
            .header { display: flex; align-items: center; border-bottom: 3px solid #1F4E79; padding-bottom: 15px; margin-bottom: 25px; }
            .header-logo { margin-right: 20px; }
            .header-text { flex: 1; }
            .header-title { margin: 0; color: #1F4E79; font-size: 24px; }
            .header-subtitle { margin: 5px 0 0 0; color: #666; font-size: 14px; }
            .footer { margin-top: 30px; padding-top: 15px; border-top: 2px solid #1F4E79; font-size: 11px; color: #666; }
            .demo-disclaimer { background: #FFF3CD; border: 1px solid #FFE69C; padding: 12px; margin-top: 15px; font-size: 10px; color: #664D03; border-radius: 4px; }
            .internal-badge { background: #E7F3FF; color: #1F4E79; padding: 3px 8px; border-radius: 3px; font-size: 11px; font-weight: bold; }
            .regulatory-badge { background: #F8D7DA; color: #721C24; padding: 3px 8px; border-radius: 3px; font-size: 11px; font-weight: bold; }
`

const demoDisclaimer = `
        <div class="demo-disclaimer">
            <strong>DEMONSTRATION ONLY:</strong> This document was generated
            for demonstration purposes. It does not represent real investment advice, actual portfolio data,
            or genuine recommendations. Simulated Asset Management is a fictional entity created for this demo.
        </div>
`

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough),
)

// BuildHTML converts agent markdown into a complete branded HTML document
// with audience-specific header badge and footer.
func BuildHTML(markdownContent, title string, audience Audience, now time.Time) (string, error) {
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(markdownContent), &body); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}

	logoSrc := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svgLogo))

	var headerSubtitle string
	switch audience {
	case AudienceInternal:
		headerSubtitle = fmt.Sprintf(`<span class="internal-badge">INTERNAL DOCUMENT</span> | %s`, title)
	case AudienceRegulatory:
		headerSubtitle = fmt.Sprintf(`<span class="regulatory-badge">FCA REGULATED</span> | %s`, title)
	default:
		headerSubtitle = title
	}

	header := fmt.Sprintf(`
        <div class="header">
            <div class="header-logo">
                <img src="%s" alt="Simulated Asset Management" style="height: 50px;"/>
            </div>
            <div class="header-text">
                <h1 class="header-title" style="border: none; padding: 0;">SIMULATED ASSET MANAGEMENT</h1>
                <p class="header-subtitle">%s</p>
            </div>
        </div>
`, logoSrc, headerSubtitle)

	ts := now.Format("January 02, 2006 at 03:04 PM MST")

	var footerContent string
	switch audience {
	case AudienceInternal:
		footerContent = fmt.Sprintf(`
            <p><strong>Classification:</strong> Internal Use Only - Not for Distribution</p>
            <p><strong>Generated:</strong> %s</p>
            <p><strong>Generated By:</strong> samforge</p>
`, ts)
	case AudienceRegulatory:
		footerContent = fmt.Sprintf(`
            <p><strong>Regulatory Status:</strong> Prepared in accordance with FCA reporting requirements</p>
            <p><strong>Compliance Contact:</strong> compliance@sam-demo.example</p>
            <p><strong>Generated:</strong> %s</p>
`, ts)
	default:
		footerContent = fmt.Sprintf(`
            <p><strong>Important:</strong> Past performance does not guarantee future results. Investment involves risk including possible loss of principal.</p>
            <p><strong>Contact:</strong> clientservices@sam-demo.example</p>
            <p><strong>Generated:</strong> %s</p>
`, ts)
	}

	footer := fmt.Sprintf(`
        <div class="footer">
            %s
            %s
        </div>
`, footerContent, demoDisclaimer)

	doc := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Simulated Asset Management - %s</title>
    <style>%s</style>
</head>
<body>
    %s
    %s
    %s
</body>
</html>
`, title, cssStyle, header, body.String(), footer)

	return doc, nil
}
