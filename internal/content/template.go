// Package content loads the template corpus: markdown templates with YAML
// front matter plus the rules files (numeric bounds, fictional providers,
// placeholder contract) that govern hydration.
package content

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Conditional describes a placeholder whose value depends on a numeric
// comparison over the context, e.g. condition "QTD_RETURN_PCT > 0" with
// positive/negative options.
type Conditional struct {
	Name      string            `yaml:"name"`
	Type      string            `yaml:"type"`
	Condition string            `yaml:"condition"`
	Options   map[string]string `yaml:"options"`
}

// Placeholders declares a template's placeholder contract.
type Placeholders struct {
	Required    []string      `yaml:"required"`
	Optional    []string      `yaml:"optional"`
	Conditional []Conditional `yaml:"conditional"`
	Includes    []string      `yaml:"includes"`
}

// Metadata is a template's YAML front matter.
type Metadata struct {
	DocType         string       `yaml:"doc_type"`
	LinkageLevel    string       `yaml:"linkage_level"`
	VariantID       string       `yaml:"variant_id"`
	WordCountTarget int          `yaml:"word_count_target"`
	SectorTags      []string     `yaml:"sector_tags"`
	MeetingType     string       `yaml:"meeting_type"`
	Category        string       `yaml:"category"`
	Placeholders    Placeholders `yaml:"placeholders"`
	Includes        []string     `yaml:"includes"`
}

// Template is one parsed corpus template.
type Template struct {
	Path     string
	Metadata Metadata
	Body     string
}

// AllIncludes merges includes declared at the top level and under
// placeholders (both spellings appear in the corpus).
func (t *Template) AllIncludes() []string {
	seen := make(map[string]bool)
	var all []string
	for _, inc := range append(append([]string{}, t.Metadata.Includes...), t.Metadata.Placeholders.Includes...) {
		if !seen[inc] {
			seen[inc] = true
			all = append(all, inc)
		}
	}
	return all
}

// ParseTemplate splits front matter from body and validates the required
// metadata fields. Content without front matter is rejected (partials are
// loaded through their own path).
func ParseTemplate(path, raw string) (*Template, error) {
	trimmed := strings.TrimLeft(raw, "\ufeff\n\r")
	if !strings.HasPrefix(trimmed, "---") {
		return nil, fmt.Errorf("%s: no front matter", path)
	}

	parts := strings.SplitN(trimmed, "---", 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("%s: unterminated front matter", path)
	}

	var meta Metadata
	if err := yaml.Unmarshal([]byte(parts[1]), &meta); err != nil {
		return nil, fmt.Errorf("%s: invalid front matter: %w", path, err)
	}

	var missing []string
	if meta.DocType == "" {
		missing = append(missing, "doc_type")
	}
	if meta.LinkageLevel == "" {
		missing = append(missing, "linkage_level")
	}
	if meta.WordCountTarget == 0 {
		missing = append(missing, "word_count_target")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing required fields: %s", path, strings.Join(missing, ", "))
	}

	return &Template{
		Path:     path,
		Metadata: meta,
		Body:     strings.TrimLeft(parts[2], "\n"),
	}, nil
}
