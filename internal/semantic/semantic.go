// Package semantic compiles analyst view definitions into CREATE VIEW DDL
// over the curated star schema and registers them in the AI schema.
package semantic

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"samforge/internal/logging"
	"samforge/internal/warehouse"
)

var tableRefRe = regexp.MustCompile(`\{([a-z_]+)\.([A-Z_]+)\}`)

// Builder creates and registers semantic views.
type Builder struct {
	store *warehouse.Store
}

// NewBuilder creates a semantic view builder.
func NewBuilder(store *warehouse.Store) *Builder {
	return &Builder{store: store}
}

// ViewTable returns the AI-schema object name for an analyst view.
func (b *Builder) ViewTable(name string) string {
	return b.store.Table("ai", name)
}

// CompileDDL renders one view definition to executable DDL.
func (b *Builder) CompileDDL(def ViewDef) string {
	var cols []string
	for _, d := range def.Dimensions {
		cols = append(cols, fmt.Sprintf("%s AS %s", d.Expr, d.Name))
	}
	for _, m := range def.Metrics {
		cols = append(cols, fmt.Sprintf("%s AS %s", m.Expr, m.Name))
	}

	from := tableRefRe.ReplaceAllStringFunc(def.From, func(match string) string {
		m := tableRefRe.FindStringSubmatch(match)
		return b.store.Table(m[1], m[2])
	})

	return fmt.Sprintf("CREATE VIEW IF NOT EXISTS %s AS\nSELECT %s\nFROM %s",
		b.ViewTable(def.Name), strings.Join(cols, ",\n       "), from)
}

// BuildAll creates every view the scenarios need, validates each with a
// probe query, and registers it. Fails on the first broken view.
func (b *Builder) BuildAll(ctx context.Context, scenarios []string) ([]string, error) {
	timer := logging.StartTimer(logging.CategorySemantic, "BuildAll")
	defer timer.StopWithInfo()

	views := ViewsForScenarios(scenarios)
	created := make([]string, 0, len(views))
	for _, def := range views {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		if err := b.Build(def); err != nil {
			return created, fmt.Errorf("semantic view %s: %w", def.Name, err)
		}
		created = append(created, def.Name)
	}
	return created, nil
}

// Build creates one view, probes it, and records it in the registry.
func (b *Builder) Build(def ViewDef) error {
	view := b.ViewTable(def.Name)

	// Recreate so definition changes take effect on rebuild.
	if _, err := b.store.Exec("DROP VIEW IF EXISTS " + view); err != nil {
		return err
	}
	if _, err := b.store.Exec(b.CompileDDL(def)); err != nil {
		return fmt.Errorf("create view: %w", err)
	}

	// Probe query surfaces missing base tables or bad column refs now
	// rather than at first agent use.
	rows, err := b.store.Query(fmt.Sprintf("SELECT * FROM %s LIMIT 1", view))
	if err != nil {
		return fmt.Errorf("validation query failed: %w", err)
	}
	rows.Close()

	registry := b.store.Table("ai", "SEMANTIC_VIEWS")
	if _, err := b.store.Exec(fmt.Sprintf(
		`INSERT OR REPLACE INTO %s (view_name, description, created_at)
		 VALUES (?, ?, datetime('now'))`, registry),
		view, def.Description); err != nil {
		return err
	}

	logging.Semantic("Created semantic view %s (%d dimensions, %d metrics)",
		def.Name, len(def.Dimensions), len(def.Metrics))
	return nil
}
