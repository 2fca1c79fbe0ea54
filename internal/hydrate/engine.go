// Package hydrate renders the template corpus into document tables: it
// enumerates entities per document type, builds placeholder contexts from
// the warehouse, selects template variants deterministically, and writes the
// rendered markdown to the RAW schema.
package hydrate

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"samforge/internal/config"
	"samforge/internal/content"
	"samforge/internal/logging"
	"samforge/internal/warehouse"
)

// Engine drives hydration for all document types.
type Engine struct {
	store    *warehouse.Store
	cfg      *config.Config
	lib      *content.Library
	rules    *content.Rules
	testMode bool

	anchor time.Time
}

// NewEngine wires the hydration engine. anchor is the price-anchor date all
// generated document dates key off.
func NewEngine(store *warehouse.Store, cfg *config.Config, lib *content.Library, rules *content.Rules, anchor time.Time, testMode bool) *Engine {
	return &Engine{
		store:    store,
		cfg:      cfg,
		lib:      lib,
		rules:    rules,
		anchor:   anchor,
		testMode: testMode,
	}
}

// HydrateAll hydrates the given document types concurrently. Counts are
// returned per type; the first error cancels the remaining work.
func (e *Engine) HydrateAll(ctx context.Context, docTypes []string) (map[string]int, error) {
	timer := logging.StartTimer(logging.CategoryHydration, "HydrateAll")
	defer timer.StopWithInfo()

	counts := make(map[string]int, len(docTypes))

	g, gctx := errgroup.WithContext(ctx)
	results := make(chan struct {
		docType string
		count   int
	}, len(docTypes))

	for _, dt := range docTypes {
		docType := dt
		g.Go(func() error {
			n, err := e.Hydrate(gctx, docType)
			if err != nil {
				return fmt.Errorf("hydrate %s: %w", docType, err)
			}
			results <- struct {
				docType string
				count   int
			}{docType, n}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(results)
	for r := range results {
		counts[r.docType] = r.count
		logging.Hydration("%s: %d documents", r.docType, r.count)
	}
	return counts, nil
}

// Hydrate renders every document for one document type.
func (e *Engine) Hydrate(ctx context.Context, docType string) (int, error) {
	dt, err := config.DocumentTypeFor(docType)
	if err != nil {
		return 0, err
	}

	templates, err := e.lib.LoadTemplates(dt.TemplateDir)
	if err != nil {
		return 0, err
	}
	if len(templates) == 0 {
		return 0, fmt.Errorf("no templates for %s in %s", docType, dt.TemplateDir)
	}

	if err := e.createRawTable(dt); err != nil {
		return 0, err
	}

	entities, err := e.entitiesFor(docType, dt)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entity := range entities {
		select {
		case <-ctx.Done():
			return count, ctx.Err()
		default:
		}

		docs := e.volume(e.docsPer(dt))
		for docNum := 0; docNum < docs; docNum++ {
			c, err := e.buildContext(docType, dt, entity, docNum)
			if err != nil {
				return count, err
			}
			tmpl := SelectTemplate(templates, c, e.cfg.Generation.RNGSeed)
			rendered, c := e.render(tmpl, c)
			if err := e.writeDocument(dt, docType, c, rendered); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

// docsPer returns documents per entity (or total docs for global types).
func (e *Engine) docsPer(dt config.DocumentType) int {
	if dt.LinkageLevel == config.LinkageGlobal {
		return dt.DocsTotal
	}
	return dt.DocsPerEntity
}

// volume applies the test-mode multiplier with a floor of one.
func (e *Engine) volume(n int) int {
	if !e.testMode {
		return n
	}
	scaled := int(math.Floor(float64(n) * e.cfg.Generation.TestModeMultiplier))
	if scaled < 1 {
		return 1
	}
	return scaled
}
