// Package search builds and queries document search services over the
// hydrated corpus tables. Each service owns one index table in the AI
// schema; a sqlite-vec virtual table sits beside it when the extension
// is compiled in, with a keyword scorer as the fallback path.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"samforge/internal/config"
	"samforge/internal/embedding"
	"samforge/internal/logging"
	"samforge/internal/warehouse"
)

// linkage-level attribute columns carried into every service index.
var linkageAttributes = map[string][]string{
	config.LinkageSecurity:  {"ticker", "company_name"},
	config.LinkageIssuer:    {"ticker", "company_name"},
	config.LinkagePortfolio: {"portfolio_name"},
	config.LinkageGlobal:    nil,
}

// doc-type specific attribute columns.
var docTypeAttributes = map[string][]string{
	"broker_research":  {"broker_name", "rating"},
	"ngo_reports":      {"ngo_name", "severity_level"},
	"engagement_notes": {"meeting_type"},
	"press_releases":   {"event_type"},
}

// Builder constructs search service index tables and registers them.
type Builder struct {
	store     *warehouse.Store
	cfg       *config.Config
	engine    embedding.Engine
	vectorExt bool
}

// NewBuilder creates a search service builder. The embedding engine may be
// nil; the services then index for keyword search only.
func NewBuilder(store *warehouse.Store, cfg *config.Config, engine embedding.Engine) *Builder {
	b := &Builder{store: store, cfg: cfg, engine: engine}
	b.vectorExt = detectVecExtension(store)
	if b.vectorExt && engine != nil {
		logging.Search("Vector search enabled: engine=%s, dims=%d", engine.Name(), engine.Dimensions())
	} else {
		logging.Search("Vector search unavailable, services will use keyword matching")
	}
	return b
}

// IndexTable returns the AI-schema index table name for a service.
func (b *Builder) IndexTable(serviceName string) string {
	return b.store.Table("ai", "SVC_"+serviceName)
}

// vecTable returns the sqlite-vec side table for a service index. The
// "_vec_" infix keeps it out of schema table listings.
func (b *Builder) vecTable(serviceName string) string {
	return b.IndexTable(serviceName) + "_vec_idx"
}

// BuildAll creates one search service per distinct service name across the
// given document types. Types sharing a service land in the same index.
func (b *Builder) BuildAll(ctx context.Context, docTypes []string) (map[string]int, error) {
	timer := logging.StartTimer(logging.CategorySearch, "BuildAll")
	defer timer.StopWithInfo()

	byService := make(map[string][]string)
	for _, id := range docTypes {
		dt, err := config.DocumentTypeFor(id)
		if err != nil {
			return nil, err
		}
		byService[dt.SearchService] = append(byService[dt.SearchService], id)
	}

	services := make([]string, 0, len(byService))
	for name := range byService {
		services = append(services, name)
	}
	sort.Strings(services)

	counts := make(map[string]int, len(services))
	for _, service := range services {
		n, err := b.Build(ctx, service, byService[service])
		if err != nil {
			return counts, fmt.Errorf("build service %s: %w", service, err)
		}
		counts[service] = n
	}
	return counts, nil
}

// Build creates or refreshes one search service index from the corpus
// tables of its document types, then registers it.
func (b *Builder) Build(ctx context.Context, serviceName string, docTypes []string) (int, error) {
	index := b.IndexTable(serviceName)

	attrs := b.attributeColumns(docTypes)
	if err := b.createIndexTable(index, attrs); err != nil {
		return 0, err
	}
	if _, err := b.store.Exec("DELETE FROM " + index); err != nil {
		return 0, err
	}

	total := 0
	for _, id := range docTypes {
		dt, err := config.DocumentTypeFor(id)
		if err != nil {
			return total, err
		}
		n, err := b.indexCorpus(ctx, index, attrs, dt, id)
		if err != nil {
			return total, err
		}
		total += n
	}

	if b.vectorExt && b.engine != nil {
		if err := b.buildVectorIndex(ctx, serviceName); err != nil {
			logging.Get(logging.CategorySearch).Warn(
				"Vector index for %s failed, keyword fallback stays active: %v", serviceName, err)
		}
	}

	if err := b.register(serviceName, index); err != nil {
		return total, err
	}
	logging.Search("Search service %s indexed %d documents from %v", serviceName, total, docTypes)
	return total, nil
}

// attributeColumns merges linkage and doc-type attributes for every type a
// service covers, deduplicated in stable order.
func (b *Builder) attributeColumns(docTypes []string) []string {
	seen := make(map[string]bool)
	var attrs []string
	add := func(cols []string) {
		for _, c := range cols {
			if !seen[c] {
				seen[c] = true
				attrs = append(attrs, c)
			}
		}
	}
	for _, id := range docTypes {
		dt, err := config.DocumentTypeFor(id)
		if err != nil {
			continue
		}
		add(linkageAttributes[dt.LinkageLevel])
		add(docTypeAttributes[id])
	}
	return attrs
}

func (b *Builder) createIndexTable(index string, attrs []string) error {
	cols := []string{
		"document_id TEXT PRIMARY KEY",
		"doc_type TEXT NOT NULL",
		"document_title TEXT NOT NULL",
		"document_text TEXT NOT NULL",
		"document_date TEXT",
	}
	for _, a := range attrs {
		cols = append(cols, a+" TEXT")
	}
	cols = append(cols, "embedding BLOB")

	_, err := b.store.Exec(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		index, strings.Join(cols, ", ")))
	return err
}

// indexCorpus copies one doc type's corpus rows into the service index.
func (b *Builder) indexCorpus(ctx context.Context, index string, attrs []string, dt config.DocumentType, docType string) (int, error) {
	corpus := b.store.Table("curated", dt.CorpusName)

	selectCols := []string{"document_id", "doc_type", "document_title", "document_text", "document_date"}
	insertCols := append([]string{}, selectCols...)
	for _, a := range attrs {
		insertCols = append(insertCols, a)
		if b.docTypeHasAttr(dt, docType, a) {
			selectCols = append(selectCols, a)
		} else {
			selectCols = append(selectCols, "NULL")
		}
	}

	res, err := b.store.Exec(fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s",
		index, strings.Join(insertCols, ", "), strings.Join(selectCols, ", "), corpus))
	if err != nil {
		return 0, fmt.Errorf("index corpus %s: %w", corpus, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (b *Builder) docTypeHasAttr(dt config.DocumentType, docType, attr string) bool {
	for _, a := range linkageAttributes[dt.LinkageLevel] {
		if a == attr {
			return true
		}
	}
	for _, a := range docTypeAttributes[docType] {
		if a == attr {
			return true
		}
	}
	return false
}

// register records the service in the AI registry the teardown reads.
func (b *Builder) register(serviceName, index string) error {
	registry := b.store.Table("ai", "SEARCH_SERVICES")
	_, err := b.store.Exec(fmt.Sprintf(
		`INSERT OR REPLACE INTO %s (service_name, table_name, warehouse, target_lag, created_at)
		 VALUES (?, ?, ?, ?, datetime('now'))`, registry),
		serviceName, index, b.cfg.Warehouses.Search.Name, b.cfg.Warehouses.Search.TargetLag)
	return err
}
