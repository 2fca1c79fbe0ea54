package search

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"samforge/internal/logging"
)

// Result is one search hit.
type Result struct {
	DocumentID string
	DocType    string
	Title      string
	Snippet    string
	Score      float64
	Attributes map[string]string
}

const snippetLen = 240

// Query searches one service. Filters are attribute-column equality
// matches; limit defaults to 10. Vector search is used when the service
// was indexed with embeddings, keyword scoring otherwise.
func (b *Builder) Query(ctx context.Context, serviceName, text string, filters map[string]string, limit int) ([]Result, error) {
	timer := logging.StartTimer(logging.CategorySearch, "Query")
	defer timer.Stop()

	if limit <= 0 {
		limit = 10
	}
	index := b.IndexTable(serviceName)

	registry := b.store.Table("ai", "SEARCH_SERVICES")
	var registered string
	err := b.store.QueryRow(fmt.Sprintf(
		"SELECT table_name FROM %s WHERE service_name = ?", registry), serviceName).Scan(&registered)
	if err != nil {
		return nil, fmt.Errorf("unknown search service: %s", serviceName)
	}

	attrs, err := b.indexAttributes(index)
	if err != nil {
		return nil, err
	}
	for col := range filters {
		if !attrs[col] {
			return nil, fmt.Errorf("service %s has no attribute %q", serviceName, col)
		}
	}

	if b.vectorExt && b.engine != nil && b.hasVectors(serviceName) {
		results, err := b.vectorQuery(ctx, serviceName, text, filters, attrs, limit)
		if err == nil {
			return results, nil
		}
		logging.Get(logging.CategorySearch).Warn(
			"Vector query on %s failed, falling back to keywords: %v", serviceName, err)
	}
	return b.keywordQuery(index, text, filters, attrs, limit)
}

// indexAttributes lists the filterable attribute columns of an index table.
func (b *Builder) indexAttributes(index string) (map[string]bool, error) {
	rows, err := b.store.Query(fmt.Sprintf("PRAGMA table_info(%s)", index))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fixed := map[string]bool{
		"document_id": true, "doc_type": true, "document_title": true,
		"document_text": true, "document_date": true, "embedding": true,
	}
	attrs := make(map[string]bool)
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		if !fixed[name] {
			attrs[name] = true
		}
	}
	return attrs, rows.Err()
}

func (b *Builder) hasVectors(serviceName string) bool {
	var n int
	err := b.store.QueryRow(fmt.Sprintf(
		"SELECT COUNT(*) FROM %s", b.vecTable(serviceName))).Scan(&n)
	return err == nil && n > 0
}

// vectorQuery ranks by cosine distance against the vec0 side table.
func (b *Builder) vectorQuery(ctx context.Context, serviceName, text string, filters map[string]string, attrs map[string]bool, limit int) ([]Result, error) {
	queryVec, err := b.engine.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	index := b.IndexTable(serviceName)
	vecIdx := b.vecTable(serviceName)

	where, args := filterClause(filters, "i.")
	args = append([]interface{}{encodeFloat32Blob(queryVec)}, args...)
	args = append(args, limit)

	sql := fmt.Sprintf(`
		SELECT i.document_id, i.doc_type, i.document_title, i.document_text,
		       vec_distance_cosine(v.embedding, ?) AS distance %s
		FROM %s v
		JOIN %s i ON i.document_id = v.document_id
		%s
		ORDER BY distance ASC
		LIMIT ?`, attrSelect(attrs, "i."), vecIdx, index, where)

	rows, err := b.store.Query(sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		r, distance, err := scanResult(rows, attrs)
		if err != nil {
			return nil, err
		}
		r.Score = 1.0 - distance
		results = append(results, r)
	}
	return results, rows.Err()
}

// keywordQuery scores documents by how many query terms they contain.
func (b *Builder) keywordQuery(index, text string, filters map[string]string, attrs map[string]bool, limit int) ([]Result, error) {
	terms := queryTerms(text)
	if len(terms) == 0 {
		return nil, fmt.Errorf("empty query")
	}

	var scoreParts []string
	var args []interface{}
	for _, term := range terms {
		scoreParts = append(scoreParts,
			"(CASE WHEN lower(document_text) LIKE ? THEN 1 ELSE 0 END)")
		args = append(args, "%"+term+"%")
	}
	score := strings.Join(scoreParts, " + ")

	where, filterArgs := filterClause(filters, "")
	args = append(args, filterArgs...)
	args = append(args, limit)

	sql := fmt.Sprintf(`
		SELECT document_id, doc_type, document_title, document_text,
		       (%s) AS score %s
		FROM %s
		%s
		ORDER BY score DESC, document_date DESC
		LIMIT ?`, score, attrSelect(attrs, ""), index, where)

	rows, err := b.store.Query(sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	maxScore := float64(len(terms))
	var results []Result
	for rows.Next() {
		r, raw, err := scanResult(rows, attrs)
		if err != nil {
			return nil, err
		}
		if raw == 0 {
			continue // no term matched
		}
		r.Score = raw / maxScore
		results = append(results, r)
	}
	return results, rows.Err()
}

// scanResult reads the fixed columns, the score/distance column, then the
// attribute columns in sorted order, matching attrSelect.
func scanResult(rows interface {
	Scan(dest ...interface{}) error
}, attrs map[string]bool) (Result, float64, error) {
	r := Result{Attributes: make(map[string]string)}
	var text string
	var metric float64

	names := sortedAttrs(attrs)
	dest := []interface{}{&r.DocumentID, &r.DocType, &r.Title, &text, &metric}
	values := make([]sql.NullString, len(names))
	for i := range names {
		dest = append(dest, &values[i])
	}
	if err := rows.Scan(dest...); err != nil {
		return r, 0, err
	}

	for i, name := range names {
		if values[i].Valid {
			r.Attributes[name] = values[i].String
		}
	}
	r.Snippet = snippet(text)
	return r, metric, nil
}

func attrSelect(attrs map[string]bool, prefix string) string {
	names := sortedAttrs(attrs)
	if len(names) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, n := range names {
		sb.WriteString(", ")
		sb.WriteString(prefix + n)
	}
	return sb.String()
}

func sortedAttrs(attrs map[string]bool) []string {
	names := make([]string, 0, len(attrs))
	for n := range attrs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func filterClause(filters map[string]string, prefix string) (string, []interface{}) {
	if len(filters) == 0 {
		return "", nil
	}
	cols := make([]string, 0, len(filters))
	for col := range filters {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var conds []string
	var args []interface{}
	for _, col := range cols {
		conds = append(conds, prefix+col+" = ?")
		args = append(args, filters[col])
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func queryTerms(text string) []string {
	var terms []string
	for _, f := range strings.Fields(strings.ToLower(text)) {
		f = strings.Trim(f, ".,;:!?()[]\"'")
		if len(f) > 1 {
			terms = append(terms, f)
		}
	}
	return terms
}

func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= snippetLen {
		return text
	}
	cut := strings.LastIndex(text[:snippetLen], " ")
	if cut <= 0 {
		cut = snippetLen
	}
	return text[:cut] + "..."
}
