package hydrate

import (
	"fmt"

	"github.com/google/uuid"

	"samforge/internal/config"
)

// createRawTable makes the RAW document table for a doc type. One wide
// layout serves every type; golden-record columns the type does not use
// stay null.
func (e *Engine) createRawTable(dt config.DocumentType) error {
	table := e.store.Table("raw", dt.TableName)
	_, err := e.store.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		document_id TEXT PRIMARY KEY,
		doc_type TEXT NOT NULL,
		linkage_level TEXT NOT NULL,
		document_title TEXT NOT NULL,
		document_text TEXT NOT NULL,
		document_date TEXT,
		security_id INTEGER,
		issuer_id INTEGER,
		portfolio_id INTEGER,
		ticker TEXT,
		company_name TEXT,
		portfolio_name TEXT,
		broker_name TEXT,
		analyst_name TEXT,
		rating TEXT,
		price_target REAL,
		ngo_name TEXT,
		category TEXT,
		severity_level TEXT,
		meeting_type TEXT,
		event_type TEXT,
		fiscal_quarter TEXT,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`, table))
	return err
}

// writeDocument inserts one rendered document with its linkage and
// golden-record columns.
func (e *Engine) writeDocument(dt config.DocumentType, docType string, c Context, rendered string) error {
	table := e.store.Table("raw", dt.TableName)

	title, _ := c["DOCUMENT_TITLE"].(string)
	if len(title) > 500 {
		title = title[:500]
	}

	_, err := e.store.Exec(fmt.Sprintf(`INSERT INTO %s (
		document_id, doc_type, linkage_level, document_title, document_text, document_date,
		security_id, issuer_id, portfolio_id, ticker, company_name, portfolio_name,
		broker_name, analyst_name, rating, price_target,
		ngo_name, category, severity_level, meeting_type, event_type, fiscal_quarter
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, table),
		uuid.NewString(), docType, dt.LinkageLevel, title, rendered, c["DOCUMENT_DATE"],
		c["SECURITY_ID"], c["ISSUER_ID"], c["PORTFOLIO_ID"],
		c["TICKER"], c["COMPANY_NAME"], c["PORTFOLIO_NAME"],
		c["BROKER_NAME"], c["ANALYST_NAME"], c["RATING"], c["PRICE_TARGET"],
		c["NGO_NAME"], c["CATEGORY"], c["SEVERITY_LEVEL"],
		c["MEETING_TYPE"], c["EVENT_TYPE"], c["FISCAL_QUARTER"])
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// PromoteToCorpus copies RAW documents into the CURATED corpus table the
// search services index.
func (e *Engine) PromoteToCorpus(docType string) (int, error) {
	dt, err := config.DocumentTypeFor(docType)
	if err != nil {
		return 0, err
	}
	raw := e.store.Table("raw", dt.TableName)
	corpus := e.store.Table("curated", dt.CorpusName)

	if _, err := e.store.Exec(fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s AS SELECT * FROM %s WHERE 0`, corpus, raw)); err != nil {
		return 0, err
	}
	if _, err := e.store.Exec("DELETE FROM " + corpus); err != nil {
		return 0, err
	}
	res, err := e.store.Exec(fmt.Sprintf("INSERT INTO %s SELECT * FROM %s", corpus, raw))
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
