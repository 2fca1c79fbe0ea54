package hydrate

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"samforge/internal/config"
	"samforge/internal/logging"
)

// Context holds placeholder values for one document. Keys starting with an
// underscore are internal and never substituted into templates.
type Context map[string]interface{}

// EntityID returns the linked entity id, or nil for global documents.
func (c Context) EntityID() interface{} {
	for _, key := range []string{"SECURITY_ID", "ISSUER_ID", "PORTFOLIO_ID"} {
		if v, ok := c[key]; ok {
			return v
		}
	}
	return nil
}

// Num reads a numeric context value.
func (c Context) Num(key string) (float64, bool) {
	switch v := c[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// entity is one hydration target.
type entity struct {
	id        int
	ticker    string
	name      string
	sector    string
	portfolio config.DemoPortfolio
}

// entitiesFor enumerates hydration targets by linkage level. Security and
// issuer types cover the demo-ordered tickers first; portfolio types cover
// the flagged demo portfolios; global types get a single synthetic entity.
func (e *Engine) entitiesFor(docType string, dt config.DocumentType) ([]entity, error) {
	switch dt.LinkageLevel {
	case config.LinkageSecurity, config.LinkageIssuer:
		tickers := coveredTickers(dt.CoverageCount)
		companies := config.DemoCompanies()
		entities := make([]entity, 0, len(tickers))
		for _, t := range tickers {
			c := companies[t]
			entities = append(entities, entity{
				id:     issuerID(t),
				ticker: t,
				name:   c.CompanyName,
				sector: c.Sector,
			})
		}
		return entities, nil

	case config.LinkagePortfolio:
		var entities []entity
		for i, p := range config.DemoPortfolios() {
			if !p.IsDemoPortfolio {
				continue
			}
			entities = append(entities, entity{id: i + 1, name: p.Name, portfolio: p})
			if len(entities) == dt.CoverageCount {
				break
			}
		}
		return entities, nil

	case config.LinkageGlobal:
		return []entity{{}}, nil

	default:
		return nil, fmt.Errorf("unknown linkage level %q for %s", dt.LinkageLevel, docType)
	}
}

// coveredTickers returns n tickers: demo-ordered first, then the rest of the
// roster in sorted order.
func coveredTickers(n int) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range config.OrderedDemoTickers() {
		if len(out) == n {
			return out
		}
		seen[t] = true
		out = append(out, t)
	}
	for _, t := range config.CompanyTickers("") {
		if len(out) == n {
			return out
		}
		if !seen[t] {
			out = append(out, t)
		}
	}
	return out
}

// issuerID numbers tickers in roster-sorted order starting at 1, matching
// the generated dimension keys.
func issuerID(ticker string) int {
	for i, t := range config.CompanyTickers("") {
		if t == ticker {
			return i + 1
		}
	}
	return 0
}

// buildContext assembles the full placeholder context for one document:
// entity attributes, anchored dates, provider attribution, tier-1 sampled
// numerics, and (for portfolios) tier-2 metrics derived from the warehouse.
func (e *Engine) buildContext(docType string, dt config.DocumentType, ent entity, docNum int) (Context, error) {
	c := Context{
		"_doc_type": docType,
		"_doc_num":  docNum,
		"DOC_TYPE":  docType,
	}

	switch dt.LinkageLevel {
	case config.LinkageSecurity:
		c["SECURITY_ID"] = ent.id
		c["TICKER"] = ent.ticker
		c["COMPANY_NAME"] = ent.name
		c["SECTOR"] = ent.sector
	case config.LinkageIssuer:
		c["ISSUER_ID"] = ent.id
		c["TICKER"] = ent.ticker
		c["COMPANY_NAME"] = ent.name
		c["SECTOR"] = ent.sector
	case config.LinkagePortfolio:
		c["PORTFOLIO_ID"] = ent.id
		c["PORTFOLIO_NAME"] = ent.name
		c["BENCHMARK"] = ent.portfolio.Benchmark
		c["STRATEGY"] = ent.portfolio.Strategy
		c["AUM_BILLIONS"] = round2(ent.portfolio.AUMUSD / 1e9)
	}

	e.addDates(c, docType, ent, docNum)
	e.addProviders(c, docType, ent, docNum)
	e.addTier1Numerics(c, docType, ent)
	if dt.LinkageLevel == config.LinkagePortfolio {
		e.addTier2PortfolioMetrics(c, ent.id)
	}
	return c, nil
}

// addDates anchors every document date to the price anchor so generated
// documents never reference dates the market data does not cover.
func (e *Engine) addDates(c Context, docType string, ent entity, docNum int) {
	// Spread documents over the 90 days before the anchor, deterministically.
	offset := int(hashIndex(90, fmt.Sprintf("%d:%s:%d:date", ent.id, docType, docNum), e.cfg.Generation.RNGSeed))
	docDate := e.anchor.AddDate(0, 0, -offset)

	c["DOCUMENT_DATE"] = docDate.Format("2006-01-02")
	c["REPORT_DATE"] = docDate.Format("January 2, 2006")
	c["FISCAL_QUARTER"] = fmt.Sprintf("Q%d %d", (int(docDate.Month())-1)/3+1, docDate.Year())
	c["YEAR"] = docDate.Year()
	c["NEXT_YEAR"] = docDate.Year() + 1
}

// addProviders fills attribution placeholders with fictional providers.
func (e *Engine) addProviders(c Context, docType string, ent entity, docNum int) {
	seed := e.cfg.Generation.RNGSeed

	switch docType {
	case "broker_research":
		brokers := e.rules.FictionalBrokers()
		c["BROKER_NAME"] = brokers[hashIndex(len(brokers), fmt.Sprintf("%d:broker", ent.id), seed)]
		c["ANALYST_NAME"] = fmt.Sprintf("Analyst_%02d", hashIndex(100, fmt.Sprintf("%d:analyst", ent.id), seed)+1)
		c["RATING"] = pickWeighted(ratingDist, fmt.Sprintf("%d:%d:rating", ent.id, docNum), seed)

	case "ngo_reports":
		categories := []string{"environmental", "social", "governance"}
		category := categories[hashIndex(len(categories), fmt.Sprintf("%d:%d:category", ent.id, docNum), seed)]
		ngos := e.rules.FictionalNGOs()[category]
		if len(ngos) == 0 {
			ngos = []string{"Global Sustainability Watch"}
		}
		c["_category"] = category
		c["CATEGORY"] = category
		c["NGO_NAME"] = ngos[hashIndex(len(ngos), fmt.Sprintf("%d:ngo:%s", ent.id, category), seed)]
		c["SEVERITY_LEVEL"] = pickWeighted(severityDist, fmt.Sprintf("%d:%d:severity", ent.id, docNum), seed)

	case "engagement_notes":
		types := config.DocumentTypes()[docType].MeetingTypes
		if e.issuerHasBreach(ent.id) {
			c["MEETING_TYPE"] = "Compliance Discussion"
		} else {
			// Exclude the compliance route for clean issuers.
			var clean []string
			for _, mt := range types {
				if mt != "Compliance Discussion" {
					clean = append(clean, mt)
				}
			}
			if len(clean) == 0 {
				clean = types
			}
			c["MEETING_TYPE"] = clean[hashIndex(len(clean), fmt.Sprintf("%d:%d:meeting", ent.id, docNum), seed)]
		}

	case "press_releases":
		cities := []string{"New York", "San Francisco", "Boston", "Seattle", "London", "Frankfurt"}
		c["CITY"] = cities[hashIndex(len(cities), fmt.Sprintf("%d:city", ent.id), seed)]
		c["CEO_NAME"] = fmt.Sprintf("CEO_%02d", hashIndex(100, fmt.Sprintf("%d:ceo", ent.id), seed))
		c["CFO_NAME"] = fmt.Sprintf("CFO_%02d", hashIndex(100, fmt.Sprintf("%d:cfo", ent.id), seed))
		events := []string{"earnings", "product_launch", "acquisition", "leadership"}
		c["EVENT_TYPE"] = events[hashIndex(len(events), fmt.Sprintf("%d:%d:event", ent.id, docNum), seed)]
	}
}

var ratingDist = []weighted{
	{"Strong Buy", 0.10}, {"Buy", 0.25}, {"Hold", 0.45}, {"Sell", 0.15}, {"Strong Sell", 0.05},
}

var severityDist = []weighted{
	{"High", 0.20}, {"Medium", 0.40}, {"Low", 0.40},
}

type weighted struct {
	value  string
	weight float64
}

// pickWeighted samples a weighted distribution deterministically.
func pickWeighted(dist []weighted, key string, seed int64) string {
	r := newHashRand(key, seed).Float64()
	cumulative := 0.0
	for _, w := range dist {
		cumulative += w.weight
		if r <= cumulative {
			return w.value
		}
	}
	return dist[len(dist)-1].value
}

// addTier1Numerics samples numeric placeholders inside the configured
// bounds. Values already present in the context are never overwritten.
func (e *Engine) addTier1Numerics(c Context, docType string, ent entity) {
	sector, _ := c["SECTOR"].(string)
	bounds := e.rules.NumericBounds(docType, sector)

	for name, b := range bounds {
		if v, ok := c[name]; ok && v != nil {
			continue
		}
		r := newHashRand(fmt.Sprintf("%d:%s:%s", ent.id, docType, name), e.cfg.Generation.RNGSeed)
		value := b.Min + r.Float64()*(b.Max-b.Min)
		if strings.Contains(name, "PCT") || strings.Contains(name, "MARGIN") ||
			strings.Contains(name, "GROWTH") || strings.Contains(name, "RATIO") ||
			strings.Contains(name, "RATE") {
			c[name] = round1(value)
		} else {
			c[name] = round2(value)
		}
	}
}

// addTier2PortfolioMetrics derives real metrics from the generated position
// data. Failures degrade to tier-1 values with a warning, matching the
// pipeline's lenient posture.
func (e *Engine) addTier2PortfolioMetrics(c Context, portfolioID int) {
	positions := e.store.Table("curated", "FACT_POSITION_DAILY_ABOR")
	securities := e.store.Table("curated", "DIM_SECURITY")

	rows, err := e.store.Query(fmt.Sprintf(
		`SELECT s.security_name, p.weight * 100
		 FROM %s p JOIN %s s ON p.security_id = s.security_id
		 WHERE p.portfolio_id = ?
		   AND p.position_date = (SELECT MAX(position_date) FROM %s)
		 ORDER BY p.market_value_usd DESC LIMIT 10`, positions, securities, positions),
		portfolioID)
	if err != nil {
		logging.HydrationWarn("Tier 2 query failed for portfolio %d: %v", portfolioID, err)
		return
	}
	defer rows.Close()

	var top10 float64
	first := true
	for rows.Next() {
		var name string
		var weight float64
		if err := rows.Scan(&name, &weight); err != nil {
			logging.HydrationWarn("Tier 2 scan failed: %v", err)
			return
		}
		top10 += weight
		if first {
			c["LARGEST_POSITION_NAME"] = name
			c["LARGEST_POSITION_WEIGHT"] = round2(weight)
			if weight > e.cfg.Compliance.ConcentrationWarning*100 {
				c["CONCENTRATION_WARNING"] = "YES"
			} else {
				c["CONCENTRATION_WARNING"] = "NO"
			}
			first = false
		}
	}
	if !first {
		c["TOP10_WEIGHT_PCT"] = round1(top10)
	}
}

// issuerHasBreach reports whether the issuer has a recorded concentration
// finding, which routes its engagement notes to Compliance Discussion.
func (e *Engine) issuerHasBreach(issuerID int) bool {
	table := e.store.Table("curated", "FACT_COMPLIANCE_BREACH")
	var n int
	err := e.store.QueryRow(
		"SELECT COUNT(*) FROM "+table+" WHERE security_id = ?", issuerID).Scan(&n)
	return err == nil && n > 0
}

// hashIndex maps a key deterministically into [0, n).
func hashIndex(n int, key string, seed int64) int {
	if n <= 0 {
		return 0
	}
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%d", key, seed)))
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(n))
}

// newHashRand seeds a private RNG from a key, stable across processes.
func newHashRand(key string, seed int64) *rand.Rand {
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%d", key, seed)))
	return rand.New(rand.NewSource(int64(binary.BigEndian.Uint64(sum[:8]) & math.MaxInt64)))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
