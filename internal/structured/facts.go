package structured

import (
	"context"
	"fmt"
	"time"

	"samforge/internal/config"
	"samforge/internal/logging"
)

// Demo ESG overrides: issuers whose scores tell the demo story. Everything
// else gets seeded scores in a healthy band.
var esgOverrides = map[string]struct {
	environmental, social, governance float64
	rating                            string
}{
	"XOM":  {3.1, 5.4, 6.2, "BB"},
	"CMC":  {4.8, 6.1, 6.8, "BBB"},
	"RBBN": {6.2, 5.2, 4.9, "BBB"},
	"NEE":  {8.9, 7.4, 7.8, "AA"},
}

// GeneratePositions writes FACT_POSITION_DAILY_ABOR: per-portfolio holdings
// snapshots over the trailing weekdays ending at the price anchor. Tickers
// flagged as large positions get prominent weights so concentration checks
// have something to find.
func (g *Generator) GeneratePositions(ctx context.Context) error {
	if g.priceAnchor.IsZero() {
		return fmt.Errorf("price anchor not set; generate prices first")
	}

	table := g.store.Table("curated", "FACT_POSITION_DAILY_ABOR")
	if _, err := g.store.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		portfolio_id INTEGER NOT NULL,
		security_id INTEGER NOT NULL,
		position_date TEXT NOT NULL,
		quantity REAL NOT NULL,
		market_value_usd REAL NOT NULL,
		weight REAL NOT NULL,
		PRIMARY KEY (portfolio_id, security_id, position_date)
	)`, table)); err != nil {
		return err
	}

	tickers := config.CompanyTickers("")
	large := make(map[string]bool)
	for _, t := range config.LargePositionTickers() {
		large[t] = true
	}

	// Large positions sit above the 7% breach threshold by construction;
	// the remainder of the book splits evenly.
	weights := make(map[string]float64, len(tickers))
	remaining := 1.0
	for _, t := range tickers {
		if large[t] {
			weights[t] = 0.075
			remaining -= 0.075
		}
	}
	small := remaining / float64(len(tickers)-len(config.LargePositionTickers()))
	for _, t := range tickers {
		if !large[t] {
			weights[t] = small
		}
	}

	days := positionDates(g.priceAnchor, g.volume(22))
	rows := 0
	for pid, p := range config.DemoPortfolios() {
		for _, d := range days {
			for _, ticker := range tickers {
				price, err := g.ClosePriceOn(ticker, d)
				if err != nil {
					return err
				}
				mv := p.AUMUSD * weights[ticker]
				qty := mv / price
				if _, err := g.store.Exec(
					fmt.Sprintf(`INSERT OR REPLACE INTO %s
					 (portfolio_id, security_id, position_date, quantity, market_value_usd, weight)
					 VALUES (?, ?, ?, ?, ?, ?)`, table),
					pid+1, IssuerIDFor(ticker), d.Format(dateLayout),
					qty, mv, weights[ticker]); err != nil {
					return fmt.Errorf("position %s: %w", ticker, err)
				}
				rows++
			}
		}
	}
	logging.Structured("Generated %d position rows over %d days", rows, len(days))
	return nil
}

// GenerateTransactions writes FACT_TRANSACTION: trades dated in the 90 days
// before the price anchor.
func (g *Generator) GenerateTransactions(ctx context.Context) error {
	table := g.store.Table("curated", "FACT_TRANSACTION")
	if _, err := g.store.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		transaction_id INTEGER PRIMARY KEY AUTOINCREMENT,
		portfolio_id INTEGER NOT NULL,
		security_id INTEGER NOT NULL,
		trade_date TEXT NOT NULL,
		side TEXT NOT NULL,
		quantity REAL NOT NULL,
		price REAL NOT NULL,
		gross_amount_usd REAL NOT NULL
	)`, table)); err != nil {
		return err
	}

	tickers := config.CompanyTickers("")
	perPortfolio := g.volume(40)
	rows := 0
	for pid := range config.DemoPortfolios() {
		for i := 0; i < perPortfolio; i++ {
			ticker := tickers[g.rng.Intn(len(tickers))]
			d := g.priceAnchor.AddDate(0, 0, -g.rng.Intn(90))
			price, err := g.ClosePriceOn(ticker, d)
			if err != nil {
				// Date precedes the generated history; clamp to the oldest price.
				price, err = g.oldestPrice(ticker)
				if err != nil {
					return err
				}
			}
			side := "BUY"
			if g.rng.Float64() < 0.45 {
				side = "SELL"
			}
			qty := float64(100 * (1 + g.rng.Intn(500)))
			if _, err := g.store.Exec(
				fmt.Sprintf(`INSERT INTO %s
				 (portfolio_id, security_id, trade_date, side, quantity, price, gross_amount_usd)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`, table),
				pid+1, IssuerIDFor(ticker), d.Format(dateLayout),
				side, qty, price, round2(qty*price)); err != nil {
				return err
			}
			rows++
		}
	}
	logging.Structured("Generated %d transactions", rows)
	return nil
}

// GenerateClientFlows writes FACT_CLIENT_FLOW: twelve months of net flows
// ending at the anchor month. At-risk clients trend increasingly negative;
// new clients show onboarding inflows in recent months only.
func (g *Generator) GenerateClientFlows(ctx context.Context) error {
	table := g.store.Table("curated", "FACT_CLIENT_FLOW")
	if _, err := g.store.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		client_id INTEGER NOT NULL,
		flow_month TEXT NOT NULL,
		net_flow_usd REAL NOT NULL,
		flow_type TEXT NOT NULL,
		PRIMARY KEY (client_id, flow_month)
	)`, table)); err != nil {
		return err
	}

	months := 12
	rows := 0
	for _, c := range config.AllClientsSorted() {
		base := (c.AUMMinUSD + c.AUMMaxUSD) / 2
		for m := 0; m < months; m++ {
			// m counts back from the anchor month: m=0 is most recent.
			month := g.priceAnchor.AddDate(0, -m, 0).Format("2006-01")
			var flow float64
			flowType := "net"
			switch c.Category {
			case "at_risk":
				// Outflows that worsen toward the present.
				flow = -base * (0.005 + 0.004*float64(months-m)) * (0.8 + 0.4*g.rng.Float64())
				flowType = "redemption"
			case "new":
				if m >= 3 {
					continue // not yet onboarded
				}
				flow = base * (0.15 + 0.1*g.rng.Float64())
				flowType = "onboarding"
			default:
				flow = base * (g.rng.Float64()*0.02 - 0.008)
			}
			if _, err := g.store.Exec(
				fmt.Sprintf(`INSERT OR REPLACE INTO %s
				 (client_id, flow_month, net_flow_usd, flow_type) VALUES (?, ?, ?, ?)`, table),
				c.Priority, month, round2(flow), flowType); err != nil {
				return err
			}
			rows++
		}
	}
	logging.Structured("Generated %d client flow rows", rows)
	return nil
}

// GenerateESGScores writes FACT_ESG_SCORES per issuer, applying the demo
// overrides that drive the ESG Guardian scenario.
func (g *Generator) GenerateESGScores(ctx context.Context) error {
	table := g.store.Table("curated", "FACT_ESG_SCORES")
	if _, err := g.store.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		issuer_id INTEGER PRIMARY KEY,
		environmental_score REAL NOT NULL,
		social_score REAL NOT NULL,
		governance_score REAL NOT NULL,
		overall_rating TEXT NOT NULL,
		score_date TEXT NOT NULL
	)`, table)); err != nil {
		return err
	}

	scoreDate := g.priceAnchor.Format(dateLayout)
	for _, ticker := range config.CompanyTickers("") {
		env := 6.0 + g.rng.Float64()*3
		soc := 6.0 + g.rng.Float64()*3
		gov := 6.0 + g.rng.Float64()*3
		rating := "A"
		if o, ok := esgOverrides[ticker]; ok {
			env, soc, gov, rating = o.environmental, o.social, o.governance, o.rating
		}
		if _, err := g.store.Exec(
			fmt.Sprintf(`INSERT OR REPLACE INTO %s
			 (issuer_id, environmental_score, social_score, governance_score, overall_rating, score_date)
			 VALUES (?, ?, ?, ?, ?, ?)`, table),
			IssuerIDFor(ticker), round2(env), round2(soc), round2(gov), rating, scoreDate); err != nil {
			return err
		}
	}
	logging.Structured("Generated ESG scores for %d issuers", len(config.DemoCompanies()))
	return nil
}

// GenerateComplianceBreaches evaluates anchor-date position weights against
// the concentration thresholds and records warnings and breaches.
func (g *Generator) GenerateComplianceBreaches(ctx context.Context) error {
	table := g.store.Table("curated", "FACT_COMPLIANCE_BREACH")
	if _, err := g.store.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		breach_id INTEGER PRIMARY KEY AUTOINCREMENT,
		portfolio_id INTEGER NOT NULL,
		security_id INTEGER NOT NULL,
		breach_date TEXT NOT NULL,
		rule TEXT NOT NULL,
		severity TEXT NOT NULL,
		observed_weight REAL NOT NULL,
		threshold REAL NOT NULL
	)`, table)); err != nil {
		return err
	}

	positions := g.store.Table("curated", "FACT_POSITION_DAILY_ABOR")
	anchor := g.priceAnchor.Format(dateLayout)
	rows, err := g.store.Query(fmt.Sprintf(
		`SELECT portfolio_id, security_id, weight FROM %s WHERE position_date = ?`, positions),
		anchor)
	if err != nil {
		return err
	}
	type pos struct {
		portfolioID, securityID int
		weight                  float64
	}
	var all []pos
	for rows.Next() {
		var p pos
		if err := rows.Scan(&p.portfolioID, &p.securityID, &p.weight); err != nil {
			rows.Close()
			return err
		}
		all = append(all, p)
	}
	rows.Close()

	warn := g.cfg.Compliance.ConcentrationWarning
	breach := g.cfg.Compliance.ConcentrationBreach
	count := 0
	for _, p := range all {
		var severity string
		threshold := warn
		switch {
		case p.weight > breach:
			severity, threshold = "breach", breach
		case p.weight > warn:
			severity = "warning"
		default:
			continue
		}
		if _, err := g.store.Exec(
			fmt.Sprintf(`INSERT INTO %s
			 (portfolio_id, security_id, breach_date, rule, severity, observed_weight, threshold)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`, table),
			p.portfolioID, p.securityID, anchor,
			"single_issuer_concentration", severity, p.weight, threshold); err != nil {
			return err
		}
		count++
	}
	logging.Structured("Recorded %d compliance findings", count)
	return nil
}

func (g *Generator) oldestPrice(ticker string) (float64, error) {
	table := g.store.Table("market_data", "FACT_STOCK_PRICES")
	var price float64
	err := g.store.QueryRow(
		fmt.Sprintf(`SELECT close_price FROM %s WHERE ticker = ?
		 ORDER BY price_date ASC LIMIT 1`, table), ticker).Scan(&price)
	return price, err
}

// positionDates returns n weekdays ending at anchor, oldest first.
func positionDates(anchor time.Time, n int) []time.Time {
	var days []time.Time
	d := anchor
	for len(days) < n {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days = append(days, d)
		}
		d = d.AddDate(0, 0, -1)
	}
	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}
	return days
}
