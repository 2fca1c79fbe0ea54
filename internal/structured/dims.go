package structured

import (
	"context"
	"fmt"
	"sort"

	"samforge/internal/config"
	"samforge/internal/logging"
)

// Benchmarks referenced by the demo portfolios.
var benchmarks = []struct {
	ID   string
	Name string
}{
	{"NDX", "Nasdaq 100"},
	{"ACWI", "MSCI ACWI"},
	{"SPX", "S&P 500"},
}

// GenerateDimensions builds the CURATED dimension tables from the demo
// roster: issuers, securities, portfolios, clients, benchmarks.
func (g *Generator) GenerateDimensions(ctx context.Context) error {
	if err := g.createDimTables(); err != nil {
		return err
	}

	companies := config.DemoCompanies()
	tickers := config.CompanyTickers("")

	issuerTable := g.store.Table("curated", "DIM_ISSUER")
	securityTable := g.store.Table("curated", "DIM_SECURITY")
	for i, ticker := range tickers {
		c := companies[ticker]
		issuerID := i + 1
		if _, err := g.store.Exec(
			fmt.Sprintf(`INSERT OR REPLACE INTO %s
			 (issuer_id, company_name, cik, sector, tier) VALUES (?, ?, ?, ?, ?)`, issuerTable),
			issuerID, c.CompanyName, c.CIK, c.Sector, c.Tier); err != nil {
			return fmt.Errorf("issuer %s: %w", ticker, err)
		}
		if _, err := g.store.Exec(
			fmt.Sprintf(`INSERT OR REPLACE INTO %s
			 (security_id, ticker, issuer_id, security_name, asset_class, currency)
			 VALUES (?, ?, ?, ?, ?, ?)`, securityTable),
			issuerID, ticker, issuerID, c.CompanyName, "Equity", "USD"); err != nil {
			return fmt.Errorf("security %s: %w", ticker, err)
		}
	}

	portfolioTable := g.store.Table("curated", "DIM_PORTFOLIO")
	for i, p := range config.DemoPortfolios() {
		if _, err := g.store.Exec(
			fmt.Sprintf(`INSERT OR REPLACE INTO %s
			 (portfolio_id, portfolio_name, benchmark, aum_usd, strategy, inception_date,
			  base_currency, is_demo_portfolio, target_positions)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, portfolioTable),
			i+1, p.Name, p.Benchmark, p.AUMUSD, p.Strategy, p.InceptionDate,
			p.BaseCurrency, p.IsDemoPortfolio, p.TargetPositions); err != nil {
			return fmt.Errorf("portfolio %s: %w", p.Name, err)
		}
	}

	clientTable := g.store.Table("curated", "DIM_CLIENT")
	for _, c := range config.AllClientsSorted() {
		// AUM drawn inside the configured band, deterministic per seed.
		aum := c.AUMMinUSD + g.rng.Float64()*(c.AUMMaxUSD-c.AUMMinUSD)
		if _, err := g.store.Exec(
			fmt.Sprintf(`INSERT OR REPLACE INTO %s
			 (client_id, client_name, client_type, region, aum_usd, category)
			 VALUES (?, ?, ?, ?, ?, ?)`, clientTable),
			c.Priority, c.ClientName, c.ClientType, c.Region, aum, c.Category); err != nil {
			return fmt.Errorf("client %s: %w", c.ClientName, err)
		}
	}

	benchmarkTable := g.store.Table("curated", "DIM_BENCHMARK")
	for i, b := range benchmarks {
		if _, err := g.store.Exec(
			fmt.Sprintf(`INSERT OR REPLACE INTO %s
			 (benchmark_id, benchmark_code, benchmark_name) VALUES (?, ?, ?)`, benchmarkTable),
			i+1, b.ID, b.Name); err != nil {
			return fmt.Errorf("benchmark %s: %w", b.ID, err)
		}
	}

	logging.Structured("Dimensions: %d issuers, %d portfolios, %d clients, %d benchmarks",
		len(tickers), len(config.DemoPortfolios()), len(config.DemoClients()), len(benchmarks))
	return nil
}

// IssuerIDFor maps a ticker to its generated issuer/security id (tickers are
// numbered in sorted order starting at 1).
func IssuerIDFor(ticker string) int {
	tickers := config.CompanyTickers("")
	i := sort.SearchStrings(tickers, ticker)
	if i < len(tickers) && tickers[i] == ticker {
		return i + 1
	}
	return 0
}

func (g *Generator) createDimTables() error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			issuer_id INTEGER PRIMARY KEY,
			company_name TEXT NOT NULL,
			cik TEXT,
			sector TEXT NOT NULL,
			tier TEXT NOT NULL
		)`, g.store.Table("curated", "DIM_ISSUER")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			security_id INTEGER PRIMARY KEY,
			ticker TEXT NOT NULL UNIQUE,
			issuer_id INTEGER NOT NULL,
			security_name TEXT NOT NULL,
			asset_class TEXT NOT NULL,
			currency TEXT NOT NULL
		)`, g.store.Table("curated", "DIM_SECURITY")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			portfolio_id INTEGER PRIMARY KEY,
			portfolio_name TEXT NOT NULL UNIQUE,
			benchmark TEXT NOT NULL,
			aum_usd REAL NOT NULL,
			strategy TEXT NOT NULL,
			inception_date TEXT NOT NULL,
			base_currency TEXT NOT NULL,
			is_demo_portfolio INTEGER NOT NULL DEFAULT 0,
			target_positions INTEGER
		)`, g.store.Table("curated", "DIM_PORTFOLIO")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			client_id INTEGER PRIMARY KEY,
			client_name TEXT NOT NULL,
			client_type TEXT NOT NULL,
			region TEXT NOT NULL,
			aum_usd REAL NOT NULL,
			category TEXT NOT NULL
		)`, g.store.Table("curated", "DIM_CLIENT")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			benchmark_id INTEGER PRIMARY KEY,
			benchmark_code TEXT NOT NULL UNIQUE,
			benchmark_name TEXT NOT NULL
		)`, g.store.Table("curated", "DIM_BENCHMARK")),
	}
	for _, stmt := range stmts {
		if _, err := g.store.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
