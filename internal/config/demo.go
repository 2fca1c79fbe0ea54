package config

import "sort"

// =============================================================================
// DEMO ENTITY ROSTER - Companies, clients, and portfolios
// =============================================================================

// Company tiers: core companies are featured in demo scenarios, major
// companies provide portfolio diversity, additional fill out the universe.
const (
	TierCore       = "core"
	TierMajor      = "major"
	TierAdditional = "additional"
)

// DemoCompany describes one company in the demo universe.
type DemoCompany struct {
	Ticker       string `yaml:"ticker"`
	CompanyName  string `yaml:"company_name"`
	CIK          string `yaml:"cik"`
	Sector       string `yaml:"sector"`
	Tier         string `yaml:"tier"`
	DemoOrder    int    `yaml:"demo_order,omitempty"`    // priority order in demo portfolios, 0 = none
	PositionSize string `yaml:"position_size,omitempty"` // "large" for prominent display
}

// DemoClient describes one institutional client.
type DemoClient struct {
	ClientName string  `yaml:"client_name"`
	ClientType string  `yaml:"client_type"` // Pension, Endowment, Foundation, Insurance, Corporate, Family Office
	Region     string  `yaml:"region"`
	AUMMinUSD  float64 `yaml:"aum_min_usd"`
	AUMMaxUSD  float64 `yaml:"aum_max_usd"`
	Priority   int     `yaml:"priority"` // doubles as ClientID
	Category   string  `yaml:"category"` // standard, at_risk, new
}

// DemoPortfolio describes one managed portfolio.
type DemoPortfolio struct {
	Name            string  `yaml:"name"`
	Benchmark       string  `yaml:"benchmark"`
	AUMUSD          float64 `yaml:"aum_usd"`
	Strategy        string  `yaml:"strategy"`
	InceptionDate   string  `yaml:"inception_date"`
	BaseCurrency    string  `yaml:"base_currency"`
	IsDemoPortfolio bool    `yaml:"is_demo_portfolio"`
	TargetPositions int     `yaml:"target_positions"`
}

// DemoCompanies returns the demo company universe keyed by ticker.
func DemoCompanies() map[string]DemoCompany {
	return map[string]DemoCompany{
		"AAPL":  {Ticker: "AAPL", CompanyName: "APPLE INC.", CIK: "0000320193", Sector: "Information Technology", Tier: TierCore, DemoOrder: 1, PositionSize: "large"},
		"CMC":   {Ticker: "CMC", CompanyName: "COMMERCIAL METALS CO", CIK: "0000022444", Sector: "Materials", Tier: TierCore, DemoOrder: 2, PositionSize: "large"},
		"RBBN":  {Ticker: "RBBN", CompanyName: "RIBBON COMMUNICATIONS INC.", CIK: "0001708055", Sector: "Information Technology", Tier: TierCore, DemoOrder: 3, PositionSize: "large"},
		"MSFT":  {Ticker: "MSFT", CompanyName: "MICROSOFT CORP", CIK: "0000789019", Sector: "Information Technology", Tier: TierCore, DemoOrder: 4},
		"NVDA":  {Ticker: "NVDA", CompanyName: "NVIDIA CORP", CIK: "0001045810", Sector: "Information Technology", Tier: TierCore, DemoOrder: 5},
		"GOOGL": {Ticker: "GOOGL", CompanyName: "ALPHABET INC.", CIK: "0001652044", Sector: "Communication Services", Tier: TierCore, DemoOrder: 6},
		"TSM":   {Ticker: "TSM", CompanyName: "TAIWAN SEMICONDUCTOR MANUFACTURING CO LTD", CIK: "0001046179", Sector: "Information Technology", Tier: TierCore},
		"SNOW":  {Ticker: "SNOW", CompanyName: "SNOWFLAKE INC.", CIK: "0001640147", Sector: "Information Technology", Tier: TierCore},
		"ABT":   {Ticker: "ABT", CompanyName: "ABBOTT LABORATORIES", CIK: "0000001800", Sector: "Healthcare", Tier: TierMajor},
		"ADBE":  {Ticker: "ADBE", CompanyName: "ADOBE INC.", CIK: "0000796343", Sector: "Information Technology", Tier: TierMajor},
		"JPM":   {Ticker: "JPM", CompanyName: "JPMORGAN CHASE & CO", CIK: "0000019617", Sector: "Financials", Tier: TierMajor},
		"XOM":   {Ticker: "XOM", CompanyName: "EXXON MOBIL CORP", CIK: "0000034088", Sector: "Energy", Tier: TierMajor},
		"PG":    {Ticker: "PG", CompanyName: "PROCTER & GAMBLE CO", CIK: "0000080424", Sector: "Consumer Staples", Tier: TierMajor},
		"CAT":   {Ticker: "CAT", CompanyName: "CATERPILLAR INC.", CIK: "0000018230", Sector: "Industrials", Tier: TierMajor},
		"NEE":   {Ticker: "NEE", CompanyName: "NEXTERA ENERGY INC.", CIK: "0000753308", Sector: "Utilities", Tier: TierAdditional},
		"LIN":   {Ticker: "LIN", CompanyName: "LINDE PLC", CIK: "0001707925", Sector: "Materials", Tier: TierAdditional},
	}
}

// DemoClients returns the institutional client roster keyed by short name.
func DemoClients() map[string]DemoClient {
	return map[string]DemoClient{
		"meridian":           {ClientName: "Meridian Capital Partners", ClientType: "Pension", Region: "North America", AUMMinUSD: 400e6, AUMMaxUSD: 500e6, Priority: 1, Category: "standard"},
		"blackrock_pension":  {ClientName: "Blackrock Pension Trust", ClientType: "Pension", Region: "North America", AUMMinUSD: 350e6, AUMMaxUSD: 450e6, Priority: 2, Category: "standard"},
		"yale_endowment":     {ClientName: "Yale University Endowment", ClientType: "Endowment", Region: "North America", AUMMinUSD: 300e6, AUMMaxUSD: 400e6, Priority: 3, Category: "standard"},
		"gates_foundation":   {ClientName: "Gates Foundation Trust", ClientType: "Foundation", Region: "North America", AUMMinUSD: 250e6, AUMMaxUSD: 350e6, Priority: 4, Category: "standard"},
		"axa_insurance":      {ClientName: "AXA Insurance General Account", ClientType: "Insurance", Region: "Europe", AUMMinUSD: 200e6, AUMMaxUSD: 300e6, Priority: 5, Category: "standard"},
		"toyota_pension":     {ClientName: "Toyota Motor Pension Fund", ClientType: "Corporate", Region: "Asia Pacific", AUMMinUSD: 150e6, AUMMaxUSD: 250e6, Priority: 6, Category: "standard"},
		"rockefeller_family": {ClientName: "Rockefeller Family Office", ClientType: "Family Office", Region: "North America", AUMMinUSD: 100e6, AUMMaxUSD: 200e6, Priority: 7, Category: "standard"},
		"norway_sovereign":   {ClientName: "Norwegian Sovereign Wealth Fund", ClientType: "Pension", Region: "Europe", AUMMinUSD: 450e6, AUMMaxUSD: 500e6, Priority: 8, Category: "standard"},
		"pacific_pension":    {ClientName: "Pacific Coast Pension Fund", ClientType: "Pension", Region: "North America", AUMMinUSD: 180e6, AUMMaxUSD: 220e6, Priority: 9, Category: "at_risk"},
		"heritage_endowment": {ClientName: "Heritage College Endowment", ClientType: "Endowment", Region: "North America", AUMMinUSD: 120e6, AUMMaxUSD: 160e6, Priority: 10, Category: "at_risk"},
		"nordic_insurance":   {ClientName: "Nordic Mutual Insurance", ClientType: "Insurance", Region: "Europe", AUMMinUSD: 90e6, AUMMaxUSD: 140e6, Priority: 11, Category: "new"},
		"osaka_corporate":    {ClientName: "Osaka Industrial Pension", ClientType: "Corporate", Region: "Asia Pacific", AUMMinUSD: 80e6, AUMMaxUSD: 120e6, Priority: 12, Category: "new"},
	}
}

// DefaultDemoPortfolio is the portfolio featured in most demo scenarios.
const DefaultDemoPortfolio = "SAM Technology & Infrastructure"

// DemoPortfolios returns the managed portfolio set in a stable order.
func DemoPortfolios() []DemoPortfolio {
	return []DemoPortfolio{
		{Name: "SAM Technology & Infrastructure", Benchmark: "Nasdaq 100", AUMUSD: 1.5e9, Strategy: "Growth", InceptionDate: "2019-01-01", BaseCurrency: "USD", IsDemoPortfolio: true, TargetPositions: 45},
		{Name: "SAM Global Flagship Multi-Asset", Benchmark: "MSCI ACWI", AUMUSD: 2.5e9, Strategy: "Multi-Asset", InceptionDate: "2019-01-01", BaseCurrency: "USD"},
		{Name: "SAM ESG Leaders Global Equity", Benchmark: "MSCI ACWI", AUMUSD: 1.8e9, Strategy: "ESG", InceptionDate: "2019-01-01", BaseCurrency: "USD", IsDemoPortfolio: true},
		{Name: "SAM US Core Equity", Benchmark: "S&P 500", AUMUSD: 1.2e9, Strategy: "Core", InceptionDate: "2019-01-01", BaseCurrency: "USD"},
		{Name: "SAM Renewable & Climate Solutions", Benchmark: "Nasdaq 100", AUMUSD: 1.0e9, Strategy: "ESG", InceptionDate: "2019-01-01", BaseCurrency: "USD"},
		{Name: "SAM AI & Digital Innovation", Benchmark: "Nasdaq 100", AUMUSD: 0.9e9, Strategy: "Growth", InceptionDate: "2019-01-01", BaseCurrency: "USD"},
		{Name: "SAM Global Balanced 60/40", Benchmark: "MSCI ACWI", AUMUSD: 0.8e9, Strategy: "Multi-Asset", InceptionDate: "2019-01-01", BaseCurrency: "USD"},
	}
}

// =============================================================================
// ROSTER ACCESSORS
// =============================================================================

// CompanyTickers returns tickers, optionally filtered by tier, in a stable order.
func CompanyTickers(tier string) []string {
	var tickers []string
	for ticker, c := range DemoCompanies() {
		if tier == "" || c.Tier == tier {
			tickers = append(tickers, ticker)
		}
	}
	sort.Strings(tickers)
	return tickers
}

// OrderedDemoTickers returns tickers with a demo_order, sorted by that order.
// These are the priority holdings in demo portfolios.
func OrderedDemoTickers() []string {
	type ordered struct {
		ticker string
		order  int
	}
	var o []ordered
	for ticker, c := range DemoCompanies() {
		if c.DemoOrder > 0 {
			o = append(o, ordered{ticker, c.DemoOrder})
		}
	}
	sort.Slice(o, func(i, j int) bool { return o[i].order < o[j].order })
	tickers := make([]string, len(o))
	for i, e := range o {
		tickers[i] = e.ticker
	}
	return tickers
}

// LargePositionTickers returns tickers flagged for larger portfolio weights.
func LargePositionTickers() []string {
	var tickers []string
	for ticker, c := range DemoCompanies() {
		if c.PositionSize == "large" {
			tickers = append(tickers, ticker)
		}
	}
	sort.Strings(tickers)
	return tickers
}

// ClientsByCategory returns demo clients in a category (standard/at_risk/new)
// sorted by priority.
func ClientsByCategory(category string) []DemoClient {
	var clients []DemoClient
	for _, c := range DemoClients() {
		if c.Category == category {
			clients = append(clients, c)
		}
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Priority < clients[j].Priority })
	return clients
}

// AllClientsSorted returns every demo client sorted by priority.
func AllClientsSorted() []DemoClient {
	var clients []DemoClient
	for _, c := range DemoClients() {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Priority < clients[j].Priority })
	return clients
}
