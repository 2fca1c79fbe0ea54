package semantic

// Column is one exposed view column with its source expression.
type Column struct {
	Name string
	Expr string
}

// ViewDef declares one analyst view: dimensions and metrics over the
// curated star schema. Table placeholders like {curated.DIM_ISSUER} are
// resolved to schema-qualified names at compile time.
type ViewDef struct {
	Name        string
	Description string
	Dimensions  []Column
	Metrics     []Column
	From        string
}

// viewCatalog holds every analyst view the scenarios can request.
var viewCatalog = map[string]ViewDef{
	"PORTFOLIO_ANALYST": {
		Name:        "PORTFOLIO_ANALYST",
		Description: "Daily portfolio positions with security and issuer context",
		Dimensions: []Column{
			{"portfolio_name", "p.portfolio_name"},
			{"strategy", "p.strategy"},
			{"ticker", "s.ticker"},
			{"company_name", "i.company_name"},
			{"sector", "i.sector"},
			{"position_date", "f.position_date"},
		},
		Metrics: []Column{
			{"quantity", "f.quantity"},
			{"market_value_usd", "f.market_value_usd"},
			{"weight", "f.weight"},
		},
		From: `{curated.FACT_POSITION_DAILY_ABOR} f
			JOIN {curated.DIM_PORTFOLIO} p ON p.portfolio_id = f.portfolio_id
			JOIN {curated.DIM_SECURITY} s ON s.security_id = f.security_id
			JOIN {curated.DIM_ISSUER} i ON i.issuer_id = s.issuer_id`,
	},
	"MARKET_ANALYST": {
		Name:        "MARKET_ANALYST",
		Description: "Daily stock prices with issuer context",
		Dimensions: []Column{
			{"ticker", "mp.ticker"},
			{"company_name", "i.company_name"},
			{"sector", "i.sector"},
			{"price_date", "mp.price_date"},
		},
		Metrics: []Column{
			{"open_price", "mp.open_price"},
			{"close_price", "mp.close_price"},
			{"volume", "mp.volume"},
		},
		From: `{market_data.FACT_STOCK_PRICES} mp
			JOIN {curated.DIM_SECURITY} s ON s.ticker = mp.ticker
			JOIN {curated.DIM_ISSUER} i ON i.issuer_id = s.issuer_id`,
	},
	"ESG_ANALYST": {
		Name:        "ESG_ANALYST",
		Description: "ESG scores and ratings per issuer",
		Dimensions: []Column{
			{"company_name", "i.company_name"},
			{"sector", "i.sector"},
			{"overall_rating", "e.overall_rating"},
			{"score_date", "e.score_date"},
		},
		Metrics: []Column{
			{"environmental_score", "e.environmental_score"},
			{"social_score", "e.social_score"},
			{"governance_score", "e.governance_score"},
		},
		From: `{curated.FACT_ESG_SCORES} e
			JOIN {curated.DIM_ISSUER} i ON i.issuer_id = e.issuer_id`,
	},
	"COMPLIANCE_ANALYST": {
		Name:        "COMPLIANCE_ANALYST",
		Description: "Mandate breaches and warnings with portfolio and issuer context",
		Dimensions: []Column{
			{"portfolio_name", "p.portfolio_name"},
			{"ticker", "s.ticker"},
			{"company_name", "i.company_name"},
			{"rule", "b.rule"},
			{"severity", "b.severity"},
			{"breach_date", "b.breach_date"},
		},
		Metrics: []Column{
			{"observed_weight", "b.observed_weight"},
			{"threshold", "b.threshold"},
		},
		From: `{curated.FACT_COMPLIANCE_BREACH} b
			JOIN {curated.DIM_PORTFOLIO} p ON p.portfolio_id = b.portfolio_id
			JOIN {curated.DIM_SECURITY} s ON s.security_id = b.security_id
			JOIN {curated.DIM_ISSUER} i ON i.issuer_id = s.issuer_id`,
	},
	"CLIENT_ANALYST": {
		Name:        "CLIENT_ANALYST",
		Description: "Monthly client flows with client attributes",
		Dimensions: []Column{
			{"client_name", "c.client_name"},
			{"client_type", "c.client_type"},
			{"region", "c.region"},
			{"client_category", "c.category"},
			{"flow_month", "f.flow_month"},
			{"flow_type", "f.flow_type"},
		},
		Metrics: []Column{
			{"net_flow_usd", "f.net_flow_usd"},
			{"client_aum_usd", "c.aum_usd"},
		},
		From: `{curated.FACT_CLIENT_FLOW} f
			JOIN {curated.DIM_CLIENT} c ON c.client_id = f.client_id`,
	},
	"EXECUTIVE_KPI": {
		Name:        "EXECUTIVE_KPI",
		Description: "Trading activity across portfolios for firm-wide KPIs",
		Dimensions: []Column{
			{"portfolio_name", "p.portfolio_name"},
			{"strategy", "p.strategy"},
			{"ticker", "s.ticker"},
			{"trade_date", "t.trade_date"},
			{"side", "t.side"},
		},
		Metrics: []Column{
			{"quantity", "t.quantity"},
			{"price", "t.price"},
			{"gross_amount_usd", "t.gross_amount_usd"},
			{"portfolio_aum_usd", "p.aum_usd"},
		},
		From: `{curated.FACT_TRANSACTION} t
			JOIN {curated.DIM_PORTFOLIO} p ON p.portfolio_id = t.portfolio_id
			JOIN {curated.DIM_SECURITY} s ON s.security_id = t.security_id`,
	},
}

// scenarioViews maps each scenario to the analyst views it needs.
var scenarioViews = map[string][]string{
	"portfolio_copilot":  {"PORTFOLIO_ANALYST", "MARKET_ANALYST"},
	"research_copilot":   {"MARKET_ANALYST"},
	"esg_guardian":       {"ESG_ANALYST", "PORTFOLIO_ANALYST"},
	"sales_advisor":      {"CLIENT_ANALYST", "PORTFOLIO_ANALYST"},
	"compliance_advisor": {"COMPLIANCE_ANALYST", "PORTFOLIO_ANALYST"},
	"executive_copilot":  {"EXECUTIVE_KPI", "CLIENT_ANALYST", "MARKET_ANALYST"},
}

// ViewsForScenarios returns the de-duplicated view definitions the given
// scenarios need, in first-seen order.
func ViewsForScenarios(scenarios []string) []ViewDef {
	seen := make(map[string]bool)
	var views []ViewDef
	for _, scenario := range scenarios {
		for _, name := range scenarioViews[scenario] {
			if !seen[name] {
				seen[name] = true
				views = append(views, viewCatalog[name])
			}
		}
	}
	return views
}

// ViewNamesForScenario lists the analyst view names one scenario uses.
func ViewNamesForScenario(scenario string) []string {
	return scenarioViews[scenario]
}
