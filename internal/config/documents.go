package config

import "fmt"

// =============================================================================
// DOCUMENT TYPES AND SCENARIOS
// =============================================================================

// Linkage levels tie a document type to the entity its content describes.
const (
	LinkageGlobal    = "global"
	LinkageIssuer    = "issuer"
	LinkageSecurity  = "security"
	LinkagePortfolio = "portfolio"
)

// DocumentType describes one corpus of generated documents.
type DocumentType struct {
	TableName      string   // RAW table holding rendered documents
	CorpusName     string   // CURATED corpus table indexed by search
	SearchService  string   // search service name (types may share one)
	LinkageLevel   string   // global, issuer, security, portfolio
	TemplateDir    string   // relative to the content library root
	CoverageCount  int      // entities covered (securities/issuers/portfolios)
	DocsPerEntity  int      // documents generated per covered entity
	DocsTotal      int      // for global doc types: total documents
	WordCountMin   int
	WordCountMax   int
	Categories     []string // ngo_reports: environmental/social/governance
	SeverityLevels []string // ngo_reports severity attribute values
	MeetingTypes   []string // engagement_notes meeting type routing
}

// DocumentTypes returns the configured document corpora keyed by type id.
func DocumentTypes() map[string]DocumentType {
	return map[string]DocumentType{
		"broker_research": {
			TableName: "BROKER_RESEARCH_RAW", CorpusName: "BROKER_RESEARCH_CORPUS",
			SearchService: "SAM_BROKER_RESEARCH", LinkageLevel: LinkageSecurity,
			TemplateDir: "security/broker_research", CoverageCount: 8, DocsPerEntity: 2,
			WordCountMin: 700, WordCountMax: 1200,
		},
		"press_releases": {
			TableName: "PRESS_RELEASES_RAW", CorpusName: "PRESS_RELEASES_CORPUS",
			SearchService: "SAM_PRESS_RELEASES", LinkageLevel: LinkageSecurity,
			TemplateDir: "security/press_releases", CoverageCount: 8, DocsPerEntity: 4,
			WordCountMin: 250, WordCountMax: 400,
		},
		"ngo_reports": {
			TableName: "NGO_REPORTS_RAW", CorpusName: "NGO_REPORTS_CORPUS",
			SearchService: "SAM_NGO_REPORTS", LinkageLevel: LinkageIssuer,
			TemplateDir: "issuer/ngo_reports", CoverageCount: 8, DocsPerEntity: 2,
			WordCountMin: 400, WordCountMax: 800,
			Categories:     []string{"environmental", "social", "governance"},
			SeverityLevels: []string{"high", "medium", "low"},
		},
		"engagement_notes": {
			TableName: "ENGAGEMENT_NOTES_RAW", CorpusName: "ENGAGEMENT_NOTES_CORPUS",
			SearchService: "SAM_ENGAGEMENT_NOTES", LinkageLevel: LinkageIssuer,
			TemplateDir: "issuer/engagement_notes", CoverageCount: 8, DocsPerEntity: 3,
			WordCountMin: 150, WordCountMax: 300,
			MeetingTypes: []string{"Annual Review", "ESG Deep Dive", "Compliance Discussion", "Proxy Voting"},
		},
		"portfolio_review": {
			TableName: "PORTFOLIO_REVIEW_RAW", CorpusName: "PORTFOLIO_REVIEW_CORPUS",
			SearchService: "SAM_PORTFOLIO_DOCS", LinkageLevel: LinkagePortfolio,
			TemplateDir: "portfolio/portfolio_review", CoverageCount: 2, DocsPerEntity: 4,
			WordCountMin: 800, WordCountMax: 1400,
		},
		"policy_docs": {
			TableName: "POLICY_DOCS_RAW", CorpusName: "POLICY_DOCS_CORPUS",
			SearchService: "SAM_POLICIES", LinkageLevel: LinkageGlobal,
			TemplateDir: "global/policy_docs", DocsTotal: 6,
			WordCountMin: 600, WordCountMax: 1000,
		},
		"report_templates": {
			TableName: "REPORT_TEMPLATES_RAW", CorpusName: "REPORT_TEMPLATES_CORPUS",
			SearchService: "SAM_REPORT_TEMPLATES", LinkageLevel: LinkageGlobal,
			TemplateDir: "global/report_templates", DocsTotal: 5,
			WordCountMin: 300, WordCountMax: 600,
		},
		"strategy_documents": {
			TableName: "STRATEGY_DOCUMENTS_RAW", CorpusName: "STRATEGY_DOCUMENTS_CORPUS",
			SearchService: "SAM_STRATEGY_DOCS", LinkageLevel: LinkageGlobal,
			TemplateDir: "global/strategy_documents", DocsTotal: 4,
			WordCountMin: 900, WordCountMax: 1500,
		},
	}
}

// DocumentTypeFor looks up a document type or fails with the known set.
func DocumentTypeFor(id string) (DocumentType, error) {
	dt, ok := DocumentTypes()[id]
	if !ok {
		return DocumentType{}, fmt.Errorf("unknown document type: %s", id)
	}
	return dt, nil
}

// =============================================================================
// SCENARIOS AND AGENTS
// =============================================================================

// AvailableScenarios lists every buildable demo scenario.
var AvailableScenarios = []string{
	"portfolio_copilot",
	"research_copilot",
	"esg_guardian",
	"sales_advisor",
	"compliance_advisor",
	"executive_copilot",
}

// ScenarioAgent maps a scenario to its registered agent.
type ScenarioAgent struct {
	AgentName   string
	DisplayName string
	Description string
}

// ScenarioAgents returns the scenario → agent mapping.
func ScenarioAgents() map[string]ScenarioAgent {
	return map[string]ScenarioAgent{
		"portfolio_copilot":  {AgentName: "AM_portfolio_copilot", DisplayName: "Portfolio Co-Pilot", Description: "Portfolio analytics and benchmarking"},
		"research_copilot":   {AgentName: "AM_research_copilot", DisplayName: "Research Co-Pilot", Description: "Document research and analysis"},
		"esg_guardian":       {AgentName: "AM_esg_guardian", DisplayName: "ESG Guardian", Description: "ESG risk monitoring"},
		"sales_advisor":      {AgentName: "AM_sales_advisor", DisplayName: "Sales Advisor", Description: "Client reporting"},
		"compliance_advisor": {AgentName: "AM_compliance_advisor", DisplayName: "Compliance Advisor", Description: "Mandate monitoring"},
		"executive_copilot":  {AgentName: "AM_executive_copilot", DisplayName: "Executive Command Center", Description: "Firm-wide KPIs, client analytics, and strategic M&A analysis"},
	}
}

// scenarioDataRequirements maps scenarios to the document types they need.
var scenarioDataRequirements = map[string][]string{
	"portfolio_copilot":  {"broker_research", "press_releases", "portfolio_review", "report_templates"},
	"research_copilot":   {"broker_research", "press_releases"},
	"esg_guardian":       {"ngo_reports", "engagement_notes", "policy_docs"},
	"sales_advisor":      {"portfolio_review", "policy_docs", "report_templates"},
	"compliance_advisor": {"policy_docs", "engagement_notes", "report_templates"},
	"executive_copilot":  {"strategy_documents", "press_releases", "broker_research"},
}

// ValidateScenarios rejects unknown scenario names.
func ValidateScenarios(scenarios []string) error {
	known := make(map[string]bool, len(AvailableScenarios))
	for _, s := range AvailableScenarios {
		known[s] = true
	}
	for _, s := range scenarios {
		if !known[s] {
			return fmt.Errorf("invalid scenario %q (available: %v)", s, AvailableScenarios)
		}
	}
	return nil
}

// RequiredDocumentTypes returns the de-duplicated document types needed by
// the given scenarios, in a stable first-seen order.
func RequiredDocumentTypes(scenarios []string) []string {
	seen := make(map[string]bool)
	var required []string
	for _, scenario := range scenarios {
		for _, dt := range scenarioDataRequirements[scenario] {
			if !seen[dt] {
				seen[dt] = true
				required = append(required, dt)
			}
		}
	}
	return required
}
