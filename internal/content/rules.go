package content

import (
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"samforge/internal/logging"
)

// Bound is an inclusive numeric sampling range.
type Bound struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Rules exposes the _rules YAML files with built-in fallbacks so a missing
// rules directory never blocks hydration.
type Rules struct {
	path string

	once sync.Once
	// linkage -> doc_type -> sector -> placeholder -> bound
	boundsRaw map[string]map[string]map[string]map[string]Bound
	providers providersFile
	contract  contractFile
}

type providersFile struct {
	FictionalBrokers []string            `yaml:"fictional_brokers"`
	FictionalNGOs    map[string][]string `yaml:"fictional_ngos"`
}

type contractFile struct {
	Required map[string][]string `yaml:"required"`
	Optional map[string][]string `yaml:"optional"`
}

// NewRules opens the rules directory (typically <library>/_rules).
func NewRules(path string) *Rules {
	return &Rules{path: path}
}

func (r *Rules) load() {
	r.once.Do(func() {
		loadYAML(filepath.Join(r.path, "numeric_bounds.yaml"), &r.boundsRaw)
		loadYAML(filepath.Join(r.path, "fictional_providers.yaml"), &r.providers)
		loadYAML(filepath.Join(r.path, "placeholder_contract.yaml"), &r.contract)
	})
}

func loadYAML(path string, out interface{}) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Get(logging.CategoryCorpus).Warn("Could not read %s: %v", path, err)
		}
		return
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		logging.Get(logging.CategoryCorpus).Warn("Could not parse %s: %v", path, err)
	}
}

// linkage groups doc types for the bounds file layout.
var boundsLinkage = map[string]string{
	"broker_research":    "security",
	"press_releases":     "security",
	"ngo_reports":        "issuer",
	"engagement_notes":   "issuer",
	"portfolio_review":   "portfolio",
	"policy_docs":        "global",
	"report_templates":   "global",
	"strategy_documents": "global",
}

// NumericBounds returns the merged bounds for a doc type and sector:
// the _default block overlaid with the sector-specific block.
func (r *Rules) NumericBounds(docType, sector string) map[string]Bound {
	r.load()

	linkage := boundsLinkage[docType]
	if linkage == "" {
		linkage = "security"
	}

	docBounds := r.boundsRaw[linkage][docType]
	merged := make(map[string]Bound)
	for name, b := range docBounds["_default"] {
		merged[name] = b
	}
	for name, b := range docBounds[sector] {
		merged[name] = b
	}
	if len(merged) == 0 {
		for name, b := range defaultBounds[docType] {
			merged[name] = b
		}
	}
	return merged
}

// FictionalBrokers returns the fictional broker roster.
func (r *Rules) FictionalBrokers() []string {
	r.load()
	if len(r.providers.FictionalBrokers) > 0 {
		return r.providers.FictionalBrokers
	}
	return defaultBrokers
}

// FictionalNGOs returns fictional NGO names by ESG category.
func (r *Rules) FictionalNGOs() map[string][]string {
	r.load()
	if len(r.providers.FictionalNGOs) > 0 {
		return r.providers.FictionalNGOs
	}
	return defaultNGOs
}

// RequiredPlaceholders returns the contract's required placeholders for a
// doc type.
func (r *Rules) RequiredPlaceholders(docType string) []string {
	r.load()
	return r.contract.Required[docType]
}

// OptionalPlaceholders returns the contract's optional placeholders.
func (r *Rules) OptionalPlaceholders(docType string) []string {
	r.load()
	return r.contract.Optional[docType]
}

// Built-in fallbacks, used when the _rules directory is absent.

var defaultBrokers = []string{
	"Ashfield Partners", "Northgate Analytics", "Blackstone Ridge Research",
	"Fairmont Capital Insights", "Kingswell Securities Research",
	"Brookline Advisory Group", "Harrow Street Markets", "Marlowe & Co. Research",
	"Crescent Point Analytics", "Simulated Wharf Intelligence", "Granite Peak Advisory",
	"Alder & Finch Investments", "Bluehaven Capital Research", "Regent Square Analytics",
	"Whitestone Equity Research",
}

var defaultNGOs = map[string][]string{
	"environmental": {
		"Global Sustainability Watch", "Environmental Justice Initiative",
		"Climate Action Network", "Green Future Alliance",
	},
	"social": {
		"Human Rights Monitor", "Labour Rights Observatory",
		"Ethical Investment Coalition", "Fair Workplace Institute",
	},
	"governance": {
		"Corporate Accountability Forum", "Transparency Advocacy Group",
		"Corporate Responsibility Institute", "Ethical Governance Council",
	},
}

var defaultBounds = map[string]map[string]Bound{
	"broker_research": {
		"REVENUE_GROWTH_PCT": {Min: -5, Max: 35},
		"OPERATING_MARGIN":   {Min: 5, Max: 45},
		"PRICE_TARGET":       {Min: 20, Max: 900},
		"PE_RATIO":           {Min: 8, Max: 60},
	},
	"press_releases": {
		"REVENUE_BILLIONS":   {Min: 0.5, Max: 120},
		"REVENUE_GROWTH_PCT": {Min: -5, Max: 35},
		"EPS_USD":            {Min: 0.2, Max: 15},
	},
	"ngo_reports": {
		"EMISSIONS_PCT":   {Min: 2, Max: 30},
		"COMPLIANCE_RATE": {Min: 40, Max: 95},
	},
	"engagement_notes": {
		"ENGAGEMENT_SCORE": {Min: 1, Max: 10},
	},
	"portfolio_review": {
		"QTD_RETURN_PCT":      {Min: -8, Max: 12},
		"YTD_RETURN_PCT":      {Min: -15, Max: 30},
		"BENCHMARK_DELTA_PCT": {Min: -5, Max: 5},
	},
	"policy_docs": {
		"REVIEW_CYCLE_MONTHS": {Min: 6, Max: 24},
	},
	"report_templates": {
		"SECTION_COUNT": {Min: 3, Max: 8},
	},
	"strategy_documents": {
		"TARGET_AUM_GROWTH_PCT": {Min: 5, Max: 25},
		"HORIZON_YEARS":         {Min: 3, Max: 10},
	},
}
