// Package agents builds and registers the per-scenario agent
// specifications. A spec declares the agent's instructions and its tools:
// analyst views for structured questions, search services for document
// questions, and generic tools like the PDF report generator.
package agents

import (
	"fmt"
	"sort"
	"strings"

	"samforge/internal/config"
	"samforge/internal/semantic"
)

// ToolSpec identifies one tool an agent may call.
type ToolSpec struct {
	Type        string `yaml:"type"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Tool wraps a ToolSpec in the serialized layout agents consume.
type Tool struct {
	ToolSpec ToolSpec `yaml:"tool_spec"`
}

// AnalystResource binds an analyst tool to its semantic view and compute.
type AnalystResource struct {
	SemanticView string `yaml:"semantic_view"`
	Warehouse    string `yaml:"warehouse"`
	QueryTimeout int    `yaml:"query_timeout"`
}

// SearchResource binds a search tool to its service.
type SearchResource struct {
	Service     string `yaml:"service"`
	IDColumn    string `yaml:"id_column"`
	TitleColumn string `yaml:"title_column"`
	MaxResults  int    `yaml:"max_results"`
}

// GenericResource binds a generic tool to its implementing identifier.
type GenericResource struct {
	Identifier   string `yaml:"identifier"`
	Warehouse    string `yaml:"warehouse"`
	QueryTimeout int    `yaml:"query_timeout"`
}

// Instructions carries the two instruction blocks every agent has.
type Instructions struct {
	Response      string `yaml:"response"`
	Orchestration string `yaml:"orchestration"`
}

// Models selects the orchestration model.
type Models struct {
	Orchestration string `yaml:"orchestration"`
}

// Spec is the full serialized agent specification.
type Spec struct {
	Name          string                 `yaml:"name"`
	DisplayName   string                 `yaml:"display_name"`
	Description   string                 `yaml:"description"`
	Models        Models                 `yaml:"models"`
	Instructions  Instructions           `yaml:"instructions"`
	Tools         []Tool                 `yaml:"tools"`
	ToolResources map[string]interface{} `yaml:"tool_resources"`
}

// BuildSpec assembles the agent specification for one scenario.
func BuildSpec(cfg *config.Config, scenario string) (*Spec, error) {
	meta, ok := config.ScenarioAgents()[scenario]
	if !ok {
		return nil, fmt.Errorf("no agent defined for scenario %q", scenario)
	}

	spec := &Spec{
		Name:          meta.AgentName,
		DisplayName:   meta.DisplayName,
		Description:   meta.Description,
		Models:        Models{Orchestration: cfg.Agents.OrchestrationModel},
		Instructions:  scenarioInstructions(scenario),
		ToolResources: make(map[string]interface{}),
	}

	// Analyst tools, one per semantic view the scenario uses.
	for _, view := range semantic.ViewNamesForScenario(scenario) {
		toolName := analystToolName(view)
		spec.Tools = append(spec.Tools, Tool{ToolSpec: ToolSpec{
			Type:        "analyst_text_to_sql",
			Name:        toolName,
			Description: analystDescriptions[view],
		}})
		spec.ToolResources[toolName] = AnalystResource{
			SemanticView: cfg.Database.Schemas["ai"] + "_" + view,
			Warehouse:    cfg.Warehouses.Execution.Name,
			QueryTimeout: cfg.Agents.QueryTimeoutSecs,
		}
	}

	// Search tools, one per distinct service across the scenario's doc types.
	for _, svc := range scenarioSearchServices(scenario) {
		toolName := searchToolName(svc.service)
		spec.Tools = append(spec.Tools, Tool{ToolSpec: ToolSpec{
			Type:        "document_search",
			Name:        toolName,
			Description: fmt.Sprintf("Searches %s documents.", strings.Join(svc.docTypes, ", ")),
		}})
		spec.ToolResources[toolName] = SearchResource{
			Service:     svc.service,
			IDColumn:    "DOCUMENT_ID",
			TitleColumn: "DOCUMENT_TITLE",
			MaxResults:  cfg.Agents.MaxSearchResults,
		}
	}

	// Every agent can produce branded PDF output.
	spec.Tools = append(spec.Tools, Tool{ToolSpec: ToolSpec{
		Type: "generic",
		Name: "pdf_generator",
		Description: "Generates professional branded PDF reports from markdown content " +
			"with audience-appropriate headers and footers (internal, external_client, " +
			"external_regulatory). Use as the final step when the user asks to generate, " +
			"create, or formalize a document.",
	}})
	spec.ToolResources["pdf_generator"] = GenericResource{
		Identifier:   "GENERATE_PDF_REPORT",
		Warehouse:    cfg.Warehouses.Execution.Name,
		QueryTimeout: 60,
	}

	// The executive agent additionally models acquisition scenarios.
	if scenario == "executive_copilot" {
		spec.Tools = append(spec.Tools, Tool{ToolSpec: ToolSpec{
			Type: "generic",
			Name: "ma_simulator",
			Description: "Models the financial impact of acquiring an asset management " +
				"target: revenue synergies, cost synergies over a two-year realization " +
				"schedule, integration costs, and a size-based risk assessment. Inputs: " +
				"target AUM and revenue in dollars, optional cost synergy percentage.",
		}})
		spec.ToolResources["ma_simulator"] = GenericResource{
			Identifier:   "SIMULATE_MA_IMPACT",
			Warehouse:    cfg.Warehouses.Execution.Name,
			QueryTimeout: 60,
		}
	}

	return spec, nil
}

type serviceGroup struct {
	service  string
	docTypes []string
}

// scenarioSearchServices groups the scenario's document types by the search
// service that indexes them, sorted by service name.
func scenarioSearchServices(scenario string) []serviceGroup {
	byService := make(map[string][]string)
	for _, id := range config.RequiredDocumentTypes([]string{scenario}) {
		dt, err := config.DocumentTypeFor(id)
		if err != nil {
			continue
		}
		byService[dt.SearchService] = append(byService[dt.SearchService], id)
	}

	names := make([]string, 0, len(byService))
	for name := range byService {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]serviceGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, serviceGroup{service: name, docTypes: byService[name]})
	}
	return groups
}

// analystToolName derives a tool name from a view name:
// PORTFOLIO_ANALYST becomes portfolio_analyzer.
func analystToolName(view string) string {
	name := strings.ToLower(view)
	name = strings.TrimSuffix(name, "_analyst")
	name = strings.TrimSuffix(name, "_kpi")
	return name + "_analyzer"
}

// searchToolName derives a tool name from a service name:
// SAM_BROKER_RESEARCH becomes search_broker_research.
func searchToolName(service string) string {
	return "search_" + strings.ToLower(strings.TrimPrefix(service, "SAM_"))
}

var analystDescriptions = map[string]string{
	"PORTFOLIO_ANALYST":  "Analyzes portfolio holdings, position weights, sector allocations, and concentration for the demo portfolios.",
	"MARKET_ANALYST":     "Analyzes daily stock prices with open, close, and volume per ticker.",
	"ESG_ANALYST":        "Analyzes ESG scores and ratings per issuer for mandate screening.",
	"COMPLIANCE_ANALYST": "Analyzes mandate breaches and warnings with the observed weights and thresholds.",
	"CLIENT_ANALYST":     "Analyzes monthly client flows with client type, region, and risk category.",
	"EXECUTIVE_KPI":      "Analyzes firm-wide trading activity and portfolio AUM for executive KPIs.",
}
