package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"samforge/internal/agents"
	"samforge/internal/config"
	"samforge/internal/content"
	"samforge/internal/embedding"
	"samforge/internal/hydrate"
	"samforge/internal/search"
	"samforge/internal/semantic"
	"samforge/internal/structured"
	"samforge/internal/warehouse"
)

var (
	buildScenarios string
	buildScope     string
	buildTestMode  bool
)

var buildScopes = map[string]bool{
	"all": true, "data": true, "structured": true, "unstructured": true,
	"ai": true, "semantic": true, "search": true, "agents": true,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the demo environment",
	Long: `Build provisions the warehouse and generates the demo environment for
the selected scenarios: structured market and portfolio data, the hydrated
document corpus, search services, semantic views, and agents.

The --scope flag rebuilds a slice of the environment:
  all           everything, recreating the database first
  data          structured and unstructured data
  structured    dimensions, prices, and fact tables only
  unstructured  document hydration only (requires structured data)
  ai            search services, semantic views, and agents
  semantic      semantic views only
  search        search services only
  agents        agents only`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildScenarios, "scenarios", "all",
		"Comma-separated scenarios, or 'all'")
	buildCmd.Flags().StringVar(&buildScope, "scope", "all",
		"Build scope: all, data, structured, unstructured, ai, semantic, search, agents")
	buildCmd.Flags().BoolVar(&buildTestMode, "test-mode", false,
		"Generate reduced data volumes for fast test builds")
}

func runBuild(cmd *cobra.Command, args []string) error {
	scenarios, err := parseScenarios(buildScenarios)
	if err != nil {
		return err
	}
	if !buildScopes[buildScope] {
		return fmt.Errorf("invalid scope %q", buildScope)
	}

	start := time.Now()
	banner := strings.Repeat("=", 60)
	fmt.Println(banner)
	fmt.Println("Simulated Asset Management (SAM) Demo Builder")
	fmt.Println(banner)
	fmt.Printf("Started:   %s\n", start.Format("2006-01-02 15:04:05"))
	fmt.Printf("Scenarios: %s\n", strings.Join(scenarios, ", "))
	fmt.Printf("Scope:     %s\n", buildScope)
	if buildTestMode {
		fmt.Println("Mode:      TEST (reduced data volumes)")
	}
	fmt.Println(banner)

	ctx := cmd.Context()
	store, err := openStore()
	if err != nil {
		return buildFailed(err)
	}
	defer store.Close()

	if err := runBuildPhases(ctx, store, scenarios); err != nil {
		return buildFailed(err)
	}

	agentNames, err := registeredAgentNames(store)
	if err != nil {
		logger.Warn("Could not list agents for summary", zap.Error(err))
	}

	fmt.Println(banner)
	fmt.Println("BUILD COMPLETE")
	fmt.Println(banner)
	fmt.Printf("Duration:  %s\n", time.Since(start).Round(time.Second))
	fmt.Printf("Database:  %s\n", cfg.Database.Name)
	fmt.Printf("Scenarios: %s\n", strings.Join(scenarios, ", "))
	if len(agentNames) > 0 {
		fmt.Println("Agents Created:")
		for _, name := range agentNames {
			fmt.Printf("  - %s\n", name)
		}
	} else {
		fmt.Println("No agents created (scope excluded agents)")
	}
	fmt.Println(banner)
	return nil
}

// runBuildPhases executes the in-scope build phases in dependency order.
func runBuildPhases(ctx context.Context, store *warehouse.Store, scenarios []string) error {
	inScope := func(scopes ...string) bool {
		for _, s := range scopes {
			if s == buildScope {
				return true
			}
		}
		return false
	}

	// A full build starts from a clean database.
	if buildScope == "all" {
		if _, err := store.Teardown(ctx); err != nil {
			logger.Warn("Teardown before rebuild reported errors", zap.Error(err))
		}
	}
	if _, err := store.Provision(ctx); err != nil {
		return fmt.Errorf("provisioning failed: %w", err)
	}

	gen := structured.NewGenerator(store, cfg, buildTestMode)

	if inScope("all", "data", "structured") {
		fmt.Println("\n[1/5] Structured data")
		if err := gen.Run(ctx); err != nil {
			return fmt.Errorf("structured data generation failed: %w", err)
		}
	}

	if inScope("all", "data", "unstructured") {
		fmt.Println("\n[2/5] Document corpus")
		if err := hydrateCorpus(ctx, store, gen, scenarios); err != nil {
			return err
		}
	}

	if inScope("all", "ai", "search") {
		fmt.Println("\n[3/5] Search services")
		engine, err := embedding.NewEngine(cfg.Embedding)
		if err != nil {
			return fmt.Errorf("embedding engine: %w", err)
		}
		builder := search.NewBuilder(store, cfg, engine)
		docTypes := config.RequiredDocumentTypes(scenarios)
		if _, err := builder.BuildAll(ctx, docTypes); err != nil {
			return fmt.Errorf("search service build failed: %w", err)
		}
	}

	if inScope("all", "ai", "semantic") {
		fmt.Println("\n[4/5] Semantic views")
		if _, err := semantic.NewBuilder(store).BuildAll(ctx, scenarios); err != nil {
			return fmt.Errorf("semantic view build failed: %w", err)
		}
	}

	if inScope("all", "ai", "agents") {
		fmt.Println("\n[5/5] Agents")
		registry := agents.NewRegistry(store, cfg)
		if _, err := registry.RegisterAll(ctx, scenarios); err != nil {
			return fmt.Errorf("agent registration failed: %w", err)
		}
	}
	return nil
}

// hydrateCorpus generates the scenarios' document types and promotes them
// to their curated corpus tables. Requires structured dimensions.
func hydrateCorpus(ctx context.Context, store *warehouse.Store, gen *structured.Generator, scenarios []string) error {
	if _, err := store.CountRows(store.Table("curated", "DIM_SECURITY")); err != nil {
		return fmt.Errorf("structured data not found; run with --scope structured first")
	}

	anchor := gen.PriceAnchor()
	if anchor.IsZero() {
		var err error
		if anchor, err = gen.LoadPriceAnchor(); err != nil {
			return fmt.Errorf("structured data not found; run with --scope structured first")
		}
	}

	lib, err := content.NewLibrary(workspacePath(cfg.Content.LibraryPath))
	if err != nil {
		return fmt.Errorf("content library: %w", err)
	}
	rules := content.NewRules(workspacePath(cfg.Content.RulesPath))

	engine := hydrate.NewEngine(store, cfg, lib, rules, anchor, buildTestMode)
	docTypes := config.RequiredDocumentTypes(scenarios)
	counts, err := engine.HydrateAll(ctx, docTypes)
	if err != nil {
		return fmt.Errorf("hydration failed: %w", err)
	}
	for _, dt := range docTypes {
		if _, err := engine.PromoteToCorpus(dt); err != nil {
			return fmt.Errorf("promote %s: %w", dt, err)
		}
	}

	types := make([]string, 0, len(counts))
	for dt := range counts {
		types = append(types, dt)
	}
	sort.Strings(types)
	for _, dt := range types {
		fmt.Printf("  %-20s %d documents\n", dt, counts[dt])
	}
	return nil
}

func parseScenarios(raw string) ([]string, error) {
	if raw == "" || raw == "all" {
		return config.AvailableScenarios, nil
	}
	var scenarios []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scenarios = append(scenarios, s)
		}
	}
	if err := config.ValidateScenarios(scenarios); err != nil {
		return nil, err
	}
	return scenarios, nil
}

func registeredAgentNames(store *warehouse.Store) ([]string, error) {
	status, err := store.Snapshot()
	if err != nil {
		return nil, err
	}
	return status.Agents, nil
}

// workspacePath resolves a config-relative path against the workspace.
func workspacePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workspace, p)
}

func buildFailed(err error) error {
	banner := strings.Repeat("=", 60)
	fmt.Println(banner)
	fmt.Println("BUILD FAILED")
	fmt.Println(banner)
	return err
}
