// Package config holds all samforge configuration: the demo database layout,
// warehouse profiles, scenario definitions, document types, and the demo
// entity roster (companies, clients, portfolios) used by data generation.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all samforge configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Demo database layout
	Database DatabaseConfig `yaml:"database"`

	// Compute profiles
	Warehouses WarehousesConfig `yaml:"warehouses"`

	// Content library and hydration
	Content ContentConfig `yaml:"content"`

	// Report stage and presigned URLs
	Stage StageConfig `yaml:"stage"`

	// Embedding engine for search services
	Embedding EmbeddingConfig `yaml:"embedding"`

	// Agent registry
	Agents AgentsConfig `yaml:"agents"`

	// Data generation
	Generation GenerationConfig `yaml:"generation"`

	// Compliance thresholds
	Compliance ComplianceConfig `yaml:"compliance"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DatabaseConfig names the demo database and its schemas.
type DatabaseConfig struct {
	Name    string            `yaml:"name"`
	Path    string            `yaml:"path"` // directory holding the warehouse files
	Schemas map[string]string `yaml:"schemas"`
	Role    string            `yaml:"role"`
}

// WarehouseProfile describes one auto-suspending compute profile.
type WarehouseProfile struct {
	Name        string `yaml:"name"`
	Size        string `yaml:"size"`
	AutoSuspend int    `yaml:"auto_suspend_seconds"`
	TargetLag   string `yaml:"target_lag,omitempty"`
	Comment     string `yaml:"comment"`
}

// WarehousesConfig holds the execution and search compute profiles.
type WarehousesConfig struct {
	Execution WarehouseProfile `yaml:"execution"`
	Search    WarehouseProfile `yaml:"search"`
}

// ContentConfig configures the template corpus.
type ContentConfig struct {
	LibraryPath string `yaml:"library_path"`
	RulesPath   string `yaml:"rules_path"`
	Version     string `yaml:"version"`
}

// StageConfig configures the report stage.
type StageConfig struct {
	Root       string        `yaml:"root"`
	SigningKey string        `yaml:"signing_key"`
	URLTTL     time.Duration `yaml:"url_ttl"`
	BaseURL    string        `yaml:"base_url"`
}

// EmbeddingConfig configures the embedding engine backing search services.
type EmbeddingConfig struct {
	Provider       string `yaml:"provider"` // local, ollama, genai
	OllamaEndpoint string `yaml:"ollama_endpoint"`
	OllamaModel    string `yaml:"ollama_model"`
	GenAIAPIKey    string `yaml:"genai_api_key"`
	GenAIModel     string `yaml:"genai_model"`
}

// AgentsConfig configures the agent registry.
type AgentsConfig struct {
	OrchestrationModel string `yaml:"orchestration_model"`
	MaxSearchResults   int    `yaml:"max_search_results"`
	QueryTimeoutSecs   int    `yaml:"query_timeout_seconds"`
}

// GenerationConfig controls deterministic data generation.
type GenerationConfig struct {
	RNGSeed            int64   `yaml:"rng_seed"`
	YearsOfHistory     int     `yaml:"years_of_history"`
	TestModeMultiplier float64 `yaml:"test_mode_multiplier"`
	SecuritiesTotal    int     `yaml:"securities_total"`
	TradingDays        int     `yaml:"trading_days"`
}

// ComplianceConfig holds mandate monitoring thresholds.
type ComplianceConfig struct {
	ConcentrationWarning float64 `yaml:"concentration_warning"` // fraction, e.g. 0.065
	ConcentrationBreach  float64 `yaml:"concentration_breach"`  // fraction, e.g. 0.07
	ESGMinimumRating     string  `yaml:"esg_minimum_rating"`
}

// LoggingConfig mirrors .samforge/config.json for the logging package.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode" json:"debug_mode"`
	Categories map[string]bool `yaml:"categories" json:"categories"`
	Level      string          `yaml:"level" json:"level"`
	JSONFormat bool            `yaml:"json_format" json:"json_format"`
}

// Default returns the standard demo configuration.
func Default() *Config {
	return &Config{
		Name:    "samforge",
		Version: "1.0",
		Database: DatabaseConfig{
			Name: "SAM_DEMO",
			Path: ".samforge/warehouse",
			Schemas: map[string]string{
				"raw":         "RAW",
				"curated":     "CURATED",
				"market_data": "MARKET_DATA",
				"ai":          "AI",
				"ops":         "OPS",
			},
			Role: "SAM_DEMO_ROLE",
		},
		Warehouses: WarehousesConfig{
			Execution: WarehouseProfile{
				Name:        "SAM_DEMO_WH",
				Size:        "LARGE",
				AutoSuspend: 60,
				Comment:     "Warehouse for SAM demo data generation and execution",
			},
			Search: WarehouseProfile{
				Name:        "SAM_CORTEX_WH",
				Size:        "MEDIUM",
				AutoSuspend: 60,
				TargetLag:   "1 hour",
				Comment:     "Warehouse for SAM demo search services",
			},
		},
		Content: ContentConfig{
			LibraryPath: "content_library",
			RulesPath:   "content_library/_rules",
			Version:     "1.0",
		},
		Stage: StageConfig{
			Root:    ".samforge/stage",
			URLTTL:  time.Hour,
			BaseURL: "https://stage.sam-demo.example",
		},
		Embedding: EmbeddingConfig{
			Provider:       "local",
			OllamaEndpoint: "http://localhost:11434",
			OllamaModel:    "embeddinggemma",
			GenAIModel:     "gemini-embedding-001",
		},
		Agents: AgentsConfig{
			OrchestrationModel: "claude-sonnet-4-5",
			MaxSearchResults:   4,
			QueryTimeoutSecs:   30,
		},
		Generation: GenerationConfig{
			RNGSeed:            42,
			YearsOfHistory:     5,
			TestModeMultiplier: 0.1,
			SecuritiesTotal:    5000,
			TradingDays:        252,
		},
		Compliance: ComplianceConfig{
			ConcentrationWarning: 0.065,
			ConcentrationBreach:  0.07,
			ESGMinimumRating:     "BBB",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads samforge.yaml from the workspace, falling back to defaults
// when the file is absent. Environment overrides are applied last.
func Load(workspace string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(workspace, "samforge.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides lets environment variables win over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SAMFORGE_DATABASE"); v != "" {
		c.Database.Name = v
	}
	if v := os.Getenv("SAMFORGE_STAGE_KEY"); v != "" {
		c.Stage.SigningKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Embedding.GenAIAPIKey = v
		if c.Embedding.Provider == "" || c.Embedding.Provider == "local" {
			c.Embedding.Provider = "genai"
		}
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		c.Embedding.OllamaEndpoint = v
		if c.Embedding.Provider == "" || c.Embedding.Provider == "local" {
			c.Embedding.Provider = "ollama"
		}
	}
	if os.Getenv("SAMFORGE_DEBUG") == "1" {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
}

// WriteLoggingMirror persists the logging section to .samforge/config.json
// where the logging package (which cannot import config) reads it.
func (c *Config) WriteLoggingMirror(workspace string) error {
	dir := filepath.Join(workspace, ".samforge")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	mirror := struct {
		Logging LoggingConfig `json:"logging"`
	}{Logging: c.Logging}

	data, err := json.MarshalIndent(mirror, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// SchemaName resolves a logical schema key (raw, curated, market_data, ai,
// ops) to its physical name, defaulting to the upper-cased key.
func (c *Config) SchemaName(key string) string {
	if name, ok := c.Database.Schemas[key]; ok {
		return name
	}
	return key
}
