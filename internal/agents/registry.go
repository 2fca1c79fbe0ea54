package agents

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"samforge/internal/config"
	"samforge/internal/logging"
	"samforge/internal/warehouse"
)

// Registry creates and lists the registered agents.
type Registry struct {
	store *warehouse.Store
	cfg   *config.Config
}

// NewRegistry creates an agent registry over the warehouse store.
func NewRegistry(store *warehouse.Store, cfg *config.Config) *Registry {
	return &Registry{store: store, cfg: cfg}
}

// RegisterAll builds and registers one agent per scenario. Failures are
// collected; the first error is returned after all scenarios are tried.
func (r *Registry) RegisterAll(ctx context.Context, scenarios []string) ([]string, error) {
	timer := logging.StartTimer(logging.CategoryAgents, "RegisterAll")
	defer timer.StopWithInfo()

	var created []string
	var firstErr error
	for _, scenario := range scenarios {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		name, err := r.Register(scenario)
		if err != nil {
			logging.Get(logging.CategoryAgents).Error("Agent for %s failed: %v", scenario, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("agent for %s: %w", scenario, err)
			}
			continue
		}
		created = append(created, name)
	}
	logging.Agents("Registered %d of %d agents", len(created), len(scenarios))
	return created, firstErr
}

// Register builds one scenario's spec and upserts it into the registry.
func (r *Registry) Register(scenario string) (string, error) {
	spec, err := BuildSpec(r.cfg, scenario)
	if err != nil {
		return "", err
	}

	raw, err := yaml.Marshal(spec)
	if err != nil {
		return "", fmt.Errorf("marshal spec: %w", err)
	}

	registry := r.store.Table("ai", "AGENTS")
	if _, err := r.store.Exec(fmt.Sprintf(
		`INSERT OR REPLACE INTO %s (agent_name, display_name, description, spec_yaml, created_at)
		 VALUES (?, ?, ?, ?, datetime('now'))`, registry),
		spec.Name, spec.DisplayName, spec.Description, string(raw)); err != nil {
		return "", err
	}

	logging.Agents("Registered agent %s (%d tools)", spec.Name, len(spec.Tools))
	return spec.Name, nil
}

// Registered is one row of the agent registry.
type Registered struct {
	AgentName   string
	DisplayName string
	Description string
	CreatedAt   string
}

// List returns the registered agents ordered by name.
func (r *Registry) List() ([]Registered, error) {
	registry := r.store.Table("ai", "AGENTS")
	rows, err := r.store.Query(fmt.Sprintf(
		"SELECT agent_name, display_name, description, created_at FROM %s ORDER BY agent_name",
		registry))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []Registered
	for rows.Next() {
		var a Registered
		if err := rows.Scan(&a.AgentName, &a.DisplayName, &a.Description, &a.CreatedAt); err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// Spec loads one agent's stored specification.
func (r *Registry) Spec(agentName string) (*Spec, error) {
	registry := r.store.Table("ai", "AGENTS")
	var raw string
	err := r.store.QueryRow(fmt.Sprintf(
		"SELECT spec_yaml FROM %s WHERE agent_name = ?", registry), agentName).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("agent %s not registered", agentName)
	}

	var spec Spec
	if err := yaml.Unmarshal([]byte(raw), &spec); err != nil {
		return nil, fmt.Errorf("parse spec for %s: %w", agentName, err)
	}
	return &spec, nil
}
